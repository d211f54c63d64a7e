package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nerrad567/gv2mqtt/internal/govee/lan"
	"github.com/nerrad567/gv2mqtt/internal/infrastructure/config"
	"github.com/nerrad567/gv2mqtt/internal/infrastructure/logging"
	"github.com/nerrad567/gv2mqtt/internal/registry"
)

func newListCmd() *cobra.Command {
	var skipLAN bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every reachable device, merging the Platform API and a LAN scan",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			reg := registry.NewRegistry()
			ctx := cmd.Context()
			logger := logging.Default()

			if cfg.Platform.APIKey != "" {
				store, err := openCacheStore(cfg)
				if err != nil {
					return fmt.Errorf("opening cache: %w", err)
				}
				defer store.Close()

				client := newPlatformClient(cfg, store)
				devices, err := client.ListDevices(ctx)
				if err != nil {
					return fmt.Errorf("listing platform devices: %w", err)
				}
				for _, info := range devices {
					d := reg.Upsert(info.SKU, info.Device)
					reg.SetGoveeName(d.ID, info.DeviceName)
					reg.SetPlatformInfo(d.ID, info)
				}
			}

			if !skipLAN {
				if err := scanLANInto(ctx, cfg.LAN, reg, logger); err != nil {
					return fmt.Errorf("LAN discovery: %w", err)
				}
			}

			devices := reg.ListDevices()
			sort.Slice(devices, func(i, j int) bool { return devices[i].Name() < devices[j].Name() })

			reachable := color.New(color.FgGreen)
			unreachable := color.New(color.FgRed)
			for _, d := range devices {
				line := fmt.Sprintf("%-7s %-24s %-15s %s", d.SKU, d.ID, d.IPAddr, d.Name())
				if d.IPAddr != "" {
					reachable.Println(line)
				} else {
					unreachable.Println(line)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipLAN, "skip-lan", false, "skip LAN discovery and list only Platform API devices")

	return cmd
}

// scanLANInto runs LAN discovery for cfg.DiscoTimeout seconds, merging
// every discovered device and its queried status into reg.
func scanLANInto(ctx context.Context, cfg config.LANConfig, reg *registry.Registry, logger lan.Logger) error {
	opts, err := buildLANOptions(cfg)
	if err != nil {
		return err
	}

	timeout := time.Duration(cfg.DiscoTimeout) * time.Second
	scanCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, found, err := lan.NewClient(scanCtx, opts, logger)
	if err != nil {
		return err
	}

	for {
		select {
		case <-scanCtx.Done():
			return nil
		case device, ok := <-found:
			if !ok {
				return nil
			}
			d := reg.Upsert(device.SKU, device.Device)
			reg.SetIPAddr(d.ID, device.IP)
			reg.SetLanDevice(d.ID, device)

			if status, err := client.QueryStatus(scanCtx, device); err == nil {
				reg.SetLanStatus(d.ID, status)
			}
		}
	}
}
