package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nerrad567/gv2mqtt/internal/govee/lan"
	"github.com/nerrad567/gv2mqtt/internal/infrastructure/logging"
)

func newLANDiscoCmd() *cobra.Command {
	var (
		noMulticast     bool
		broadcastAll    bool
		globalBroadcast bool
		scan            []string
		timeout         time.Duration
	)

	cmd := &cobra.Command{
		Use:   "lan-disco",
		Short: "Discover Govee devices on the local network and print their status",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := lan.Options{
				DisableMulticast: noMulticast,
				GlobalBroadcast:  globalBroadcast,
			}
			for _, s := range scan {
				ip := net.ParseIP(s)
				if ip == nil {
					return fmt.Errorf("invalid --scan address %q", s)
				}
				opts.AdditionalAddresses = append(opts.AdditionalAddresses, ip)
			}
			if broadcastAll {
				opts.AdditionalAddresses = append(opts.AdditionalAddresses, broadcastAddressesOfLocalInterfaces()...)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			logger := logging.Default()
			client, found, err := lan.NewClient(ctx, opts, logger)
			if err != nil {
				return fmt.Errorf("starting LAN discovery: %w", err)
			}

			for {
				select {
				case <-ctx.Done():
					return nil
				case device, ok := <-found:
					if !ok {
						return nil
					}
					fmt.Printf("%+v\n", device)
					status, err := client.QueryStatus(ctx, device)
					if err != nil {
						color.New(color.FgRed).Printf("  status: error: %v\n", err)
						continue
					}
					fmt.Printf("  status: %+v\n", status)
				}
			}
		},
	}

	cmd.Flags().BoolVar(&noMulticast, "no-multicast", false, "disable the default multicast discovery address")
	cmd.Flags().BoolVar(&broadcastAll, "broadcast-all", false, "broadcast to every local interface's broadcast address")
	cmd.Flags().BoolVar(&globalBroadcast, "global-broadcast", false, "also broadcast to 255.255.255.255")
	cmd.Flags().StringSliceVar(&scan, "scan", nil, "additional addresses or broadcast addresses to scan")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "how long to listen for discovery replies")

	return cmd
}
