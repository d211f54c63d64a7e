package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gv2mqtt/internal/infrastructure/config"
)

func newHTTPControlCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "http-control --id DEVICE_ID on|off|brightness PERCENT|temperature KELVIN|color RRGGBB",
		Short: "Send a single control command to a device through the Platform REST API",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cfg.Platform.APIKey == "" {
				return fmt.Errorf("GOVEE_API_KEY is not set")
			}

			store, err := openCacheStore(cfg)
			if err != nil {
				return fmt.Errorf("opening cache: %w", err)
			}
			defer store.Close()

			client := newPlatformClient(cfg, store)
			ctx := cmd.Context()

			device, err := client.GetDeviceByID(ctx, id)
			if err != nil {
				return fmt.Errorf("looking up device %s: %w", id, err)
			}

			var result any
			switch args[0] {
			case "on":
				result, err = client.SetPowerState(ctx, device, true)
			case "off":
				result, err = client.SetPowerState(ctx, device, false)
			case "brightness":
				if len(args) != 2 {
					return fmt.Errorf("brightness requires a PERCENT argument")
				}
				pct, perr := strconv.ParseUint(args[1], 10, 8)
				if perr != nil {
					return fmt.Errorf("invalid brightness percent %q: %w", args[1], perr)
				}
				result, err = client.SetBrightness(ctx, device, uint8(pct))
			case "temperature":
				if len(args) != 2 {
					return fmt.Errorf("temperature requires a KELVIN argument")
				}
				kelvin, perr := strconv.ParseUint(args[1], 10, 32)
				if perr != nil {
					return fmt.Errorf("invalid kelvin value %q: %w", args[1], perr)
				}
				result, err = client.SetColorTemperature(ctx, device, uint32(kelvin))
			case "color":
				if len(args) != 2 {
					return fmt.Errorf("color requires an RRGGBB argument")
				}
				r, g, b, perr := parseHexColor(args[1])
				if perr != nil {
					return perr
				}
				result, err = client.SetColorRGB(ctx, device, r, g, b)
			default:
				return fmt.Errorf("unknown command %q", args[0])
			}
			if err != nil {
				return fmt.Errorf("controlling device: %w", err)
			}

			fmt.Printf("%+v\n", result)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "device id to control")
	cmd.MarkFlagRequired("id")

	return cmd
}

func parseHexColor(s string) (r, g, b uint8, err error) {
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("color must be 6 hex digits (RRGGBB), got %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}
