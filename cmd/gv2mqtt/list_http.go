package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gv2mqtt/internal/infrastructure/config"
)

func newListHTTPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-http",
		Short: "List devices as reported by the Govee Platform REST API",
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
			devices, err := client.ListDevices(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing devices: %w", err)
			}

			for _, d := range devices {
				fmt.Printf("%-7s %s %s\n", d.SKU, d.Device, d.DeviceName)
			}
			return nil
		},
	}
}
