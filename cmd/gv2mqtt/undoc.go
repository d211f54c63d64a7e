package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gv2mqtt/internal/govee/iot"
	"github.com/nerrad567/gv2mqtt/internal/infrastructure/config"
)

// noopStateSink discards IoT status updates, for CLI subcommands that
// only need to activate a one-click shortcut and don't track device state.
type noopStateSink struct{}

func (noopStateSink) MergeIotStatus(string, string, iot.StatusUpdate) {}
func (noopStateSink) NotifyStateChange(string)                       {}

func newUndocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undoc",
		Short: "Inspect and trigger saved Govee one-click shortcuts via the undocumented app API",
	}

	cmd.AddCommand(newUndocDumpOneClickCmd(), newUndocShowOneClickCmd(), newUndocOneClickCmd())
	return cmd
}

func loadUndocConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.Undoc.Email == "" || cfg.Undoc.Password == "" {
		return nil, fmt.Errorf("GOVEE_EMAIL and GOVEE_PASSWORD must be set")
	}
	return cfg, nil
}

func newUndocDumpOneClickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump-one-click",
		Short: "Print the raw saved one-click shortcuts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadUndocConfig()
			if err != nil {
				return err
			}
			store, err := openCacheStore(cfg)
			if err != nil {
				return fmt.Errorf("opening cache: %w", err)
			}
			defer store.Close()

			client := newUndocClient(cfg, store)
			ctx := cmd.Context()

			token, err := client.LoginCommunity(ctx)
			if err != nil {
				return fmt.Errorf("logging into community API: %w", err)
			}
			shortcuts, err := client.GetSavedOneClickShortcuts(ctx, token)
			if err != nil {
				return fmt.Errorf("fetching one-click shortcuts: %w", err)
			}

			fmt.Printf("%+v\n", shortcuts)
			return nil
		},
	}
}

func newUndocShowOneClickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-one-click",
		Short: "List saved one-click shortcuts, reduced to their replayable IoT messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadUndocConfig()
			if err != nil {
				return err
			}
			store, err := openCacheStore(cfg)
			if err != nil {
				return fmt.Errorf("opening cache: %w", err)
			}
			defer store.Close()

			client := newUndocClient(cfg, store)
			items, err := fetchParsedOneClicks(cmd.Context(), client)
			if err != nil {
				return err
			}

			for _, item := range items {
				fmt.Printf("%s: %d entries\n", item.Name, len(item.Entries))
			}
			return nil
		},
	}
}

func newUndocOneClickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "one-click NAME",
		Short: "Activate a saved one-click shortcut by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			cfg, err := loadUndocConfig()
			if err != nil {
				return err
			}
			store, err := openCacheStore(cfg)
			if err != nil {
				return fmt.Errorf("opening cache: %w", err)
			}
			defer store.Close()

			client := newUndocClient(cfg, store)
			ctx := cmd.Context()

			items, err := fetchParsedOneClicks(ctx, client)
			if err != nil {
				return err
			}

			var target *iot.ParsedOneClick
			for i := range items {
				if items[i].Name == name {
					target = &items[i]
					break
				}
			}
			if target == nil {
				return fmt.Errorf("no saved one-click shortcut named %q", name)
			}

			iotClient, err := connectIoT(ctx, cfg, client, noopStateSink{})
			if err != nil {
				return err
			}
			defer iotClient.Close()

			if err := iotClient.ActivateOneClick(*target); err != nil {
				return fmt.Errorf("activating one-click %q: %w", name, err)
			}

			fmt.Printf("activated %q\n", name)
			return nil
		},
	}
}
