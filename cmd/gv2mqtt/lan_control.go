package main

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gv2mqtt/internal/govee/lan"
	"github.com/nerrad567/gv2mqtt/internal/infrastructure/logging"
)

func newLANControlCmd() *cobra.Command {
	var ip string

	cmd := &cobra.Command{
		Use:   "lan-control on|off",
		Short: "Send a single power command to a device by IP address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := net.ParseIP(ip)
			if addr == nil {
				return fmt.Errorf("invalid --ip %q", ip)
			}

			var on bool
			switch args[0] {
			case "on":
				on = true
			case "off":
				on = false
			default:
				return fmt.Errorf("unknown command %q: expected on or off", args[0])
			}

			ctx := cmd.Context()
			client, _, err := lan.NewClient(ctx, lan.Options{}, logging.Default())
			if err != nil {
				return fmt.Errorf("starting LAN client: %w", err)
			}

			device, err := client.ScanIP(ctx, addr)
			if err != nil {
				return fmt.Errorf("scanning %s: %w", addr, err)
			}

			if err := lan.SendTurn(device, on); err != nil {
				return fmt.Errorf("sending turn command: %w", err)
			}

			fmt.Printf("%s: turned %s\n", addr, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&ip, "ip", "", "IP address of the device to control")
	cmd.MarkFlagRequired("ip")

	return cmd
}
