package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gv2mqtt",
		Short:         "Bridge Govee smart devices to Home Assistant over MQTT",
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newServeCmd(),
		newListCmd(),
		newListHTTPCmd(),
		newHTTPControlCmd(),
		newLANControlCmd(),
		newLANDiscoCmd(),
		newUndocCmd(),
	)

	return cmd
}
