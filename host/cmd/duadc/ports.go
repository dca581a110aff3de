package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"duadc/host/serial"
)

func init() {
	rootCmd.AddCommand(portsCmd)
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports the board could be attached to",
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := serial.List()
		if err != nil {
			return err
		}
		if len(ports) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no serial ports found")
			return nil
		}
		for _, p := range ports {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}
