// duadc drives and observes the dual-converter capture demo: it runs
// the firmware pipeline against a simulated board, and decodes the
// report stream of a real board over a serial port.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "duadc",
	Short: "duadc drives the dual converter capture demo",
	Long:  "duadc runs the capture pipeline on a simulated board and decodes the report stream of a real one.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "duadc.yaml", "configuration file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
