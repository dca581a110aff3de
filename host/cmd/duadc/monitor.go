package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"duadc/host/config"
	"duadc/host/monitor"
	"duadc/host/serial"
)

func init() {
	monitorCmd.Flags().UintVarP(&monOpts.NumReports, "num-reports", "n", 0, "exit after n report lines (0 = run until the stream ends)")
	monitorCmd.Flags().BoolVarP(&monOpts.Quiet, "quiet", "q", false, "suppress per-line output, print only the final counters")
	rootCmd.AddCommand(monitorCmd)
}

var (
	monitorCmd = &cobra.Command{
		Use:   "monitor",
		Short: "Decode the report stream of a connected board",
		Long:  "Open the configured serial port and decode banner, sequence dump and report lines as the board emits them.",
		RunE:  runMonitor,
	}
	monOpts = struct {
		NumReports uint
		Quiet      bool
	}{}
)

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	port, err := serial.Open(&serial.Config{
		Device: cfg.Serial.Device,
		Baud:   cfg.Serial.Baud,
	})
	if err != nil {
		return err
	}
	defer port.Close()

	mon := monitor.New(port)
	for n := uint(0); monOpts.NumReports == 0 || n < monOpts.NumReports; n++ {
		samples, err := mon.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if !monOpts.Quiet {
			printSamples(cmd.OutOrStdout(), int(n)+1, samples)
		}
	}

	st := mon.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "lines %d: %d banner, %d dump, %d report, %d other; %d samples\n",
		st.Lines, st.Banners, st.SeqDumps, st.Reports, st.Unknown, st.Samples)
	return nil
}

func printSamples(w io.Writer, pass int, samples []monitor.Sample) {
	fmt.Fprintf(w, "pass %4d:", pass)
	for _, s := range samples {
		fmt.Fprintf(w, "  %4d/%-4d", s.Low, s.High)
	}
	fmt.Fprintln(w)
}
