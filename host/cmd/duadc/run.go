package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/physic"

	"duadc/core"
	"duadc/host/config"
	"duadc/host/monitor"
	"duadc/host/periphspi"
	"duadc/protocol"
	"duadc/sim"
	"duadc/spiadc"
)

func init() {
	runCmd.Flags().IntVarP(&runOpts.Passes, "passes", "n", 0, "conversion passes to run (overrides the config)")
	runCmd.Flags().BoolVar(&runOpts.DumpRegs, "dump-regs", false, "print each pass's raw capture words in register form")
	runCmd.Flags().StringVar(&runOpts.SPIPort, "spi", "", "back channel 0 with an external converter on this SPI port")
	runCmd.Flags().BoolVar(&runOpts.Trace, "trace", false, "print firmware debug output and the event trace to stderr")
	rootCmd.AddCommand(runCmd)
}

var (
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the capture demo on a simulated board",
		Long:  "Build a simulated board from the configured channel sources, run the firmware pipeline on it, and decode what it transmits.",
		RunE:  runSim,
	}
	runOpts = struct {
		Passes   int
		DumpRegs bool
		SPIPort  string
		Trace    bool
	}{}
)

func runSim(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	passes := cfg.Run.Passes
	if runOpts.Passes > 0 {
		passes = runOpts.Passes
	}

	brd := sim.New(sim.Options{TickHz: cfg.Run.TickHz})
	defer brd.Close()
	for _, ch := range cfg.Channels {
		src, err := buildSource(ch)
		if err != nil {
			return err
		}
		brd.SetSource(core.Channel(ch.Channel), src)
	}

	if runOpts.SPIPort != "" {
		conn, err := periphspi.Open(runOpts.SPIPort, physic.MegaHertz)
		if err != nil {
			return fmt.Errorf("spi source: %w", err)
		}
		defer conn.Close()
		brd.SetSource(0, spiadc.New(conn, nil).Source(0))
	}

	if runOpts.Trace {
		core.SetDebugWriter(func(s string) { fmt.Fprintln(cmd.ErrOrStderr(), s) })
		core.SetDebugEnabled(true)
	}

	p, err := core.New(brd.HAL(), core.Config{})
	if err != nil {
		return err
	}
	if err := p.Setup(); err != nil {
		return err
	}

	// Decode the stream live from the far end of the serial line while
	// the pipeline runs.
	mon := monitor.New(brd.HostPort())
	done := make(chan error, 1)
	go func() {
		pass := 0
		for {
			samples, err := mon.Next()
			if err != nil {
				if err == io.EOF {
					done <- nil
				} else {
					done <- err
				}
				return
			}
			pass++
			printSamples(cmd.OutOrStdout(), pass, samples)
			if runOpts.DumpRegs {
				printRegisters(cmd.OutOrStdout(), samples)
			}
		}
	}()

	if err := p.Run(passes); err != nil {
		return err
	}
	brd.Advance(cfg.Run.DrainTicks)
	brd.Close()
	if err := <-done; err != nil {
		return err
	}

	if runOpts.Trace {
		core.DumpTrace()
	}
	printRunSummary(cmd.OutOrStdout(), p.Stats(), brd.Counters(), mon.Stats())
	return nil
}

func buildSource(ch config.ChannelConfig) (sim.Source, error) {
	switch ch.Waveform {
	case "", "constant":
		return sim.Constant(ch.Level), nil
	case "sine":
		return sim.Sine(ch.Level, ch.Amplitude, ch.Period), nil
	case "triangle":
		return sim.Triangle(ch.Level, ch.Amplitude, ch.Period), nil
	default:
		return nil, fmt.Errorf("channel %d: unknown waveform %q", ch.Channel, ch.Waveform)
	}
}

// printRegisters re-packs each pair and prints the capture words the
// way the firmware's register dump would.
func printRegisters(w io.Writer, samples []monitor.Sample) {
	buf := []byte("    ")
	for _, s := range samples {
		word := protocol.PackWord(uint16(s.Low), uint16(s.High))
		buf = protocol.AppendRegister32(buf, word)
	}
	buf = append(buf, '\n')
	w.Write(buf)
}

func printRunSummary(w io.Writer, ps core.Stats, bc sim.Counters, ms monitor.Stats) {
	fmt.Fprintf(w, "passes %d, reports %d, samples %d\n", ps.Passes, ms.Reports, ms.Samples)
	if ps.SendDrops > 0 || ps.RecvDrops > 0 || ps.Overruns > 0 {
		fmt.Fprintf(w, "firmware counters: send drops %d, recv drops %d, overruns %d\n",
			ps.SendDrops, ps.RecvDrops, ps.Overruns)
	}
	if bc.RxOverruns > 0 || bc.RefusedWords > 0 || bc.TxCollisions > 0 {
		fmt.Fprintf(w, "board counters: rx overruns %d, refused words %d, tx collisions %d\n",
			bc.RxOverruns, bc.RefusedWords, bc.TxCollisions)
	}
}
