package sim

import (
	"bytes"
	"io"
	"testing"

	"duadc/core"
	"duadc/protocol"
)

// buildRig wires a pipeline to a fresh board with channels 0-7 pinned
// at levels 1-8 and runs board setup.
func buildRig(t *testing.T) (*Board, *core.Pipeline) {
	t.Helper()
	brd := New(Options{})
	for ch := 0; ch < 8; ch++ {
		brd.SetSource(core.Channel(ch), Constant(uint16(ch+1)))
	}
	p, err := core.New(brd.HAL(), core.Config{})
	if err != nil {
		t.Fatalf("New pipeline: %v", err)
	}
	if err := p.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	return brd, p
}

// drainTicks comfortably covers a pending scan plus a full serial drain
// of everything the demo queues.
const drainTicks = 2_000_000

func TestEndToEndStream(t *testing.T) {
	brd, p := buildRig(t)
	if err := p.Run(2); err != nil {
		t.Fatalf("Run: %v", err)
	}
	brd.Advance(drainTicks)

	line := "1 - 5 2 - 6 3 - 7 4 - 8 \r\n"
	want := protocol.Banner +
		"ADC1_SQR3 fields 0 1 2 3 \r\nADC2_SQR3 fields 4 5 6 7 \r\n" +
		line + line
	got := string(brd.Output())
	if got != want {
		t.Errorf("Expected output %q, got %q", want, got)
	}

	st := p.Stats()
	if st.Passes != 2 {
		t.Errorf("Expected 2 passes, got %d", st.Passes)
	}
	if st.Overruns != 0 || st.SlaveSkew != 0 || st.SendDrops != 0 {
		t.Errorf("Expected clean counters, got %+v", st)
	}
	c := brd.Counters()
	if c.RefusedWords != 0 || c.TxCollisions != 0 {
		t.Errorf("Expected clean board counters, got %+v", c)
	}
}

func TestBannerHeldWithoutPass(t *testing.T) {
	brd, _ := buildRig(t)
	brd.Advance(drainTicks)
	if out := brd.Output(); len(out) != 0 {
		t.Errorf("Expected no output before the first pass, got %q", out)
	}
}

func TestReceiveReachesPipeline(t *testing.T) {
	brd, p := buildRig(t)
	if _, err := brd.HostPort().Write([]byte("ok")); err != nil {
		t.Fatalf("host write: %v", err)
	}
	brd.Advance(50_000)

	buf := make([]byte, 8)
	n := p.Drain(buf)
	if string(buf[:n]) != "ok" {
		t.Errorf("Expected drained %q, got %q", "ok", buf[:n])
	}
	if c := brd.Counters(); c.RxOverruns != 0 {
		t.Errorf("Expected no receive overruns, got %d", c.RxOverruns)
	}
}

func TestReceiveOverrunWithoutConsumer(t *testing.T) {
	brd := New(Options{})
	hal := brd.HAL()
	cfg := core.SerialConfig{Baud: 38400, DataBits: 8, StopBits: 1}
	if err := hal.Port.Configure(cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	// No receive interrupt and nobody reading: only the first byte can
	// land in the register.
	if _, err := brd.HostPort().Write([]byte("abc")); err != nil {
		t.Fatalf("host write: %v", err)
	}
	brd.Advance(50_000)

	if c := brd.Counters(); c.RxOverruns != 2 {
		t.Errorf("Expected 2 receive overruns, got %d", c.RxOverruns)
	}
	if b := hal.Port.ReadByte(); b != 'a' {
		t.Errorf("Expected register to hold 'a', got %q", b)
	}
}

// calibrateUnit runs the proper bring-up order on one unit.
func calibrateUnit(t *testing.T, u core.AnalogConverter) {
	t.Helper()
	u.PowerOn()
	u.ResetCalibration()
	u.Calibrate()
	for u.Calibrating() {
	}
}

func TestTransferRefusesWhenExhausted(t *testing.T) {
	brd := New(Options{})
	brd.SetSource(0, Constant(10))
	hal := brd.HAL()

	cfg := core.ConverterConfig{
		Scan:       true,
		Trigger:    core.TriggerSoftware,
		Align:      core.AlignRight,
		SampleTime: core.SampleTime28C5,
		DMA:        true,
	}
	if err := hal.Master.Configure(cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := hal.Master.SetSequence([]core.Channel{0, 0, 0, 0}); err != nil {
		t.Fatalf("SetSequence: %v", err)
	}
	calibrateUnit(t, hal.Master)

	store := make([]uint32, 4)
	if err := hal.Transfer.Arm(store, 2); err != nil {
		t.Fatalf("Arm: %v", err)
	}
	hal.Master.StartRegular()
	brd.Advance(1_000)

	if hal.Transfer.Complete() {
		t.Error("Expected short burst to leave the transfer incomplete")
	}
	if c := brd.Counters(); c.RefusedWords != 2 {
		t.Errorf("Expected 2 refused words, got %d", c.RefusedWords)
	}

	// A full re-arm makes the next scan land whole.
	if err := hal.Transfer.Arm(store, 4); err != nil {
		t.Fatalf("re-arm: %v", err)
	}
	hal.Master.StartRegular()
	brd.Advance(1_000)
	if !hal.Transfer.Complete() {
		t.Error("Expected full burst to complete after re-arm")
	}
}

func TestCalibrationOrderAffectsReadings(t *testing.T) {
	brd := New(Options{})
	brd.SetSource(0, Constant(100))
	hal := brd.HAL()

	cfg := core.ConverterConfig{
		Scan:       true,
		Trigger:    core.TriggerSoftware,
		Align:      core.AlignRight,
		SampleTime: core.SampleTime28C5,
		DMA:        true,
	}
	if err := hal.Master.Configure(cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := hal.Master.SetSequence([]core.Channel{0}); err != nil {
		t.Fatalf("SetSequence: %v", err)
	}

	// Calibrate without resetting the calibration registers first; the
	// run does not take and readings keep their raw offset.
	hal.Master.PowerOn()
	hal.Master.Calibrate()
	for hal.Master.Calibrating() {
	}

	store := make([]uint32, 1)
	if err := hal.Transfer.Arm(store, 1); err != nil {
		t.Fatalf("Arm: %v", err)
	}
	hal.Master.StartRegular()
	brd.Advance(1_000)
	lo, _ := protocol.DecodeWord(store[0])
	if lo == 100 {
		t.Error("Expected skipped reset to skew the reading")
	}

	// A clean power cycle with the full sequence reads exactly.
	hal.Master.PowerOff()
	if err := hal.Master.Configure(cfg); err != nil {
		t.Fatalf("reconfigure: %v", err)
	}
	calibrateUnit(t, hal.Master)
	if err := hal.Transfer.Arm(store, 1); err != nil {
		t.Fatalf("re-arm: %v", err)
	}
	hal.Master.StartRegular()
	brd.Advance(1_000)
	lo, _ = protocol.DecodeWord(store[0])
	if lo != 100 {
		t.Errorf("Expected calibrated reading 100, got %d", lo)
	}
}

func TestHostPortDelivers(t *testing.T) {
	brd, p := buildRig(t)
	if err := p.Run(1); err != nil {
		t.Fatalf("Run: %v", err)
	}
	brd.Advance(drainTicks)

	buf := make([]byte, 16)
	n, err := brd.HostPort().Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.HasPrefix([]byte(protocol.Banner), buf[:n]) {
		t.Errorf("Expected a banner prefix, got %q", buf[:n])
	}
}

func TestCloseUnblocksHostRead(t *testing.T) {
	brd := New(Options{})
	done := make(chan error, 1)
	go func() {
		buf := make([]byte, 1)
		_, err := brd.HostPort().Read(buf)
		done <- err
	}()
	if err := brd.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := <-done; err != io.EOF {
		t.Errorf("Expected EOF after close, got %v", err)
	}
}
