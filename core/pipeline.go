package core

import (
	"errors"

	"duadc/protocol"
)

// Config fixes the pipeline's dimensions at construction time. Zero
// fields take the demo defaults below; nothing is reconfigurable after
// New.
type Config struct {
	// Conversions is the total channel count across both units. It must
	// be even; each unit scans half in its own sequence.
	Conversions int

	// StoreWords is the burst size armed on the transfer engine. Only
	// the first Conversions/2 words carry data per pass.
	StoreWords int

	// TicksPerStart is how many compare-match events separate
	// consecutive conversion starts.
	TicksPerStart int

	// SendBuf and RecvBuf are the ring capacities in bytes.
	SendBuf int
	RecvBuf int

	Timer  TimerConfig
	Serial SerialConfig

	// WaitBudget bounds every busy-wait to that many polls. Zero keeps
	// the firmware behavior of spinning until the flag asserts, however
	// long that takes.
	WaitBudget int
}

func (c Config) withDefaults() Config {
	if c.Conversions == 0 {
		c.Conversions = 8
	}
	if c.StoreWords == 0 {
		c.StoreWords = 64
	}
	if c.TicksPerStart == 0 {
		c.TicksPerStart = 500
	}
	if c.SendBuf == 0 {
		c.SendBuf = 128
	}
	if c.RecvBuf == 0 {
		c.RecvBuf = 128
	}
	if c.Timer == (TimerConfig{}) {
		c.Timer = TimerConfig{Period: 0xFFFF, Compare: 0x8FFF}
	}
	if c.Serial == (SerialConfig{}) {
		c.Serial = SerialConfig{Baud: 38400, DataBits: 8, StopBits: 1, Parity: ParityNone}
	}
	return c
}

// Stats are cumulative pipeline counters. Drop counters are load
// shedding at work, not failures.
type Stats struct {
	Passes      uint32 // conversion passes formatted
	SendDrops   uint32 // outbound bytes lost to ring overflow
	RecvDrops   uint32 // inbound bytes lost to ring overflow
	Overruns    uint32 // completion events before the burst finished
	SlaveSkew   uint32 // master finished while the slave scan still ran
	RearmErrors uint32 // transfer re-arm calls that failed
}

// Pipeline drives the conversion demo end to end: one-time board setup,
// the pacing loop issuing start commands, and the event handlers that
// format completed bursts and move serial bytes through the rings.
type Pipeline struct {
	board Board
	cfg   Config

	// store receives one transfer burst per pass. Written only by the
	// transfer engine, read only by the formatter after a completion
	// event; the re-arm-after-consume protocol keeps the two apart.
	store []uint32

	send *protocol.Ring
	recv *protocol.Ring

	guard irqGuard

	ready bool
	line  []byte

	stats Stats
}

// New wires a pipeline to its board and registers it as the board's
// event consumer. The board stays quiet until Setup enables its lines.
func New(board Board, cfg Config) (*Pipeline, error) {
	if err := board.check(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	if cfg.Conversions < 2 || cfg.Conversions%2 != 0 {
		return nil, errors.New("conversion count must be even and positive")
	}
	if Channel(cfg.Conversions-1) > MaxChannel {
		return nil, errors.New("conversion count exceeds channel range")
	}
	if cfg.StoreWords < cfg.Conversions/2 {
		return nil, errors.New("sample store smaller than one pass")
	}
	if cfg.TicksPerStart < 1 {
		return nil, errors.New("ticks per start must be positive")
	}

	p := &Pipeline{
		board: board,
		cfg:   cfg,
		store: make([]uint32, cfg.StoreWords),
		send:  protocol.NewRing(cfg.SendBuf),
		recv:  protocol.NewRing(cfg.RecvBuf),
		line:  make([]byte, 0, 16*cfg.Conversions/2+len(protocol.LineEnd)),
	}
	board.IRQ.SetHandler(p.handleEvent)
	return p, nil
}

// Setup performs the one-time board bring-up in dependency order and
// queues the banner and sequence register dumps. Call it once before
// StartPass or Run.
func (p *Pipeline) Setup() error {
	if p.ready {
		return errors.New("setup already done")
	}

	if err := p.board.Port.Configure(p.cfg.Serial); err != nil {
		return err
	}
	p.board.IRQ.EnableLine(LineSerial)
	p.board.Port.EnableRxInterrupt()

	// Arm the transfer channel over the zeroed store before the
	// converters can raise their first request.
	if err := p.board.Transfer.Arm(p.store, p.cfg.StoreWords); err != nil {
		return err
	}

	if err := p.setupConverters(); err != nil {
		return err
	}
	DebugPrintln("[Setup] Converter pair calibrated")

	if err := p.board.Pacer.Configure(p.cfg.Timer); err != nil {
		return err
	}
	p.board.Pacer.Start()
	DebugPrintln("[Setup] Pace timer running")

	st := p.guard.lock()
	p.send.Reset()
	p.recv.Reset()
	p.guard.unlock(st)

	// Enabling transmit notifications on an empty ring delivers one
	// transmit-ready event whose handler immediately disables them
	// again. Everything queued from here on therefore sits in the ring
	// until the first conversion pass re-enables transmit.
	p.board.Port.EnableTxInterrupt()

	p.queueString(protocol.Banner)

	if err := p.setupSequences(); err != nil {
		return err
	}
	p.queueSequenceDump()

	p.ready = true
	return nil
}

func (p *Pipeline) setupConverters() error {
	master := ConverterConfig{
		Scan:         true,
		Trigger:      TriggerSoftware,
		Align:        AlignRight,
		SampleTime:   SampleTime28C5,
		DMA:          true,
		EndOfScanIRQ: true,
		Dual:         DualRegularSimultaneous,
	}
	slave := ConverterConfig{
		Scan:       true,
		Trigger:    TriggerSoftware,
		Align:      AlignRight,
		SampleTime: SampleTime28C5,
	}
	if err := p.board.Master.Configure(master); err != nil {
		return err
	}
	if err := p.board.Slave.Configure(slave); err != nil {
		return err
	}
	p.board.IRQ.EnableLine(LineConversion)

	// Master first, then slave. Each unit must settle after power-on
	// before calibration means anything; PowerOn owns the settle delay
	// and the calibration itself is awaited by flag.
	if err := p.calibrate(p.board.Master); err != nil {
		return err
	}
	return p.calibrate(p.board.Slave)
}

func (p *Pipeline) calibrate(u AnalogConverter) error {
	u.PowerOn()
	u.ResetCalibration()
	u.Calibrate()
	return waitFor(func() bool { return !u.Calibrating() }, p.cfg.WaitBudget)
}

func (p *Pipeline) setupSequences() error {
	half := p.cfg.Conversions / 2
	seq := make([]Channel, half)
	for i := range seq {
		seq[i] = Channel(i)
	}
	if err := p.board.Master.SetSequence(seq); err != nil {
		return err
	}
	for i := range seq {
		seq[i] = Channel(half + i)
	}
	return p.board.Slave.SetSequence(seq)
}

func (p *Pipeline) queueSequenceDump() {
	half := p.cfg.Conversions / 2
	var buf []byte
	buf = append(buf, protocol.SeqHdrA...)
	buf = protocol.AppendSeqFields(buf, p.board.Master.SequenceWord(), half)
	buf = append(buf, protocol.SeqHdrB...)
	buf = protocol.AppendSeqFields(buf, p.board.Slave.SequenceWord(), half)
	buf = append(buf, protocol.LineEnd...)
	p.queueBytes(buf)
}

func (p *Pipeline) queueString(s string) {
	st := p.guard.lock()
	for i := 0; i < len(s); i++ {
		p.send.Put(s[i])
	}
	p.guard.unlock(st)
}

func (p *Pipeline) queueBytes(b []byte) {
	st := p.guard.lock()
	p.send.Write(b)
	p.guard.unlock(st)
}

// StartPass waits out one pacing interval and issues a single start
// command to the master unit, which starts both units in lockstep. The
// wait is a poll-and-clear busy loop counting compare-match events.
func (p *Pipeline) StartPass() error {
	if !p.ready {
		return errors.New("setup not done")
	}
	for i := 0; i < p.cfg.TicksPerStart; i++ {
		if err := waitFor(p.board.Pacer.CompareMatch, p.cfg.WaitBudget); err != nil {
			return err
		}
		p.board.Pacer.ClearCompareMatch()
	}
	trace(TracePassStart, p.stats.Passes)
	p.board.Master.StartRegular()
	return nil
}

// Run repeats StartPass. A positive count runs that many conversion
// passes and returns; zero or less runs forever, the firmware main loop.
func (p *Pipeline) Run(passes int) error {
	for i := 0; passes <= 0 || i < passes; i++ {
		if err := p.StartPass(); err != nil {
			return err
		}
	}
	return nil
}

// Drain moves buffered inbound bytes into dst and returns how many were
// copied. The pipeline itself never interprets inbound traffic; this is
// the hook a future command layer would consume from.
func (p *Pipeline) Drain(dst []byte) int {
	st := p.guard.lock()
	defer p.guard.unlock(st)
	n := 0
	for n < len(dst) {
		b, ok := p.recv.Get()
		if !ok {
			break
		}
		dst[n] = b
		n++
	}
	return n
}

// Stats returns a snapshot of the cumulative counters.
func (p *Pipeline) Stats() Stats {
	st := p.guard.lock()
	defer p.guard.unlock(st)
	s := p.stats
	s.SendDrops = p.send.Drops()
	s.RecvDrops = p.recv.Drops()
	return s
}

// handleEvent is the single event consumer registered with the interrupt
// controller. Each invocation runs to completion; the controller pends
// events raised while it runs.
func (p *Pipeline) handleEvent(ev Event) {
	switch ev {
	case EventConversionComplete:
		p.conversionComplete()
	case EventByteReceived:
		p.byteReceived()
	case EventTransmitReady:
		p.transmitReady()
	}
}

// conversionComplete formats the finished burst and re-arms the transfer
// channel. Only the master's end-of-scan condition gates processing; the
// slave samples in lockstep and its flag is counted, never awaited.
func (p *Pipeline) conversionComplete() {
	if !p.board.Master.EndOfScan() {
		return
	}
	p.board.Master.ClearEndOfScan()

	if p.board.Slave.EndOfScan() {
		p.board.Slave.ClearEndOfScan()
	} else {
		st := p.guard.lock()
		p.stats.SlaveSkew++
		p.guard.unlock(st)
	}

	if !p.board.Transfer.Complete() {
		// The burst has not fully landed; reading the store now would
		// race the transfer engine.
		st := p.guard.lock()
		p.stats.Overruns++
		n := p.stats.Overruns
		p.guard.unlock(st)
		trace(TraceOverrun, n)
		return
	}

	p.line = p.line[:0]
	for i := 0; i < p.cfg.Conversions/2; i++ {
		p.line = protocol.AppendPair(p.line, p.store[i])
	}
	p.line = append(p.line, protocol.LineEnd...)

	st := p.guard.lock()
	p.send.Write(p.line)
	p.stats.Passes++
	n := p.stats.Passes
	p.guard.unlock(st)

	// Re-arm before returning so the next start finds the channel reset
	// to the top of the store.
	if err := p.board.Transfer.Arm(p.store, p.cfg.StoreWords); err != nil {
		st := p.guard.lock()
		p.stats.RearmErrors++
		p.guard.unlock(st)
	}

	p.board.Port.EnableTxInterrupt()
	trace(TraceScanDone, n)
}

func (p *Pipeline) byteReceived() {
	b := p.board.Port.ReadByte()
	st := p.guard.lock()
	p.recv.Put(b)
	p.guard.unlock(st)
	trace(TraceRxByte, uint32(b))
}

func (p *Pipeline) transmitReady() {
	st := p.guard.lock()
	b, ok := p.send.Get()
	p.guard.unlock(st)
	if !ok {
		p.board.Port.DisableTxInterrupt()
		trace(TraceTxIdle, 0)
		return
	}
	p.board.Port.WriteByte(b)
}
