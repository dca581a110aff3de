package sim

import (
	"errors"

	"duadc/core"
	"duadc/protocol"
)

// uncalibratedOffset skews readings from a unit whose self-calibration
// was skipped or misordered, standing in for the uncorrected internal
// error factors a real converter carries out of reset.
const uncalibratedOffset = 29

// converter is one simulated converter unit. Units are built in pairs;
// in regular-simultaneous mode the master drives scans for both and the
// slave ignores start commands.
type converter struct {
	s       *sim
	partner *converter
	master  bool

	cfg        core.ConverterConfig
	configured bool
	seq        []core.Channel

	powered     bool
	resetDone   bool
	calibrating bool
	calibrated  bool
	calTimer    timer

	scanning  bool
	scanStep  int
	scanTimer timer
	eoc       bool

	doubleStarts uint32
}

func (c *converter) Configure(cfg core.ConverterConfig) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if c.powered {
		return errors.New("configure while powered")
	}
	if cfg.Dual != core.DualOff && !c.master {
		return errors.New("dual mode is selected on the master unit")
	}
	c.cfg = cfg
	c.configured = true
	return nil
}

func (c *converter) SetSequence(seq []core.Channel) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if len(seq) == 0 || len(seq) > 16 {
		return errors.New("sequence length out of range")
	}
	for _, ch := range seq {
		if ch > core.MaxChannel {
			return errors.New("channel out of range")
		}
	}
	if c.scanning {
		return errors.New("sequence change during scan")
	}
	c.seq = append(c.seq[:0], seq...)
	return nil
}

// SequenceWord returns the register image of the first six sequence
// slots, five bits per slot from bit 0 up.
func (c *converter) SequenceWord() uint32 {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	var w uint32
	for i, ch := range c.seq {
		if i == 6 {
			break
		}
		w |= uint32(ch&0x1F) << (5 * i)
	}
	return w
}

// PowerOn enables the unit and absorbs the stabilization delay by
// advancing virtual time. Anything else scheduled inside the window
// runs on the way.
func (c *converter) PowerOn() {
	c.s.mu.Lock()
	if !c.powered {
		c.powered = true
		c.s.clk.advanceTo(c.s.clk.now + c.s.opts.SettleTicks)
	}
	evs := c.s.flush()
	c.s.mu.Unlock()
	c.s.irq.raiseAll(evs)
}

func (c *converter) PowerOff() {
	c.s.mu.Lock()
	c.powered = false
	c.calibrated = false
	c.resetDone = false
	c.scanning = false
	c.s.mu.Unlock()
}

func (c *converter) ResetCalibration() {
	c.s.mu.Lock()
	if c.powered {
		c.resetDone = true
		c.calibrated = false
	}
	c.s.mu.Unlock()
}

// Calibrate starts self-calibration. The run only takes if the
// calibration registers were reset first; a skipped reset leaves the
// unit reading with an offset.
func (c *converter) Calibrate() {
	c.s.mu.Lock()
	if !c.powered || c.calibrating {
		c.s.mu.Unlock()
		return
	}
	c.calibrating = true
	ok := c.resetDone
	c.resetDone = false
	c.calTimer.wake = c.s.clk.now + c.s.opts.CalTicks
	c.calTimer.action = func(*timer) uint8 {
		c.calibrating = false
		c.calibrated = ok
		return actionDone
	}
	c.s.clk.schedule(&c.calTimer)
	c.s.mu.Unlock()
}

func (c *converter) Calibrating() bool {
	c.s.mu.Lock()
	if c.calibrating {
		c.s.stepLocked()
	}
	v := c.calibrating
	evs := c.s.flush()
	c.s.mu.Unlock()
	c.s.irq.raiseAll(evs)
	return v
}

// StartRegular begins a scan of the configured sequence. On the slave
// of a dual pair it is ignored; the master paces both units.
func (c *converter) StartRegular() {
	c.s.mu.Lock()
	if !c.master || !c.configured || !c.powered || len(c.seq) == 0 {
		c.s.mu.Unlock()
		return
	}
	if c.scanning {
		c.doubleStarts++
		c.s.mu.Unlock()
		return
	}
	c.beginScan()
	evs := c.s.flush()
	c.s.mu.Unlock()
	c.s.irq.raiseAll(evs)
}

func (c *converter) beginScan() {
	c.scanning = true
	c.scanStep = 0
	if c.dual() {
		c.partner.scanning = true
	}
	c.s.xfer.beginScan()
	c.scanTimer.wake = c.s.clk.now + c.s.opts.SampleTicks
	c.scanTimer.action = c.scanAction
	c.s.clk.schedule(&c.scanTimer)
}

// scanAction fires once per sequence slot. Both units sample their
// slot's channel at the same instant; the pair of readings is offered
// to the transfer channel as one packed word.
func (c *converter) scanAction(t *timer) uint8 {
	i := c.scanStep
	lo := c.sample(c.seq[i])
	var hi uint16
	if c.dual() && i < len(c.partner.seq) {
		hi = c.partner.sample(c.partner.seq[i])
	}
	if c.cfg.DMA {
		c.s.xfer.push(protocol.PackWord(lo, hi))
	}
	c.scanStep++
	if c.scanStep < len(c.seq) {
		t.wake = c.s.clk.now + c.s.opts.SampleTicks
		return actionReschedule
	}
	c.eoc = true
	if c.dual() {
		c.partner.eoc = true
	}
	c.s.xfer.endScan()
	if c.cfg.EndOfScanIRQ {
		c.s.raise(core.EventConversionComplete)
	}
	if c.cfg.Continuous {
		c.scanStep = 0
		c.s.xfer.beginScan()
		t.wake = c.s.clk.now + c.s.opts.SampleTicks
		return actionReschedule
	}
	c.scanning = false
	if c.dual() {
		c.partner.scanning = false
	}
	return actionDone
}

func (c *converter) dual() bool {
	return c.partner != nil && c.cfg.Dual == core.DualRegularSimultaneous
}

// sample reads one channel at the current virtual time.
func (c *converter) sample(ch core.Channel) uint16 {
	var v uint16
	if src := c.s.sources[ch]; src != nil {
		v = src(c.s.clk.now)
	}
	v &= 0xFFF
	if !c.calibrated {
		v = (v + uncalibratedOffset) & 0xFFF
	}
	return v
}

func (c *converter) EndOfScan() bool {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return c.eoc
}

func (c *converter) ClearEndOfScan() {
	c.s.mu.Lock()
	c.eoc = false
	c.s.mu.Unlock()
}
