package sim

import (
	"io"

	"duadc/core"
)

// Board is a complete simulated device. New wires two converter units
// into a dual pair and gives every peripheral the same virtual clock;
// HAL exposes the peripheral set a pipeline drives.
type Board struct {
	s      *sim
	master *converter
	slave  *converter
	xfer   *transferChan
	pacer  *paceTimer
	port   *serialDev
}

// Counters are simulation-side diagnostics, outside anything the
// device firmware could observe about itself.
type Counters struct {
	// RxOverruns counts inbound bytes lost with the receive register full.
	RxOverruns uint32
	// RefusedWords counts transfer pushes refused by an unarmed or
	// exhausted channel.
	RefusedWords uint32
	// Arms counts transfer arm operations.
	Arms uint32
	// DoubleStarts counts start commands issued mid-scan.
	DoubleStarts uint32
	// TxCollisions counts transmit loads while a byte was shifting.
	TxCollisions uint32
}

// New builds a board with the given characteristics. Zero fields of
// opts take defaults.
func New(opts Options) *Board {
	s := &sim{
		opts: opts.withDefaults(),
		irq:  &irqCtrl{},
	}
	b := &Board{
		s:      s,
		master: &converter{s: s, master: true},
		slave:  &converter{s: s},
		xfer:   &transferChan{s: s},
		pacer:  &paceTimer{s: s},
		port:   &serialDev{s: s},
	}
	b.master.partner = b.slave
	b.slave.partner = b.master
	s.xfer = b.xfer
	return b
}

// HAL returns the peripheral view a pipeline is built on.
func (b *Board) HAL() core.Board {
	return core.Board{
		Master:   b.master,
		Slave:    b.slave,
		Transfer: b.xfer,
		Pacer:    b.pacer,
		Port:     b.port,
		IRQ:      b.s.irq,
	}
}

// HostPort returns the far end of the serial line. Reads block until
// the device transmits or the board is closed; writes are paced onto
// the wire one frame time apart.
func (b *Board) HostPort() io.ReadWriter {
	return hostPort{b.port}
}

// Output drains whatever the device has transmitted so far without
// blocking.
func (b *Board) Output() []byte {
	return b.port.takeOutput()
}

// SetSource attaches a level source to an input channel. Both units
// see the same source for the same channel number.
func (b *Board) SetSource(ch core.Channel, src Source) {
	if ch > core.MaxChannel {
		return
	}
	b.s.mu.Lock()
	b.s.sources[ch] = src
	b.s.mu.Unlock()
}

// Advance runs the virtual clock forward by the given tick count. Each
// due action is dispatched and its events delivered at the instant they
// occur, so work a handler schedules inside the window runs inside the
// same call.
func (b *Board) Advance(ticks uint64) {
	b.s.mu.Lock()
	target := b.s.clk.now + ticks
	for {
		next := b.s.clk.head
		if next == nil || next.wake > target {
			b.s.clk.now = target
			b.s.mu.Unlock()
			return
		}
		b.s.clk.step()
		evs := b.s.flush()
		b.s.mu.Unlock()
		b.s.irq.raiseAll(evs)
		b.s.mu.Lock()
	}
}

// Now returns the current virtual time in ticks.
func (b *Board) Now() uint64 {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	return b.s.clk.now
}

// Counters returns a snapshot of the board's diagnostics.
func (b *Board) Counters() Counters {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	return Counters{
		RxOverruns:   b.port.rxOverruns,
		RefusedWords: b.xfer.refused,
		Arms:         b.xfer.arms,
		DoubleStarts: b.master.doubleStarts,
		TxCollisions: b.port.txCollisions,
	}
}

// Close releases host-side readers blocked on the serial line.
func (b *Board) Close() error {
	b.s.mu.Lock()
	b.port.closed = true
	b.port.wakeReaders()
	b.s.mu.Unlock()
	return nil
}
