package sim

import (
	"errors"
	"io"

	"duadc/core"
)

// serialDev is the simulated serial line. The device side implements
// the port contract the pipeline drives; the host side is the
// io.ReadWriter returned by Board.HostPort. Bytes take a full frame
// time of virtual ticks to cross in either direction.
type serialDev struct {
	s *sim

	cfg       core.SerialConfig
	enabled   bool
	byteTicks uint64

	txIRQ        bool
	txBusy       bool
	txData       byte
	txDone       timer
	txCollisions uint32

	rxIRQ      bool
	rxReg      byte
	rxFull     bool
	rxNext     uint64
	rxOverruns uint32

	hostBuf []byte
	closed  bool
	readers chan struct{}
}

func (p *serialDev) Configure(cfg core.SerialConfig) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if cfg.Baud == 0 {
		return errors.New("baud rate not set")
	}
	if cfg.DataBits != 8 {
		return errors.New("unsupported data bits")
	}
	if cfg.StopBits != 1 && cfg.StopBits != 2 {
		return errors.New("unsupported stop bits")
	}
	bits := 1 + cfg.DataBits + cfg.StopBits
	if cfg.Parity != core.ParityNone {
		bits++
	}
	p.cfg = cfg
	p.byteTicks = uint64(bits) * uint64(p.s.opts.TickHz) / uint64(cfg.Baud)
	p.enabled = true
	return nil
}

// WriteByte loads the transmit register and starts shifting. Loading
// while a byte is still in flight overwrites it before it reaches the
// wire; the collision is counted.
func (p *serialDev) WriteByte(b byte) {
	p.s.mu.Lock()
	if !p.enabled {
		p.s.mu.Unlock()
		return
	}
	if p.txBusy {
		p.txCollisions++
		p.txData = b
		p.s.mu.Unlock()
		return
	}
	p.txBusy = true
	p.txData = b
	p.txDone.wake = p.s.clk.now + p.byteTicks
	p.txDone.action = p.txComplete
	p.s.clk.schedule(&p.txDone)
	p.s.mu.Unlock()
}

func (p *serialDev) txComplete(*timer) uint8 {
	p.hostBuf = append(p.hostBuf, p.txData)
	p.txBusy = false
	p.wakeReaders()
	if p.txIRQ {
		p.s.raise(core.EventTransmitReady)
	}
	return actionDone
}

// EnableTxInterrupt unmasks the transmit-ready condition. The condition
// is level triggered: enabling it while the shifter is idle raises the
// event immediately.
func (p *serialDev) EnableTxInterrupt() {
	p.s.mu.Lock()
	p.txIRQ = true
	raiseNow := p.enabled && !p.txBusy
	evs := p.s.flush()
	p.s.mu.Unlock()
	p.s.irq.raiseAll(evs)
	if raiseNow {
		p.s.irq.raise(core.EventTransmitReady)
	}
}

func (p *serialDev) DisableTxInterrupt() {
	p.s.mu.Lock()
	p.txIRQ = false
	p.s.mu.Unlock()
}

func (p *serialDev) EnableRxInterrupt() {
	p.s.mu.Lock()
	p.rxIRQ = true
	p.s.mu.Unlock()
}

// ReadByte takes the received byte and clears the full flag.
func (p *serialDev) ReadByte() byte {
	p.s.mu.Lock()
	b := p.rxReg
	p.rxFull = false
	p.s.mu.Unlock()
	return b
}

// rxArrive lands one host byte in the receive register. A byte landing
// on a still-full register is lost, as a hardware overrun would lose
// it.
func (p *serialDev) rxArrive(b byte) {
	if p.rxFull {
		p.rxOverruns++
		return
	}
	p.rxReg = b
	p.rxFull = true
	if p.rxIRQ {
		p.s.raise(core.EventByteReceived)
	}
}

// hostWrite injects bytes toward the device, one frame time apart.
func (p *serialDev) hostWrite(data []byte) (int, error) {
	p.s.mu.Lock()
	if p.closed {
		p.s.mu.Unlock()
		return 0, io.ErrClosedPipe
	}
	if !p.enabled {
		// Nothing is listening; the bytes fall on a dead line.
		p.s.mu.Unlock()
		return len(data), nil
	}
	if p.rxNext < p.s.clk.now {
		p.rxNext = p.s.clk.now
	}
	for _, b := range data {
		p.rxNext += p.byteTicks
		arrival := b
		p.s.clk.schedule(&timer{
			wake: p.rxNext,
			action: func(*timer) uint8 {
				p.rxArrive(arrival)
				return actionDone
			},
		})
	}
	p.s.mu.Unlock()
	return len(data), nil
}

// hostRead blocks until the device has shifted out at least one byte or
// the board is closed.
func (p *serialDev) hostRead(buf []byte) (int, error) {
	p.s.mu.Lock()
	for len(p.hostBuf) == 0 && !p.closed {
		ch := p.readers
		if ch == nil {
			ch = make(chan struct{})
			p.readers = ch
		}
		p.s.mu.Unlock()
		<-ch
		p.s.mu.Lock()
	}
	if len(p.hostBuf) == 0 {
		p.s.mu.Unlock()
		return 0, io.EOF
	}
	n := copy(buf, p.hostBuf)
	p.hostBuf = p.hostBuf[n:]
	p.s.mu.Unlock()
	return n, nil
}

// wakeReaders releases blocked hostRead calls. Called with the lock
// held.
func (p *serialDev) wakeReaders() {
	if p.readers != nil {
		close(p.readers)
		p.readers = nil
	}
}

// takeOutput drains the host-side buffer without blocking.
func (p *serialDev) takeOutput() []byte {
	p.s.mu.Lock()
	out := p.hostBuf
	p.hostBuf = nil
	p.s.mu.Unlock()
	return out
}

type hostPort struct{ p *serialDev }

func (h hostPort) Read(buf []byte) (int, error)   { return h.p.hostRead(buf) }
func (h hostPort) Write(data []byte) (int, error) { return h.p.hostWrite(data) }
