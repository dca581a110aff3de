package spiadc

import (
	"bytes"
	"errors"
	"testing"
)

// scriptSPI records outgoing frames and plays back canned replies.
type scriptSPI struct {
	sent    [][]byte
	replies [][]byte
	err     error
}

func (s *scriptSPI) Tx(w, r []byte) error {
	s.sent = append(s.sent, append([]byte(nil), w...))
	if s.err != nil {
		return s.err
	}
	if len(s.replies) > 0 {
		copy(r, s.replies[0])
		s.replies = s.replies[1:]
	}
	return nil
}

func (s *scriptSPI) Transfer(b byte) (byte, error) {
	return 0, s.err
}

type pinRecorder struct {
	log []bool
}

func (p *pinRecorder) Set(active bool) {
	p.log = append(p.log, active)
}

func TestReadCommandFraming(t *testing.T) {
	bus := &scriptSPI{replies: [][]byte{{0, 0x02, 0x9A}, {0, 0x03, 0xFF}}}
	dev := New(bus, nil)

	v, err := dev.Read(0)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if v != 0x29A {
		t.Errorf("Expected 0x29A, got %#x", v)
	}
	if v, _ := dev.Read(7); v != 0x3FF {
		t.Errorf("Expected full scale, got %#x", v)
	}

	want := [][]byte{{0x01, 0x80, 0x00}, {0x01, 0xF0, 0x00}}
	for i, frame := range want {
		if !bytes.Equal(bus.sent[i], frame) {
			t.Errorf("Expected frame %d %#v, got %#v", i, frame, bus.sent[i])
		}
	}
}

func TestReadMasksReplyNoise(t *testing.T) {
	// Bits above the 10-bit result float; the decode must ignore them.
	bus := &scriptSPI{replies: [][]byte{{0xFF, 0xFE, 0x01}}}
	dev := New(bus, nil)
	v, err := dev.Read(3)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if v != 0x201 {
		t.Errorf("Expected 0x201, got %#x", v)
	}
}

func TestDifferentialCommand(t *testing.T) {
	bus := &scriptSPI{}
	dev := New(bus, nil)
	if _, err := dev.ReadDifferential(2); err != nil {
		t.Fatalf("ReadDifferential: %v", err)
	}
	if !bytes.Equal(bus.sent[0], []byte{0x01, 0x20, 0x00}) {
		t.Errorf("Expected differential frame, got %#v", bus.sent[0])
	}
}

func TestChannelRange(t *testing.T) {
	dev := New(&scriptSPI{}, nil)
	if _, err := dev.Read(-1); err != ErrChannel {
		t.Errorf("Expected ErrChannel, got %v", err)
	}
	if _, err := dev.Read(Channels); err != ErrChannel {
		t.Errorf("Expected ErrChannel, got %v", err)
	}
}

func TestChipSelectBracketsTransfer(t *testing.T) {
	pin := &pinRecorder{}
	bus := &scriptSPI{err: errors.New("bus fault")}
	dev := New(bus, pin)
	if _, err := dev.Read(0); err == nil {
		t.Fatal("Expected bus error to propagate")
	}
	// Chip select must release even when the transfer fails.
	if len(pin.log) != 2 || pin.log[0] != true || pin.log[1] != false {
		t.Errorf("Expected assert/release, got %v", pin.log)
	}
}

func TestSourceHoldsLastGood(t *testing.T) {
	bus := &scriptSPI{replies: [][]byte{{0, 0x01, 0x00}}}
	dev := New(bus, nil)
	src := dev.Source(0)

	if v := src(0); v != 0x100<<2 {
		t.Errorf("Expected widened reading, got %#x", v)
	}
	bus.err = errors.New("bus fault")
	if v := src(1); v != 0x100<<2 {
		t.Errorf("Expected stale level on bus fault, got %#x", v)
	}
}
