package protocol

import "testing"

func TestDecodeWord(t *testing.T) {
	lo, hi := DecodeWord(0x00010002)
	if lo != 2 || hi != 1 {
		t.Errorf("DecodeWord(0x00010002): expected (2, 1), got (%d, %d)", lo, hi)
	}

	lo, hi = DecodeWord(0xFFFF0FFF)
	if lo != 0x0FFF || hi != 0xFFFF {
		t.Errorf("DecodeWord(0xFFFF0FFF): expected (0x0FFF, 0xFFFF), got (%#x, %#x)", lo, hi)
	}
}

func TestPackWord(t *testing.T) {
	cases := []struct {
		lo, hi uint16
	}{
		{0, 0},
		{2, 1},
		{0x0FFF, 0x0800},
		{0xFFFF, 0xFFFF},
	}
	for _, c := range cases {
		w := PackWord(c.lo, c.hi)
		lo, hi := DecodeWord(w)
		if lo != c.lo || hi != c.hi {
			t.Errorf("Pack/Decode(%d, %d) came back as (%d, %d)", c.lo, c.hi, lo, hi)
		}
	}
}

func TestAppendPair(t *testing.T) {
	got := string(AppendPair(nil, 0x00010002))
	if got != "2 - 1 " {
		t.Errorf("Expected %q, got %q", "2 - 1 ", got)
	}

	// High halves widen unsigned, never as negative numbers.
	got = string(AppendPair(nil, PackWord(0xFFFF, 0x8000)))
	if got != "65535 - 32768 " {
		t.Errorf("Expected %q, got %q", "65535 - 32768 ", got)
	}
}

func TestAppendPairLine(t *testing.T) {
	words := []uint32{0x00010002, 0x00030004, 0x00050006, 0x00070008}

	var line []byte
	for _, w := range words {
		line = AppendPair(line, w)
	}
	line = append(line, LineEnd...)

	want := "2 - 1 4 - 3 6 - 5 8 - 7 \r\n"
	if string(line) != want {
		t.Errorf("Expected %q, got %q", want, string(line))
	}
}

func TestAppendSeqFields(t *testing.T) {
	// Channels 0..3 packed into five-bit slots.
	var reg uint32
	for i := uint32(0); i < 4; i++ {
		reg |= i << (5 * i)
	}

	got := string(AppendSeqFields(nil, reg, 4))
	if got != "0 1 2 3 " {
		t.Errorf("Expected %q, got %q", "0 1 2 3 ", got)
	}

	// Channels 4..7 for the second converter.
	reg = 0
	for i := uint32(0); i < 4; i++ {
		reg |= (i + 4) << (5 * i)
	}
	got = string(AppendSeqFields(nil, reg, 4))
	if got != "4 5 6 7 " {
		t.Errorf("Expected %q, got %q", "4 5 6 7 ", got)
	}
}
