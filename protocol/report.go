package protocol

// Text fragments of the report stream. The firmware formatter emits these
// and the host monitor matches on them, so both sides share one definition.
const (
	// Banner is the greeting queued once during board setup.
	Banner = "Dual ADC 8 channels 0-7 DMA IRQ\r\n"

	// SeqHdrA and SeqHdrB introduce the two sequence register dumps that
	// follow the banner. SeqHdrB carries the terminator of the first dump
	// line so the two dumps always travel as a pair.
	SeqHdrA = "ADC1_SQR3 fields "
	SeqHdrB = "\r\nADC2_SQR3 fields "

	// PairSep separates the two halves of a sample pair. The field
	// renderer supplies the space before it.
	PairSep = "- "

	// LineEnd terminates every report line.
	LineEnd = "\r\n"
)

// PackWord packs a simultaneous sample pair into one capture word, first
// converter in the low half, second in the high half.
func PackWord(lo, hi uint16) uint32 {
	return uint32(hi)<<16 | uint32(lo)
}

// DecodeWord splits a capture word back into its converter halves.
func DecodeWord(w uint32) (lo, hi uint16) {
	return uint16(w & 0xFFFF), uint16(w >> 16)
}

// AppendPair renders one capture word as "lo - hi ". Halves are widened
// without sign extension, so raw converter values always print unsigned.
func AppendPair(dst []byte, w uint32) []byte {
	lo, hi := DecodeWord(w)
	dst = AppendInt(dst, int(lo))
	dst = append(dst, PairSep...)
	return AppendInt(dst, int(hi))
}

// AppendSeqFields renders the first n five-bit channel slots of a sequence
// register as decimal fields.
func AppendSeqFields(dst []byte, reg uint32, n int) []byte {
	for i := 0; i < n; i++ {
		dst = AppendInt(dst, int((reg>>(5*i))%32))
	}
	return dst
}
