package protocol

const hexDigits = "0123456789ABCDEF"

// AppendInt renders v as ASCII decimal followed by a single space, the
// field form used throughout the report stream. Zero renders as "0 " and
// negative values carry a leading minus.
func AppendInt(dst []byte, v int) []byte {
	if v < 0 {
		dst = append(dst, '-')
		v = -v
	}
	if v == 0 {
		return append(dst, '0', ' ')
	}

	digits := 0
	for temp := v; temp > 0; temp /= 10 {
		digits++
	}

	// Build digits from right to left.
	start := len(dst)
	for i := 0; i < digits; i++ {
		dst = append(dst, 0)
	}
	for pos := start + digits - 1; v > 0; pos-- {
		dst[pos] = byte('0' + v%10)
		v /= 10
	}

	return append(dst, ' ')
}

// AppendHex16 renders v as four uppercase hex digits followed by a space.
func AppendHex16(dst []byte, v uint16) []byte {
	dst = append(dst,
		hexDigits[v>>12&0xF],
		hexDigits[v>>8&0xF],
		hexDigits[v>>4&0xF],
		hexDigits[v&0xF],
	)
	return append(dst, ' ')
}

// AppendRegister32 renders a 32-bit register as two hex fields, high half
// first, with one further space after the pair.
func AppendRegister32(dst []byte, reg uint32) []byte {
	dst = AppendHex16(dst, uint16(reg>>16))
	dst = AppendHex16(dst, uint16(reg))
	return append(dst, ' ')
}
