package sim

import "github.com/chewxy/math32"

// Source produces the analog level of one input channel at a virtual
// tick, as a right-aligned 12-bit value.
type Source func(tick uint64) uint16

// fullScale is the top of the 12-bit conversion range.
const fullScale = 4095

// Constant returns a source pinned at level v.
func Constant(v uint16) Source {
	v &= 0xFFF
	return func(uint64) uint16 { return v }
}

// Sine returns a source oscillating around offset with the given
// amplitude over period ticks.
func Sine(offset, amplitude uint16, period uint64) Source {
	if period == 0 {
		period = 1
	}
	return func(tick uint64) uint16 {
		phase := float32(tick%period) / float32(period)
		v := float32(offset) + float32(amplitude)*math32.Sin(2*math32.Pi*phase)
		return clampLevel(v)
	}
}

// Triangle returns a source ramping between offset-amplitude and
// offset+amplitude over period ticks, peaking at the half period.
func Triangle(offset, amplitude uint16, period uint64) Source {
	if period == 0 {
		period = 1
	}
	return func(tick uint64) uint16 {
		phase := float32(tick%period) / float32(period)
		v := float32(offset) + float32(amplitude)*(1-4*math32.Abs(phase-0.5))
		return clampLevel(v)
	}
}

func clampLevel(v float32) uint16 {
	if v < 0 {
		return 0
	}
	if v > fullScale {
		return fullScale
	}
	return uint16(v)
}
