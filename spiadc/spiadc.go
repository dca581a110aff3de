// Package spiadc reads a Microchip MCP3008-class converter over SPI.
// It gives the board an auxiliary analog input path that is independent
// of the dual on-chip converter pair: a host can sample real levels
// through any drivers.SPI transport and feed them into the simulated
// board as a channel source.
package spiadc

import (
	"errors"

	"tinygo.org/x/drivers"
)

// Channels is the input count of the supported parts.
const Channels = 8

// ErrChannel reports a channel number outside the converter's inputs.
var ErrChannel = errors.New("spiadc: channel out of range")

// ChipSelect drives the converter's chip-select line around each
// transfer. Transports whose controller asserts chip select in
// hardware leave it nil.
type ChipSelect interface {
	Set(active bool)
}

// Device is one converter on a SPI bus. Methods are not safe for
// concurrent use; callers sharing a device serialize access.
type Device struct {
	bus drivers.SPI
	cs  ChipSelect
	tx  [3]byte
	rx  [3]byte
}

// New returns a device on the given bus. The bus must already be
// configured for mode 0 at a rate the part accepts.
func New(bus drivers.SPI, cs ChipSelect) *Device {
	return &Device{bus: bus, cs: cs}
}

// Read converts one single-ended channel and returns its 10-bit value.
func (d *Device) Read(ch int) (uint16, error) {
	return d.convert(ch, 0x08)
}

// ReadDifferential converts the pair selected by ch with IN+ on the
// even input.
func (d *Device) ReadDifferential(ch int) (uint16, error) {
	return d.convert(ch, 0x00)
}

// convert clocks the three-byte exchange: a start bit, then the
// single-ended flag and channel in the top nibble of the second byte,
// then clocks for the result. The reply carries the value in the low
// ten bits of the last two bytes.
func (d *Device) convert(ch int, sgl byte) (uint16, error) {
	if ch < 0 || ch >= Channels {
		return 0, ErrChannel
	}
	d.tx[0] = 0x01
	d.tx[1] = (sgl | byte(ch)) << 4
	d.tx[2] = 0x00

	if d.cs != nil {
		d.cs.Set(true)
	}
	err := d.bus.Tx(d.tx[:], d.rx[:])
	if d.cs != nil {
		d.cs.Set(false)
	}
	if err != nil {
		return 0, err
	}
	return uint16(d.rx[1]&0x03)<<8 | uint16(d.rx[2]), nil
}

// Source adapts one channel into a level source for a simulated board,
// widening the 10-bit reading to the 12-bit capture range. A failed
// read repeats the last good level, so a flaky bus degrades to a stale
// value instead of a glitch to zero.
func (d *Device) Source(ch int) func(uint64) uint16 {
	var last uint16
	return func(uint64) uint16 {
		v, err := d.Read(ch)
		if err != nil {
			return last
		}
		last = v << 2
		return last
	}
}
