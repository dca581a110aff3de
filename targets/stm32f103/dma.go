//go:build stm32f103

package main

import (
	"errors"
	"unsafe"

	"device/stm32"
)

// Channel 1 control bits. The converter pair's combined data register
// feeds this channel, 32-bit words on both sides, memory incrementing,
// one shot.
const (
	dmaCCREN      = 1 << 0
	dmaCCRMINC    = 1 << 7
	dmaCCRPSIZE32 = 0x2 << 8
	dmaCCRMSIZE32 = 0x2 << 10

	dmaISRTEIF1 = 1 << 3
)

// burstEngine is the one-shot transfer channel moving capture words
// from the master converter into the sample store.
type burstEngine struct {
	count uint32
}

// Arm resets the channel onto dst. The channel must be disabled while
// its address and count registers are written.
func (e *burstEngine) Arm(dst []uint32, count int) error {
	if count <= 0 || count > len(dst) {
		return errors.New("transfer count out of range")
	}
	stm32.DMA1.CCR1.ClearBits(dmaCCREN)
	stm32.DMA1.CPAR1.Set(uint32(uintptr(unsafe.Pointer(&adc1.DR))))
	stm32.DMA1.CMAR1.Set(uint32(uintptr(unsafe.Pointer(&dst[0]))))
	stm32.DMA1.CNDTR1.Set(uint32(count))
	e.count = uint32(count)
	stm32.DMA1.CCR1.Set(dmaCCRMINC | dmaCCRPSIZE32 | dmaCCRMSIZE32 | dmaCCREN)
	return nil
}

// Complete reports whether the armed burst has made progress. On this
// part the channel drains each capture word before the end-of-scan
// interrupt fires, so an armed channel that moved nothing means a
// stalled or faulted transfer, not an in-flight one.
func (e *burstEngine) Complete() bool {
	if stm32.DMA1.ISR.HasBits(dmaISRTEIF1) {
		return false
	}
	return stm32.DMA1.CNDTR1.Get() < e.count
}
