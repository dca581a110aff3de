//go:build stm32f103

package main

import (
	"errors"
	"time"
	"unsafe"

	"device/stm32"
	"runtime/volatile"

	"duadc/core"
)

// adcRegs is the register block of one converter unit, declared locally
// so a single driver serves both units of the pair through one layout.
type adcRegs struct {
	SR    volatile.Register32
	CR1   volatile.Register32
	CR2   volatile.Register32
	SMPR1 volatile.Register32
	SMPR2 volatile.Register32
	JOFR  [4]volatile.Register32
	HTR   volatile.Register32
	LTR   volatile.Register32
	SQR1  volatile.Register32
	SQR2  volatile.Register32
	SQR3  volatile.Register32
	JSQR  volatile.Register32
	JDR   [4]volatile.Register32
	DR    volatile.Register32
}

// The two on-chip units, viewed through the shared layout.
var (
	adc1 = (*adcRegs)(unsafe.Pointer(stm32.ADC1))
	adc2 = (*adcRegs)(unsafe.Pointer(stm32.ADC2))
)

// ADC register fields. Control register 1 holds mode bits, control
// register 2 the power, calibration and trigger bits.
const (
	adcCR1EOCIE      = 1 << 5
	adcCR1SCAN       = 1 << 8
	adcCR1DUALMODRSM = 0x6 << 16
	adcCR1DUALMODMsk = 0xF << 16

	adcCR2ADON     = 1 << 0
	adcCR2CONT     = 1 << 1
	adcCR2CAL      = 1 << 2
	adcCR2RSTCAL   = 1 << 3
	adcCR2DMA      = 1 << 8
	adcCR2ALIGN    = 1 << 11
	adcCR2EXTSELSW = 0x7 << 17
	adcCR2EXTTRIG  = 1 << 20
	adcCR2SWSTART  = 1 << 22

	adcSREOC = 1 << 1

	adcSQR1LPos = 20
)

// dualConverter drives one of the two on-chip converter units through
// its register block. ADC1 is the master of the dual pair; a start on
// it samples ADC2 in lockstep.
type dualConverter struct {
	regs   *adcRegs
	master bool
}

func newConverter(regs *adcRegs, master bool) *dualConverter {
	return &dualConverter{regs: regs, master: master}
}

func (c *dualConverter) Configure(cfg core.ConverterConfig) error {
	if c.regs.CR2.HasBits(adcCR2ADON) {
		return errors.New("configure while powered")
	}
	if cfg.Dual != core.DualOff && !c.master {
		return errors.New("dual mode is selected on the master unit")
	}

	var cr1 uint32
	if cfg.Scan {
		cr1 |= adcCR1SCAN
	}
	if cfg.EndOfScanIRQ {
		cr1 |= adcCR1EOCIE
	}
	if cfg.Dual == core.DualRegularSimultaneous {
		cr1 |= adcCR1DUALMODRSM
	}
	c.regs.CR1.Set(cr1)

	var cr2 uint32
	if cfg.Continuous {
		cr2 |= adcCR2CONT
	}
	if cfg.Align == core.AlignLeft {
		cr2 |= adcCR2ALIGN
	}
	if cfg.Trigger == core.TriggerSoftware {
		cr2 |= adcCR2EXTSELSW | adcCR2EXTTRIG
	}
	if cfg.DMA {
		cr2 |= adcCR2DMA
	}
	c.regs.CR2.Set(cr2)

	// One sampling window for every channel, three bits per field
	// across the two sample time registers.
	smp := uint32(cfg.SampleTime) & 0x7
	var smpr uint32
	for i := 0; i < 10; i++ {
		smpr |= smp << (3 * i)
	}
	c.regs.SMPR2.Set(smpr)
	smpr = 0
	for i := 0; i < 8; i++ {
		smpr |= smp << (3 * i)
	}
	c.regs.SMPR1.Set(smpr)
	return nil
}

func (c *dualConverter) SetSequence(seq []core.Channel) error {
	if len(seq) == 0 || len(seq) > 16 {
		return errors.New("sequence length out of range")
	}
	var sqr1, sqr2, sqr3 uint32
	for i, ch := range seq {
		if ch > core.MaxChannel {
			return errors.New("channel out of range")
		}
		slot := uint32(ch) & 0x1F
		switch {
		case i < 6:
			sqr3 |= slot << (5 * i)
		case i < 12:
			sqr2 |= slot << (5 * (i - 6))
		default:
			sqr1 |= slot << (5 * (i - 12))
		}
	}
	sqr1 |= uint32(len(seq)-1) << adcSQR1LPos
	c.regs.SQR1.Set(sqr1)
	c.regs.SQR2.Set(sqr2)
	c.regs.SQR3.Set(sqr3)
	return nil
}

func (c *dualConverter) SequenceWord() uint32 {
	return c.regs.SQR3.Get()
}

// PowerOn wakes the unit and waits out the stabilization time before
// returning. Setting the power bit twice would instead start a
// conversion, so it is only written when clear.
func (c *dualConverter) PowerOn() {
	if c.regs.CR2.HasBits(adcCR2ADON) {
		return
	}
	c.regs.CR2.SetBits(adcCR2ADON)
	time.Sleep(2 * time.Millisecond)
}

func (c *dualConverter) PowerOff() {
	c.regs.CR2.ClearBits(adcCR2ADON)
}

// ResetCalibration clears the calibration registers. The bit self
// clears within a few converter cycles.
func (c *dualConverter) ResetCalibration() {
	c.regs.CR2.SetBits(adcCR2RSTCAL)
	for c.regs.CR2.HasBits(adcCR2RSTCAL) {
	}
}

func (c *dualConverter) Calibrate() {
	c.regs.CR2.SetBits(adcCR2CAL)
}

func (c *dualConverter) Calibrating() bool {
	return c.regs.CR2.HasBits(adcCR2CAL)
}

func (c *dualConverter) StartRegular() {
	c.regs.CR2.SetBits(adcCR2SWSTART)
}

func (c *dualConverter) EndOfScan() bool {
	return c.regs.SR.HasBits(adcSREOC)
}

func (c *dualConverter) ClearEndOfScan() {
	c.regs.SR.ClearBits(adcSREOC)
}
