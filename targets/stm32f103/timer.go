//go:build stm32f103

package main

import (
	"errors"

	"device/stm32"

	"duadc/core"
)

const (
	timCR1CEN = 1 << 0

	// Output compare 1 in toggle mode so the match is observable on the
	// pin as well as in the status register.
	timCCMR1OC1MToggle = 0x3 << 4

	timSRCC1IF = 1 << 1
	timEGRUG   = 1 << 0
)

// pulseTimer paces conversion starts with TIM2 output compare 1.
type pulseTimer struct {
	running bool
}

func (t *pulseTimer) Configure(cfg core.TimerConfig) error {
	if t.running {
		return errors.New("timer already running")
	}
	if cfg.Compare > cfg.Period {
		return errors.New("compare beyond period")
	}
	stm32.TIM2.CR1.Set(0)
	stm32.TIM2.PSC.Set(0)
	stm32.TIM2.ARR.Set(cfg.Period)
	stm32.TIM2.CCR1.Set(cfg.Compare)
	stm32.TIM2.CCMR1_Output.Set(timCCMR1OC1MToggle)
	// Load the new period and compare immediately.
	stm32.TIM2.EGR.Set(timEGRUG)
	stm32.TIM2.SR.Set(0)
	return nil
}

func (t *pulseTimer) Start() {
	stm32.TIM2.CR1.SetBits(timCR1CEN)
	t.running = true
}

func (t *pulseTimer) CompareMatch() bool {
	return stm32.TIM2.SR.HasBits(timSRCC1IF)
}

func (t *pulseTimer) ClearCompareMatch() {
	stm32.TIM2.SR.ClearBits(timSRCC1IF)
}
