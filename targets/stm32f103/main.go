//go:build stm32f103

// Firmware entry for the dual-converter capture demo on STM32F103
// boards: both converter units in regular-simultaneous scan mode, the
// transfer channel draining into the sample store, TIM2 pacing starts
// and USART1 carrying the report stream at 38400 8N1.
package main

import (
	"duadc/core"
)

func main() {
	initClocks()

	board := core.Board{
		Master:   newConverter(adc1, true),
		Slave:    newConverter(adc2, false),
		Transfer: &burstEngine{},
		Pacer:    &pulseTimer{},
		Port:     &wirePort{},
		IRQ:      &nvic{},
	}

	p, err := core.New(board, core.Config{})
	if err != nil {
		hang()
	}
	if err := p.Setup(); err != nil {
		hang()
	}
	p.Run(0)
}

// hang parks the core when bring-up fails; there is nowhere to report
// the error before the serial path is up.
func hang() {
	for {
	}
}
