//go:build stm32f103

package main

import (
	"device/arm"
	"device/stm32"
	"runtime/interrupt"

	"duadc/core"
)

// events is the pipeline's handler, installed through the controller
// below before any line is enabled.
var events func(core.Event)

// The vectors are bound once at init; line masking happens through the
// controller.
var (
	convVector   interrupt.Interrupt
	serialVector interrupt.Interrupt
)

func init() {
	convVector = interrupt.New(stm32.IRQ_ADC1_2, handleConversionIRQ)
	serialVector = interrupt.New(stm32.IRQ_USART1, handleSerialIRQ)
}

func handleConversionIRQ(interrupt.Interrupt) {
	if events != nil {
		events(core.EventConversionComplete)
	}
}

// handleSerialIRQ demultiplexes the shared serial vector by status and
// mask bits: both directions arrive on one line.
func handleSerialIRQ(interrupt.Interrupt) {
	if events == nil {
		return
	}
	sr := stm32.USART1.SR.Get()
	cr := stm32.USART1.CR1.Get()
	if sr&usartSRRXNE != 0 && cr&usartCR1RXNEIE != 0 {
		events(core.EventByteReceived)
	}
	if sr&usartSRTXE != 0 && cr&usartCR1TXEIE != 0 {
		events(core.EventTransmitReady)
	}
}

// nvic is the interrupt controller wiring for the two demo lines.
type nvic struct{}

func (n *nvic) SetHandler(h func(core.Event)) {
	events = h
}

func (n *nvic) EnableLine(line core.IRQLine) {
	if line == core.LineConversion {
		convVector.Enable()
		return
	}
	serialVector.Enable()
}

func (n *nvic) DisableLine(line core.IRQLine) {
	if line == core.LineConversion {
		arm.DisableIRQ(stm32.IRQ_ADC1_2)
		return
	}
	arm.DisableIRQ(stm32.IRQ_USART1)
}
