//go:build stm32f103

package main

import (
	"errors"

	"device/stm32"

	"duadc/core"
)

const (
	usartSRRXNE = 1 << 5
	usartSRTXE  = 1 << 7

	usartCR1RE     = 1 << 2
	usartCR1TE     = 1 << 3
	usartCR1RXNEIE = 1 << 5
	usartCR1TXEIE  = 1 << 7
	usartCR1PS     = 1 << 9
	usartCR1PCE    = 1 << 10
	usartCR1M      = 1 << 12
	usartCR1UE     = 1 << 13

	usartCR2STOPMsk = 0x3 << 12
	usartCR2STOP2   = 0x2 << 12

	// APB2 feeds USART1 directly at the bus clock.
	pclk2Hz = 72_000_000
)

// wirePort is USART1 as the pipeline's serial port.
type wirePort struct{}

func (p *wirePort) Configure(cfg core.SerialConfig) error {
	if cfg.Baud == 0 {
		return errors.New("baud rate not set")
	}
	if cfg.DataBits != 8 && cfg.DataBits != 9 {
		return errors.New("unsupported data bits")
	}
	if cfg.StopBits != 1 && cfg.StopBits != 2 {
		return errors.New("unsupported stop bits")
	}

	stm32.USART1.BRR.Set(uint32(pclk2Hz / cfg.Baud))

	var cr1 uint32 = usartCR1UE | usartCR1TE | usartCR1RE
	if cfg.DataBits == 9 {
		cr1 |= usartCR1M
	}
	switch cfg.Parity {
	case core.ParityEven:
		cr1 |= usartCR1PCE
	case core.ParityOdd:
		cr1 |= usartCR1PCE | usartCR1PS
	}
	stm32.USART1.CR1.Set(cr1)

	if cfg.StopBits == 2 {
		stm32.USART1.CR2.ReplaceBits(usartCR2STOP2, usartCR2STOPMsk, 0)
	} else {
		stm32.USART1.CR2.ClearBits(usartCR2STOPMsk)
	}
	return nil
}

func (p *wirePort) WriteByte(b byte) {
	stm32.USART1.DR.Set(uint32(b))
}

func (p *wirePort) ReadByte() byte {
	return byte(stm32.USART1.DR.Get())
}

func (p *wirePort) EnableTxInterrupt() {
	stm32.USART1.CR1.SetBits(usartCR1TXEIE)
}

func (p *wirePort) DisableTxInterrupt() {
	stm32.USART1.CR1.ClearBits(usartCR1TXEIE)
}

func (p *wirePort) EnableRxInterrupt() {
	stm32.USART1.CR1.SetBits(usartCR1RXNEIE)
}
