//go:build stm32f103

package main

import "device/stm32"

// RCC enable bits for the peripherals the demo drives.
const (
	rccAPB2AFIOEN   = 1 << 0
	rccAPB2IOPAEN   = 1 << 2
	rccAPB2ADC1EN   = 1 << 9
	rccAPB2ADC2EN   = 1 << 10
	rccAPB2USART1EN = 1 << 14

	rccAPB1TIM2EN = 1 << 0
	rccAHBDMA1EN  = 1 << 0

	// ADCPRE = PCLK2/6 keeps the converter clock at 12 MHz, inside its
	// 14 MHz limit with the bus at 72 MHz.
	rccCFGRADCPREDiv6 = 0x2 << 14
	rccCFGRADCPREMask = 0x3 << 14
)

// initClocks gates the peripheral clocks and muxes port A. The runtime
// has already brought the core up at 72 MHz from the external crystal.
func initClocks() {
	stm32.RCC.APB2ENR.SetBits(rccAPB2AFIOEN | rccAPB2IOPAEN | rccAPB2ADC1EN | rccAPB2ADC2EN | rccAPB2USART1EN)
	stm32.RCC.APB1ENR.SetBits(rccAPB1TIM2EN)
	stm32.RCC.AHBENR.SetBits(rccAHBDMA1EN)

	stm32.RCC.CFGR.ReplaceBits(rccCFGRADCPREDiv6, rccCFGRADCPREMask, 0)

	// PA0-PA7 analog inputs for the two sequence halves.
	stm32.GPIOA.CRL.Set(0x0000_0000)

	// PA9 alternate push-pull for transmit, PA10 floating input for
	// receive.
	stm32.GPIOA.CRH.ReplaceBits(0x4B0, 0xFF0, 0)
}
