package core

import "errors"

// Board bundles the five peripheral subsystems one pipeline drives. A
// target (or a simulator) fills every field during construction; there
// are no package-level singletons, each Board is one physical device.
type Board struct {
	// Master is the converter unit that receives start commands, owns
	// the DMA request line and raises the shared conversion interrupt.
	Master AnalogConverter

	// Slave is the paired unit sampled in lockstep with Master.
	Slave AnalogConverter

	Transfer TransferEngine
	Pacer    PaceTimer
	Port     SerialPort
	IRQ      IRQController
}

func (b Board) check() error {
	if b.Master == nil || b.Slave == nil {
		return errors.New("board missing converter unit")
	}
	if b.Transfer == nil {
		return errors.New("board missing transfer engine")
	}
	if b.Pacer == nil {
		return errors.New("board missing pace timer")
	}
	if b.Port == nil {
		return errors.New("board missing serial port")
	}
	if b.IRQ == nil {
		return errors.New("board missing interrupt controller")
	}
	return nil
}
