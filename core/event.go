package core

// Event identifies one hardware notification delivered to the pipeline.
// Events replace raw interrupt vectors: the board posts them to the
// registered handler, which runs to completion before the next event is
// delivered.
type Event uint8

const (
	// EventConversionComplete is raised by the shared converter interrupt
	// line when the master unit finishes its scan sequence.
	EventConversionComplete Event = iota

	// EventByteReceived is raised when the serial receive register holds
	// a new byte.
	EventByteReceived

	// EventTransmitReady is raised while transmit notifications are
	// enabled and the transmit register is empty.
	EventTransmitReady
)

// IRQLine identifies one maskable interrupt source at the controller.
// Line masking is distinct from the per-condition enables on the devices
// themselves: a device condition only produces an event while its line is
// enabled here.
type IRQLine uint8

const (
	LineConversion IRQLine = iota
	LineSerial
)

// IRQController is the abstract interrupt controller. It owns event
// delivery ordering: handlers are non-reentrant, run to completion, and
// an event raised while a handler runs is pended and delivered after the
// handler returns.
type IRQController interface {
	// SetHandler registers the single event consumer. Must be called
	// before any line is enabled.
	SetHandler(h func(Event))

	// EnableLine unmasks an interrupt source.
	EnableLine(line IRQLine)

	// DisableLine masks an interrupt source.
	DisableLine(line IRQLine)
}
