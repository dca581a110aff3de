package core

// Parity selects the serial parity mode.
type Parity uint8

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

// SerialConfig sets the asynchronous serial line parameters. No flow
// control is modeled; the drop policy on the rings absorbs overrun.
type SerialConfig struct {
	Baud     uint32
	DataBits uint8
	StopBits uint8
	Parity   Parity
}

// SerialPort is the abstract interface to the byte-level serial device.
// WriteByte and ReadByte touch the data register directly and are only
// meaningful inside the matching interrupt notification: WriteByte when
// transmit-ready was signaled, ReadByte when byte-received was.
type SerialPort interface {
	// Configure applies line parameters and enables the device.
	Configure(cfg SerialConfig) error

	// WriteByte loads one byte into the transmit register.
	WriteByte(b byte)

	// ReadByte takes the received byte out of the receive register.
	ReadByte() byte

	// EnableTxInterrupt requests transmit-ready notifications. The
	// condition is level triggered: an empty transmit register raises
	// the notification immediately, not on the next transition.
	EnableTxInterrupt()

	// DisableTxInterrupt stops transmit-ready notifications. The sender
	// disables them on an empty outbound ring and whoever queues new
	// outbound data re-enables them.
	DisableTxInterrupt()

	// EnableRxInterrupt requests byte-received notifications.
	EnableRxInterrupt()
}
