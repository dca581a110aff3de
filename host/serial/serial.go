package serial

import (
	"io"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - A simulated board's host port wrapped for testing
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate; the board side runs fixed at 38400 8N1
	Baud int

	// Read timeout in milliseconds. Leave 0 for blocking reads, which
	// is what the line-wise report monitor wants.
	ReadTimeout int
}

// DefaultConfig returns the configuration matching the board firmware
func DefaultConfig(device string) *Config {
	return &Config{
		Device: device,
		Baud:   38400,
	}
}
