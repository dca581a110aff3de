// Package periphspi adapts a periph.io SPI port to the bus interface
// the converter driver expects, so host-side code can read the same
// external converter an embedded build would.
package periphspi

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// Conn is an open SPI connection. It satisfies drivers.SPI.
type Conn struct {
	port spi.PortCloser
	conn spi.Conn
}

// Open initializes the periph host layer and connects to the named
// port in mode 0 at frequency f. An empty name picks the first port
// the system knows.
func Open(name string, f physic.Frequency) (*Conn, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	port, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", name, err)
	}
	conn, err := port.Connect(f, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("configure spi port %q: %w", name, err)
	}
	return &Conn{port: port, conn: conn}, nil
}

// Tx shifts w out while reading r, one full-duplex transfer.
func (c *Conn) Tx(w, r []byte) error {
	return c.conn.Tx(w, r)
}

// Transfer exchanges a single byte.
func (c *Conn) Transfer(b byte) (byte, error) {
	var r [1]byte
	if err := c.conn.Tx([]byte{b}, r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

// Close releases the port.
func (c *Conn) Close() error {
	return c.port.Close()
}
