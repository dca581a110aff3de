//go:build !wasm

package serial

import (
	"fmt"

	bugst "go.bug.st/serial"
)

// List returns the serial port device paths known to the OS. An empty
// list with a nil error means none were found.
func List() ([]string, error) {
	ports, err := bugst.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}
