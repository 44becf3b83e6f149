// Package serialbus implements max7301.Bus over a USB-serial adapter
// speaking a simple line-oriented protocol to a microcontroller that
// bridges to the MAX7301's SPI bus. It is meant for bench setups where
// the host itself has no SPI controller.
package serialbus

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tarm/serial"
)

// Bus is a max7301.Bus backed by a serial port. Each register access is
// one line of ASCII hex sent to the bridge and one line of ASCII hex
// read back: "W aa vv\n" writes value vv to register aa and gets back
// "OK\n"; "R aa\n" reads register aa and gets back its value as two hex
// digits followed by a newline.
type Bus struct {
	port io.ReadWriteCloser
	r    *bufio.Reader
}

const baudRate = 115200

// Open opens dev (e.g. "/dev/ttyUSB0" or "COM3") at the bridge's fixed
// baud rate.
func Open(dev string) (*Bus, error) {
	c := &serial.Config{Name: dev, Baud: baudRate}
	s, err := serial.OpenPort(c)
	if err != nil {
		return nil, fmt.Errorf("serialbus: %w", err)
	}
	return &Bus{port: s, r: bufio.NewReader(s)}, nil
}

// Close closes the underlying serial port.
func (b *Bus) Close() error {
	return b.port.Close()
}

// WriteRegister implements max7301.Bus.
func (b *Bus) WriteRegister(addr uint8, value uint8) error {
	if _, err := fmt.Fprintf(b.port, "W %02X %02X\n", addr, value); err != nil {
		return fmt.Errorf("serialbus: write register %#02x: %w", addr, err)
	}
	line, err := b.r.ReadString('\n')
	if err != nil {
		return fmt.Errorf("serialbus: write register %#02x: %w", addr, err)
	}
	if line != "OK\n" {
		return fmt.Errorf("serialbus: write register %#02x: unexpected reply %q", addr, line)
	}
	return nil
}

// ReadRegister implements max7301.Bus.
func (b *Bus) ReadRegister(addr uint8) (uint8, error) {
	if _, err := fmt.Fprintf(b.port, "R %02X\n", addr); err != nil {
		return 0, fmt.Errorf("serialbus: read register %#02x: %w", addr, err)
	}
	line, err := b.r.ReadString('\n')
	if err != nil {
		return 0, fmt.Errorf("serialbus: read register %#02x: %w", addr, err)
	}
	var v uint8
	if _, err := fmt.Sscanf(line, "%02X\n", &v); err != nil {
		return 0, fmt.Errorf("serialbus: read register %#02x: malformed reply %q", addr, line)
	}
	return v, nil
}
