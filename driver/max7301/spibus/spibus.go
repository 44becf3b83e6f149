// Package spibus implements max7301.Bus over a 4-wire SPI connection,
// the transport the MAX7301 itself is named for.
package spibus

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// Bus is a max7301.Bus backed by a periph.io SPI connection. Every
// register access is one or more 16-bit frames: the first byte of a
// frame carries the register address (MSB clear for a write, set for a
// read), the second byte carries the data. A read takes two frames: the
// first latches the address, the second (a no-op) shifts the requested
// value out while the MAX7301 simultaneously echoes the first frame's
// address byte back on this second frame's MISO line. Bus checks that
// echo against the address it sent on the first frame, surfacing a
// wiring or clocking fault as an error rather than a silently wrong
// value.
type Bus struct {
	port spi.PortCloser
	conn spi.Conn
}

const readBit = 0x80

// Open opens the named SPI port (the empty string selects the first
// available port, as with spireg.Open) and configures it for the
// MAX7301's SPI mode 0, up to 26MHz, 8 bits per word.
func Open(name string) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("spibus: %w", err)
	}
	p, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("spibus: %w", err)
	}
	c, err := p.Connect(26*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("spibus: %w", err)
	}
	return &Bus{port: p, conn: c}, nil
}

// Close releases the underlying SPI port.
func (b *Bus) Close() error {
	return b.port.Close()
}

// transfer clocks one 16-bit frame and returns the two bytes shifted
// back in.
func (b *Bus) transfer(addr, value uint8) ([2]byte, error) {
	tx := []byte{addr, value}
	rx := make([]byte, 2)
	if err := b.conn.Tx(tx, rx); err != nil {
		return [2]byte{}, err
	}
	return [2]byte{rx[0], rx[1]}, nil
}

// WriteRegister implements max7301.Bus. Address goes in the upper byte
// with its MSB clear, value in the lower byte; a single frame suffices.
func (b *Bus) WriteRegister(addr uint8, value uint8) error {
	if _, err := b.transfer(addr&^readBit, value); err != nil {
		return fmt.Errorf("spibus: write register %#02x: %w", addr, err)
	}
	return nil
}

// ReadRegister implements max7301.Bus. The first frame addresses the
// register with its MSB set (the lower byte is don't-care, since it will
// be clobbered once CS rises); the second, a no-op, shifts the latched
// value out while the device echoes the first frame's address byte back
// on this frame's MISO line, which is checked against the address that
// was actually sent.
func (b *Bus) ReadRegister(addr uint8) (uint8, error) {
	addrWord := addr | readBit
	if _, err := b.transfer(addrWord, 0x00); err != nil {
		return 0, fmt.Errorf("spibus: read register %#02x: %w", addr, err)
	}
	rx, err := b.transfer(0x00, 0x00)
	if err != nil {
		return 0, fmt.Errorf("spibus: read register %#02x: %w", addr, err)
	}
	if rx[0] != addrWord {
		return 0, fmt.Errorf("spibus: read register %#02x: echoed address %#02x does not match sent address %#02x", addr, rx[0], addrWord)
	}
	return rx[1], nil
}
