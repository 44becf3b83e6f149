// Package max7301test provides a fake Bus for exercising code built on
// driver/max7301 without real hardware. PortSpy decodes the same
// register addresses the device understands and keeps a semantic model
// of each pin's value, rather than an opaque byte array, so tests can
// assert on pin state directly.
package max7301test

import "fmt"

// Transaction records one completed register access, in the order it
// occurred, for tests that want to assert on the exact bus traffic a
// driver operation produced.
type Transaction struct {
	Write bool
	Addr  uint8
	Value uint8
}

// PortSpy is a fake Bus backed by an in-memory model of the MAX7301's
// addressable registers: 28 single-bit ports (4..=31), seven bank
// configuration registers, the global configuration register and the
// transition-detect mask. Unknown addresses return an error, matching a
// real device ignoring (and the driver never issuing) out-of-range
// register accesses.
type PortSpy struct {
	ports  [32]bool
	banks  [7]uint8
	config uint8
	detect uint8

	Log []Transaction
}

// NewPortSpy returns a PortSpy initialized to the device's power-on
// reset state: every port low, every bank register 0xAA (all four pins
// in each bank defaulted to floating input), configuration 0x00
// (shutdown, transition detection disabled).
func NewPortSpy() *PortSpy {
	s := &PortSpy{}
	for i := range s.banks {
		s.banks[i] = 0xAA
	}
	return s
}

// Port reports the current modeled value of port (4..=31).
func (s *PortSpy) Port(port uint8) bool {
	return s.ports[port]
}

// Bank returns the raw bank configuration register value for bank
// (0..=6).
func (s *PortSpy) Bank(bank uint8) uint8 {
	return s.banks[bank]
}

// Config returns the raw global configuration register value.
func (s *PortSpy) Config() uint8 {
	return s.config
}

// WriteRegister implements max7301.Bus.
func (s *PortSpy) WriteRegister(addr uint8, value uint8) error {
	s.Log = append(s.Log, Transaction{Write: true, Addr: addr, Value: value})
	switch {
	case addr == 0x00:
		// Noop: no state change.
	case addr == 0x04:
		s.config = value
	case addr == 0x06:
		s.detect = value
	case addr >= 0x09 && addr <= 0x0F:
		s.banks[addr-0x09] = value
	case addr >= 0x20 && addr <= 0x3F:
		port := addr - 0x20
		if port < 4 {
			return fmt.Errorf("max7301test: write to reserved single-port address %#02x", addr)
		}
		s.ports[port] = value&0x01 != 0
	case addr >= 0x40 && addr <= 0x5F:
		startPort := addr - 0x40
		if startPort < 4 {
			return fmt.Errorf("max7301test: write to reserved port-range address %#02x", addr)
		}
		for k := uint8(0); k < 8; k++ {
			port := int(startPort) + int(k)
			if port > 31 {
				break
			}
			s.ports[port] = value&(1<<k) != 0
		}
	default:
		return fmt.Errorf("max7301test: write to unknown register address %#02x", addr)
	}
	return nil
}

// ReadRegister implements max7301.Bus.
func (s *PortSpy) ReadRegister(addr uint8) (uint8, error) {
	var v uint8
	switch {
	case addr == 0x00:
		v = 0x00
	case addr == 0x04:
		v = s.config
	case addr == 0x06:
		v = s.detect
	case addr >= 0x09 && addr <= 0x0F:
		v = s.banks[addr-0x09]
	case addr >= 0x20 && addr <= 0x3F:
		port := addr - 0x20
		if port < 4 {
			return 0, fmt.Errorf("max7301test: read of reserved single-port address %#02x", addr)
		}
		if s.ports[port] {
			v = 0x01
		}
	case addr >= 0x40 && addr <= 0x5F:
		startPort := addr - 0x40
		if startPort < 4 {
			return 0, fmt.Errorf("max7301test: read of reserved port-range address %#02x", addr)
		}
		for k := uint8(0); k < 8; k++ {
			port := int(startPort) + int(k)
			if port > 31 {
				break
			}
			if s.ports[port] {
				v |= 1 << k
			}
		}
	default:
		return 0, fmt.Errorf("max7301test: read of unknown register address %#02x", addr)
	}
	s.Log = append(s.Log, Transaction{Write: false, Addr: addr, Value: v})
	return v, nil
}
