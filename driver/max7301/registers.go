// Package max7301 implements a driver for the Maxim MAX7301 28-port
// SPI GPIO expander.
//
// Datasheet: https://www.analog.com/media/en/technical-documentation/data-sheets/MAX7301.pdf
package max7301

import "fmt"

// Register identifies one of the MAX7301's addressable registers by its
// semantic role rather than its raw device address. Converting a Register
// to its device address is the only place concrete addresses are
// produced; all other code routes through it.
type Register struct {
	kind registerKind
	arg  uint8
}

type registerKind uint8

const (
	regNoop registerKind = iota
	regConfiguration
	regTransitionDetectMask
	regBankConfig
	regSinglePort
	regPortRange
)

// RegNoop is the no-op register. Reading or writing it has no effect
// beyond shifting bits through the SPI shift register.
var RegNoop = Register{kind: regNoop}

// RegConfiguration is the global configuration register (shutdown and
// transition-detect bits).
var RegConfiguration = Register{kind: regConfiguration}

// RegTransitionDetectMask is the transition-detect mask register.
var RegTransitionDetectMask = Register{kind: regTransitionDetectMask}

// RegBankConfig addresses the port-mode configuration register for bank
// (bank must be in 0..=6, covering ports 4..=31 four at a time).
func RegBankConfig(bank uint8) Register {
	return Register{kind: regBankConfig, arg: validBank(bank)}
}

// RegSinglePort addresses the single-port I/O register for port (must be
// in 4..=31).
func RegSinglePort(port uint8) Register {
	return Register{kind: regSinglePort, arg: validPort(port)}
}

// RegPortRange addresses the 8-port batch I/O register whose window
// starts at startPort (must be in 4..=31; the window may extend past 31,
// in which case those bits are ignored by the device).
func RegPortRange(startPort uint8) Register {
	return Register{kind: regPortRange, arg: validPort(startPort)}
}

// Addr returns the 8-bit device address for the register.
func (r Register) Addr() uint8 {
	switch r.kind {
	case regNoop:
		return 0x00
	case regConfiguration:
		return 0x04
	case regTransitionDetectMask:
		return 0x06
	case regBankConfig:
		return 0x09 + r.arg
	case regSinglePort:
		return 0x20 + r.arg
	case regPortRange:
		return 0x40 + r.arg
	default:
		panic("max7301: invalid register kind")
	}
}

func validPort(port uint8) uint8 {
	if port < 4 || port > 31 {
		panic(fmt.Sprintf("max7301: port %d out of range 4..=31", port))
	}
	return port
}

func validBank(bank uint8) uint8 {
	if bank > 6 {
		panic(fmt.Sprintf("max7301: bank %d out of range 0..=6", bank))
	}
	return bank
}

// portBankAndOffset returns the bank index (0..=6) and the 0..=3 offset
// within that bank for port.
func portBankAndOffset(port uint8) (bank, offset uint8) {
	port = validPort(port)
	return port/4 - 1, port % 4
}
