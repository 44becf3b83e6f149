package max7301

import "fmt"

// Expander owns a Bus and the in-memory copy of the device's global
// configuration. It is the entry point for configuring port modes and
// for the immediate and transactional I/O adapters.
type Expander struct {
	bus    Bus
	config expanderConfig
}

// New creates an Expander around bus. The in-memory configuration is
// initialized to the device's post-reset defaults (shutdown, transition
// detection disabled); it is not written to the device until Configure
// is used to change it and Commit is called.
func New(bus Bus) *Expander {
	return &Expander{
		bus:    bus,
		config: newExpanderConfig(),
	}
}

// Configure returns a Configurator that exclusively borrows the Expander
// for the duration of the build. Commit must be called to apply any
// changes; see Configurator.
func (e *Expander) Configure() *Configurator {
	return newConfigurator(e)
}

// ReadPort performs a single-port read, returning true iff the low bit of
// the register is set.
func (e *Expander) ReadPort(port uint8) (bool, error) {
	v, err := e.bus.ReadRegister(RegSinglePort(port).Addr())
	if err != nil {
		return false, fmt.Errorf("max7301: read port %d: %w", port, err)
	}
	return v&0x01 != 0, nil
}

// WritePort performs a single-port write of bit.
func (e *Expander) WritePort(port uint8, bit bool) error {
	v := uint8(0x00)
	if bit {
		v = 0x01
	}
	if err := e.bus.WriteRegister(RegSinglePort(port).Addr(), v); err != nil {
		return fmt.Errorf("max7301: write port %d: %w", port, err)
	}
	return nil
}

// ReadPorts performs one 8-port batch read starting at startPort. Bit k
// of the result is pin startPort+k, for k in 0..8; bits for pins beyond
// 31 read as 0.
func (e *Expander) ReadPorts(startPort uint8) (uint8, error) {
	v, err := e.bus.ReadRegister(RegPortRange(startPort).Addr())
	if err != nil {
		return 0, fmt.Errorf("max7301: read ports from %d: %w", startPort, err)
	}
	return v, nil
}

// WritePorts performs one 8-port batch write starting at startPort. Bits
// for pins beyond 31 are ignored by the device.
func (e *Expander) WritePorts(startPort uint8, bits uint8) error {
	if err := e.bus.WriteRegister(RegPortRange(startPort).Addr(), bits); err != nil {
		return fmt.Errorf("max7301: write ports from %d: %w", startPort, err)
	}
	return nil
}

// writeConfig writes the in-memory ExpanderConfig to the device.
func (e *Expander) writeConfig() error {
	if err := e.bus.WriteRegister(RegConfiguration.Addr(), e.config.byte()); err != nil {
		return fmt.Errorf("max7301: write configuration: %w", err)
	}
	return nil
}

// writeBankConfig blindly overwrites bank's register with cfg.
func (e *Expander) writeBankConfig(bank uint8, cfg bankConfig) error {
	if err := e.bus.WriteRegister(RegBankConfig(bank).Addr(), uint8(cfg)); err != nil {
		return fmt.Errorf("max7301: write bank %d: %w", bank, err)
	}
	return nil
}

// readModifyBankConfig reads bank's current register value, applies f to
// compute the merged value, then writes it back.
func (e *Expander) readModifyBankConfig(bank uint8, f func(current uint8) bankConfig) error {
	addr := RegBankConfig(bank).Addr()
	current, err := e.bus.ReadRegister(addr)
	if err != nil {
		return fmt.Errorf("max7301: read bank %d: %w", bank, err)
	}
	if err := e.bus.WriteRegister(addr, uint8(f(current))); err != nil {
		return fmt.Errorf("max7301: write bank %d: %w", bank, err)
	}
	return nil
}
