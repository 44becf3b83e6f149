package max7301

import (
	"log"
	"runtime"
)

// Configurator is a builder that accumulates per-pin mode requests into
// the MAX7301's seven 4-pin banks and, on Commit, dispatches each bank as
// an unchanged/overwrite/read-modify-write register access, followed by
// the global configuration register if it was touched.
//
// Configurator borrows its Expander exclusively for its lifetime; no
// other access to the Expander is safe until Commit returns. Dropping a
// Configurator without calling Commit performs no device writes and
// discards its pending bank changes. Shutdown and DetectTransitions,
// however, update the Expander's in-memory configuration immediately, so
// those values remain and are sent by the next Commit that writes the
// configuration register. This package cannot enforce a Commit at the
// type level (Go has no must-use attribute), so callers must always
// invoke it. When
// Debug is true, an uncommitted Configurator collected by the GC logs a
// warning to help catch the mistake during development.
type Configurator struct {
	expander    *Expander
	banks       [7]bankConfig
	configDirty bool
	committed   bool
}

// Debug enables the finalizer-based warning for uncommitted
// Configurators. It defaults to false; callers running with the race
// detector or in tests may want to set it during development.
var Debug = false

func newConfigurator(e *Expander) *Configurator {
	c := &Configurator{expander: e}
	if Debug {
		runtime.SetFinalizer(c, finalizeWarnUncommitted)
	}
	return c
}

// Port records a mode request for one pin (4..=31). Later calls for the
// same pin overwrite earlier ones. Returns the Configurator for
// chaining.
func (c *Configurator) Port(port uint8, mode PortMode) *Configurator {
	bank, offset := portBankAndOffset(port)
	c.banks[bank] = c.banks[bank].setPort(offset, mode)
	return c
}

// Ports applies mode to every pin yielded by ports, in order — equivalent
// to repeated calls to Port.
func (c *Configurator) Ports(ports []uint8, mode PortMode) *Configurator {
	for _, p := range ports {
		c.Port(p, mode)
	}
	return c
}

// Shutdown sets the in-memory shutdown bit and marks the global
// configuration dirty so it is written on Commit.
func (c *Configurator) Shutdown(enable bool) *Configurator {
	c.expander.config.shutdown = enable
	c.configDirty = true
	return c
}

// DetectTransitions sets the in-memory transition-detect bit and marks
// the global configuration dirty so it is written on Commit.
func (c *Configurator) DetectTransitions(enable bool) *Configurator {
	c.expander.config.transitionDetect = enable
	c.configDirty = true
	return c
}

// Commit dispatches the accumulated bank and configuration changes to the
// device: bank writes (in ascending bank order) precede the global
// configuration write. It is the only way a Configurator's changes reach
// the device, and is the final step in the builder's lifecycle.
func (c *Configurator) Commit() error {
	c.committed = true
	for bank, cfg := range c.banks {
		switch cfg.status() {
		case bankUnchanged:
			// No pin in this bank was touched; no bus traffic.
		case bankOverwrite:
			if err := c.expander.writeBankConfig(uint8(bank), cfg); err != nil {
				return err
			}
		case bankReadModify:
			if err := c.expander.readModifyBankConfig(uint8(bank), cfg.merge); err != nil {
				return err
			}
		}
	}
	if c.configDirty {
		return c.expander.writeConfig()
	}
	return nil
}

func finalizeWarnUncommitted(c *Configurator) {
	if !c.committed {
		log.Println("max7301: Configurator garbage collected without Commit; changes were discarded")
	}
}
