package max7301

// ExpanderIO is the indirection between pin-level I/O and the expander
// itself, letting a PortPin be backed by either immediate-mode bus
// transactions or a cached, batched transactional adapter.
type ExpanderIO interface {
	// WritePort sets the output value of port.
	WritePort(port uint8, bit bool) error
	// ReadPort returns the current value of port.
	ReadPort(port uint8) (bool, error)
}

// PortPin is a single I/O pin on the expander. It is a cheap value type
// carrying only a port number and a non-owning reference to the adapter
// that issued it; the adapter retains ownership of the bus.
type PortPin struct {
	io   ExpanderIO
	port uint8
}

func newPortPin(io ExpanderIO, port uint8) PortPin {
	return PortPin{io: io, port: port}
}

// SetHigh drives the pin high (if configured as an output).
func (p PortPin) SetHigh() error {
	return p.io.WritePort(p.port, true)
}

// SetLow drives the pin low (if configured as an output).
func (p PortPin) SetLow() error {
	return p.io.WritePort(p.port, false)
}

// IsHigh reports whether the pin currently reads high.
func (p PortPin) IsHigh() (bool, error) {
	return p.io.ReadPort(p.port)
}

// IsLow reports whether the pin currently reads low; defined as the
// negation of IsHigh.
func (p PortPin) IsLow() (bool, error) {
	hi, err := p.io.ReadPort(p.port)
	return !hi, err
}
