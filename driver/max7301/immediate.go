package max7301

// ImmediateIO adapts an Expander so each PortPin operation issues one bus
// transaction immediately, guarded by the supplied IOMutex. There is no
// caching and no batching; it is the simplest adapter to reason about,
// at the cost of one transaction per pin access.
type ImmediateIO struct {
	expander IOMutex[Expander]
}

// IntoImmediate consumes e, returning an ImmediateIO that wraps it in the
// mutex constructed by newMutex.
func IntoImmediate(e *Expander, newMutex func(Expander) IOMutex[Expander]) *ImmediateIO {
	return &ImmediateIO{expander: newMutex(*e)}
}

// PortPin returns a capability for port backed by immediate-mode I/O.
func (io *ImmediateIO) PortPin(port uint8) PortPin {
	return newPortPin(io, validPort(port))
}

// WritePort implements ExpanderIO by performing one immediate bus write.
func (io *ImmediateIO) WritePort(port uint8, bit bool) error {
	return io.expander.Lock(func(ex *Expander) error {
		return ex.WritePort(port, bit)
	})
}

// ReadPort implements ExpanderIO by performing one immediate bus read.
func (io *ImmediateIO) ReadPort(port uint8) (bool, error) {
	var v bool
	err := io.expander.Lock(func(ex *Expander) error {
		var rerr error
		v, rerr = ex.ReadPort(port)
		return rerr
	})
	return v, err
}
