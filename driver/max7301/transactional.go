package max7301

import (
	"math/bits"
	"sync/atomic"
)

// Strategy controls how TransactionalIO.WriteBack batches pending writes.
type Strategy int

const (
	// Exact writes only the ports explicitly set through a PortPin's
	// SetHigh/SetLow since the last write-back. Safest, least efficient.
	Exact Strategy = iota

	// StompClean may batch-write any fresh port — one in the most recent
	// Refresh window or written through a PortPin since — re-asserting its
	// last-known value even where the user made no change. Ports that are
	// not fresh are never touched.
	StompClean

	// StompAny may batch-write any valid port, including ones never
	// refreshed — their cached value is then undefined unless they were
	// explicitly written. Most efficient when most pins are outputs, but
	// only safe if every pin of interest was issued and either written or
	// refreshed before the write-back.
	StompAny
)

// validPortsMask is the StompAny "anything goes" mask from spec.md
// §4.7.4. Its low two bits (ports 2-3) don't correspond to real pins,
// but dirty never has bits below port 4 set, so they're shifted out of
// the window before ok_to_write's low byte is ever inspected.
const validPortsMask uint32 = 0xFFFFFFFC

// TransactionalIO adapts an Expander so PortPin reads and writes only
// touch an in-memory cache; Refresh and WriteBack move data to and from
// the device in 8-port batches, with WriteBack falling back to
// single-port writes where the strategy does not permit a full batch.
// The invariant of each mask is documented on its field.
type TransactionalIO struct {
	expander IOMutex[Expander]

	// issued has bit p set iff a PortPin for port p has ever been handed
	// out. Monotonically non-decreasing; relaxed ordering suffices since
	// it never races with a bus transaction.
	issued atomic.Uint32
	// cache holds the believed bit value of every port, valid where
	// fresh is set (or where dirty is set without an intervening
	// refresh).
	cache atomic.Uint32
	// dirty has bit p set iff the cached value of port p was written by
	// the user since the last WriteBack.
	dirty atomic.Uint32
	// fresh has bit p set iff the cached value of port p reflects a
	// completed Refresh or a user write since the last Refresh.
	fresh atomic.Uint32
}

// IntoTransactional consumes e, returning a TransactionalIO that wraps it
// in the mutex constructed by newMutex.
func IntoTransactional(e *Expander, newMutex func(Expander) IOMutex[Expander]) *TransactionalIO {
	return &TransactionalIO{expander: newMutex(*e)}
}

// PortPin issues a capability for port, marking it in the issued set.
// Issuance is idempotent and pins never expire.
func (io *TransactionalIO) PortPin(port uint8) PortPin {
	port = validPort(port)
	io.issued.Or(1 << port)
	return newPortPin(io, port)
}

// WritePort implements ExpanderIO: it only updates the cache, marking the
// port dirty (pending write-back) and fresh (safe to read back
// immediately).
func (io *TransactionalIO) WritePort(port uint8, bit bool) error {
	orBit := uint32(1) << port
	if bit {
		io.cache.Or(orBit)
	} else {
		io.cache.And(^orBit)
	}
	io.dirty.Or(orBit)
	io.fresh.Or(orBit)
	return nil
}

// ReadPort implements ExpanderIO. Reading a port whose fresh bit is clear
// — i.e. one that has never been refreshed or written — is a programmer
// error and panics immediately rather than returning a stale or
// undefined value.
func (io *TransactionalIO) ReadPort(port uint8) (bool, error) {
	bit := uint32(1) << port
	if io.fresh.Load()&bit == 0 {
		panic("max7301: read of un-refreshed port")
	}
	return io.cache.Load()&bit != 0, nil
}

// Refresh populates the cache for every issued port, grouped into
// minimal 8-port batch reads aligned at the lowest not-yet-covered
// issued port. All pending writes are discarded: dirty is cleared first.
func (io *TransactionalIO) Refresh() error {
	io.dirty.Store(0)

	var loadBuffer, freshBuffer uint32
	startPort := uint32(4)
	work := io.issued.Load() >> 4
	for work != 0 {
		skip := uint32(bits.TrailingZeros32(work))
		work >>= skip
		startPort += skip

		var v uint8
		if err := io.expander.Lock(func(ex *Expander) error {
			var rerr error
			v, rerr = ex.ReadPorts(uint8(startPort))
			return rerr
		}); err != nil {
			return err
		}
		loadBuffer |= uint32(v) << startPort
		freshBuffer |= 0xFF << startPort
		work &^= 0xFF
	}
	io.cache.Store(loadBuffer)
	io.fresh.Store(freshBuffer)
	return nil
}

// WriteBack flushes pending writes to the device, batching according to
// strategy. See Strategy for the guarantees of each mode. Ports are
// flushed in ascending port-number order.
func (io *TransactionalIO) WriteBack(strategy Strategy) error {
	startPort := uint32(0)
	work := io.dirty.Load()
	var okToWrite uint32
	switch strategy {
	case Exact:
		okToWrite = work
	case StompClean:
		okToWrite = io.fresh.Load()
	case StompAny:
		okToWrite = validPortsMask
	}
	cache := io.cache.Load()

	for work != 0 {
		skip := uint32(bits.TrailingZeros32(work))
		work >>= skip
		okToWrite >>= skip
		startPort += skip

		if okToWrite&0xFF == 0xFF {
			portValues := uint8(cache >> startPort)
			if err := io.expander.Lock(func(ex *Expander) error {
				return ex.WritePorts(uint8(startPort), portValues)
			}); err != nil {
				return err
			}
			work &^= 0xFF
		} else {
			bit := cache&(1<<startPort) != 0
			if err := io.expander.Lock(func(ex *Expander) error {
				return ex.WritePort(uint8(startPort), bit)
			}); err != nil {
				return err
			}
			work &^= 0x01
		}
	}
	io.dirty.Store(0)
	return nil
}
