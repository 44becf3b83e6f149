package max7301

import (
	"testing"

	"github.com/periphmax/max7301/driver/max7301/max7301test"
)

func newTransactional(spy *max7301test.PortSpy) *TransactionalIO {
	e := New(spy)
	return IntoTransactional(e, func(ex Expander) IOMutex[Expander] { return NewStdMutex(ex) })
}

func TestTransactionalRefreshBatchesAcrossGap(t *testing.T) {
	spy := max7301test.NewPortSpy()
	io := newTransactional(spy)

	p11 := io.PortPin(11)
	p19 := io.PortPin(19)

	if err := io.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if _, err := p11.IsHigh(); err != nil {
		t.Errorf("IsHigh(11): %v", err)
	}
	if _, err := p19.IsHigh(); err != nil {
		t.Errorf("IsHigh(19): %v", err)
	}

	var reads []max7301test.Transaction
	for _, tx := range spy.Log {
		if !tx.Write {
			reads = append(reads, tx)
		} else {
			t.Errorf("unexpected write during refresh: %+v", tx)
		}
	}
	if len(reads) != 2 {
		t.Fatalf("expected 2 batch reads, got %d: %+v", len(reads), reads)
	}
	if reads[0].Addr != RegPortRange(11).Addr() {
		t.Errorf("first read addr = %#02x, want %#02x", reads[0].Addr, RegPortRange(11).Addr())
	}
	if reads[1].Addr != RegPortRange(19).Addr() {
		t.Errorf("second read addr = %#02x, want %#02x", reads[1].Addr, RegPortRange(19).Addr())
	}
}

func TestTransactionalWriteBackExactBatchesFullWindow(t *testing.T) {
	spy := max7301test.NewPortSpy()
	io := newTransactional(spy)

	for port := uint8(11); port <= 18; port++ {
		pin := io.PortPin(port)
		if err := pin.SetHigh(); err != nil {
			t.Fatalf("SetHigh(%d): %v", port, err)
		}
	}
	spy.Log = nil

	if err := io.WriteBack(Exact); err != nil {
		t.Fatalf("WriteBack: %v", err)
	}
	if len(spy.Log) != 1 {
		t.Fatalf("expected exactly one batch write, got %+v", spy.Log)
	}
	tx := spy.Log[0]
	if !tx.Write || tx.Addr != RegPortRange(11).Addr() || tx.Value != 0xFF {
		t.Errorf("got %+v, want write to %#02x = 0xFF", tx, RegPortRange(11).Addr())
	}
}

func TestTransactionalWriteBackStompCleanFallsBackToSingleWrite(t *testing.T) {
	spy := max7301test.NewPortSpy()
	io := newTransactional(spy)

	p14 := io.PortPin(14)
	if err := io.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	_ = p14

	p12 := io.PortPin(12)
	if err := p12.SetHigh(); err != nil {
		t.Fatalf("SetHigh(12): %v", err)
	}
	spy.Log = nil

	if err := io.WriteBack(StompClean); err != nil {
		t.Fatalf("WriteBack: %v", err)
	}
	if len(spy.Log) != 1 {
		t.Fatalf("expected exactly one single-port write, got %+v", spy.Log)
	}
	tx := spy.Log[0]
	if !tx.Write || tx.Addr != RegSinglePort(12).Addr() || tx.Value != 0x01 {
		t.Errorf("got %+v, want write to %#02x = 0x01", tx, RegSinglePort(12).Addr())
	}
}

func TestTransactionalReadOfUnrefreshedPortPanics(t *testing.T) {
	spy := max7301test.NewPortSpy()
	io := newTransactional(spy)
	pin := io.PortPin(20)

	defer func() {
		if recover() == nil {
			t.Error("expected panic reading an un-refreshed port")
		}
	}()
	pin.IsHigh()
}
