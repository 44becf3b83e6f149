package max7301

import (
	"testing"

	"github.com/periphmax/max7301/driver/max7301/max7301test"
)

func TestImmediateIOWriteThenRead(t *testing.T) {
	spy := max7301test.NewPortSpy()
	e := New(spy)
	io := IntoImmediate(e, func(ex Expander) IOMutex[Expander] { return NewStdMutex(ex) })
	pin := io.PortPin(10)

	if err := pin.SetHigh(); err != nil {
		t.Fatalf("SetHigh: %v", err)
	}
	if len(spy.Log) != 1 || !spy.Log[0].Write {
		t.Fatalf("expected one immediate write, got %+v", spy.Log)
	}

	high, err := pin.IsHigh()
	if err != nil {
		t.Fatalf("IsHigh: %v", err)
	}
	if !high {
		t.Error("IsHigh() = false, want true after SetHigh")
	}
	if len(spy.Log) != 2 || spy.Log[1].Write {
		t.Fatalf("expected a second, read transaction, got %+v", spy.Log)
	}

	if err := pin.SetLow(); err != nil {
		t.Fatalf("SetLow: %v", err)
	}
	low, err := pin.IsLow()
	if err != nil {
		t.Fatalf("IsLow: %v", err)
	}
	if !low {
		t.Error("IsLow() = false, want true after SetLow")
	}
}
