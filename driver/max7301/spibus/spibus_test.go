package spibus

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/spi"
)

// fakeConn is a minimal spi.Conn that records every frame it is asked
// to transfer and plays back a queued reply for each one, in order.
type fakeConn struct {
	sent  [][2]byte
	reply [][2]byte
}

func (f *fakeConn) String() string { return "fakeConn" }

func (f *fakeConn) Duplex() conn.Duplex { return conn.Full }

func (f *fakeConn) Tx(w, r []byte) error {
	f.sent = append(f.sent, [2]byte{w[0], w[1]})
	if len(f.reply) > 0 {
		r[0], r[1] = f.reply[0][0], f.reply[0][1]
		f.reply = f.reply[1:]
	}
	return nil
}

func (f *fakeConn) TxPackets(p []spi.Packet) error {
	return errors.New("fakeConn: TxPackets not supported")
}

func TestWriteRegisterSendsSingleFrameWithMSBClear(t *testing.T) {
	fc := &fakeConn{}
	b := &Bus{conn: fc}

	if err := b.WriteRegister(0x09, 0x5A); err != nil {
		t.Fatalf("WriteRegister: %v", err)
	}
	if len(fc.sent) != 1 {
		t.Fatalf("sent %d frames, want 1: %+v", len(fc.sent), fc.sent)
	}
	if fc.sent[0] != [2]byte{0x09, 0x5A} {
		t.Errorf("sent frame = %#v, want addr=0x09 (MSB clear), value=0x5A", fc.sent[0])
	}
}

func TestWriteRegisterClearsMSBOfSuppliedAddress(t *testing.T) {
	// A caller should never pass an address with the read bit set, but the
	// transport must not accidentally send a read request if it does.
	fc := &fakeConn{}
	b := &Bus{conn: fc}

	if err := b.WriteRegister(0x80|0x09, 0x00); err != nil {
		t.Fatalf("WriteRegister: %v", err)
	}
	if fc.sent[0][0] != 0x09 {
		t.Errorf("sent address byte = %#02x, want 0x09 (MSB cleared)", fc.sent[0][0])
	}
}

func TestReadRegisterSendsTwoFramesWithMSBSetOnTheFirst(t *testing.T) {
	fc := &fakeConn{reply: [][2]byte{{0x00, 0x00}, {0xA4, 0x7B}}}
	b := &Bus{conn: fc}

	v, err := b.ReadRegister(0x24)
	if err != nil {
		t.Fatalf("ReadRegister: %v", err)
	}
	if v != 0x7B {
		t.Errorf("ReadRegister returned %#02x, want 0x7B", v)
	}
	if len(fc.sent) != 2 {
		t.Fatalf("sent %d frames, want 2: %+v", len(fc.sent), fc.sent)
	}
	if fc.sent[0][0] != 0xA4 {
		t.Errorf("first frame address byte = %#02x, want 0xA4 (0x24 with read MSB set)", fc.sent[0][0])
	}
	if fc.sent[1][0] != 0x00 {
		t.Errorf("second frame address byte = %#02x, want 0x00 (noop)", fc.sent[1][0])
	}
}

func TestReadRegisterValidatesEchoAgainstFirstFrameAddress(t *testing.T) {
	// The second transfer's echoed address byte must be checked against
	// the address word sent on the *first* transfer, not the second.
	fc := &fakeConn{reply: [][2]byte{{0x00, 0x00}, {0x00, 0x99}}}
	b := &Bus{conn: fc}

	if _, err := b.ReadRegister(0x24); err == nil {
		t.Fatal("expected an error when the echoed address does not match the sent address")
	}
}

func TestReadRegisterAcceptsMatchingEcho(t *testing.T) {
	fc := &fakeConn{reply: [][2]byte{{0x00, 0x00}, {0x80 | 0x24, 0x01}}}
	b := &Bus{conn: fc}

	v, err := b.ReadRegister(0x24)
	if err != nil {
		t.Fatalf("ReadRegister: %v", err)
	}
	if v != 0x01 {
		t.Errorf("ReadRegister returned %#02x, want 0x01", v)
	}
}
