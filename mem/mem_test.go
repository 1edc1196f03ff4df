package mem

import "testing"

func TestWordRoundTrip(t *testing.T) {
	m := New(DefaultConfig, LittleEndian)
	addr := DefaultConfig.DataBase
	if err := m.StoreWord(addr, 0xdeadbeef, true); err != nil {
		t.Fatalf("store: %v", err)
	}
	v, err := m.GetWord(addr, true)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != 0xdeadbeef {
		t.Fatalf("got %#x, want 0xdeadbeef", v)
	}
}

func TestLittleEndianByteOrder(t *testing.T) {
	m := New(DefaultConfig, LittleEndian)
	addr := DefaultConfig.DataBase
	if err := m.StoreWord(addr, 0x04030201, true); err != nil {
		t.Fatalf("store: %v", err)
	}
	for i, want := range []uint8{1, 2, 3, 4} {
		b, err := m.GetByte(addr+uint32(i), true)
		if err != nil {
			t.Fatalf("get byte %d: %v", i, err)
		}
		if b != want {
			t.Fatalf("byte %d = %d, want %d", i, b, want)
		}
	}
}

func TestBigEndianByteOrder(t *testing.T) {
	m := New(DefaultConfig, BigEndian)
	addr := DefaultConfig.DataBase
	if err := m.StoreWord(addr, 0x04030201, true); err != nil {
		t.Fatalf("store: %v", err)
	}
	for i, want := range []uint8{4, 3, 2, 1} {
		b, err := m.GetByte(addr+uint32(i), true)
		if err != nil {
			t.Fatalf("get byte %d: %v", i, err)
		}
		if b != want {
			t.Fatalf("byte %d = %d, want %d", i, b, want)
		}
	}
}

func TestMisalignedWordAccess(t *testing.T) {
	m := New(DefaultConfig, LittleEndian)
	_, err := m.GetWord(DefaultConfig.DataBase+1, true)
	var addrErr *AddressError
	if err == nil {
		t.Fatal("expected misalignment error")
	} else if ae, ok := err.(*AddressError); !ok || ae.Kind != ErrMisaligned {
		t.Fatalf("got %v, want misaligned AddressError", err)
	} else {
		addrErr = ae
		_ = addrErr
	}
}

func TestOutOfRangeAccess(t *testing.T) {
	m := New(DefaultConfig, LittleEndian)
	_, err := m.GetWord(0x00000000, true)
	if err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestTextWriteProtectedUnlessSelfModifying(t *testing.T) {
	m := New(DefaultConfig, LittleEndian)
	addr := DefaultConfig.TextBase
	if err := m.StoreWord(addr, 1, true); err == nil {
		t.Fatal("expected write-protected error")
	}
	m.SetSelfModifying(true)
	if err := m.StoreWord(addr, 1, true); err != nil {
		t.Fatalf("self-modifying store: %v", err)
	}
}

func TestSelfModifyingInvalidatesCachedStatement(t *testing.T) {
	m := New(DefaultConfig, LittleEndian)
	m.SetSelfModifying(true)
	addr := DefaultConfig.TextBase
	if err := m.StoreStatement(addr, 0x01020304, "decoded-nop", true); err != nil {
		t.Fatalf("store statement: %v", err)
	}
	s, err := m.FetchStatement(addr, true)
	if err != nil || s == nil || s.Decoded != "decoded-nop" {
		t.Fatalf("expected cached statement, got %v, %v", s, err)
	}
	if err := m.StoreWord(addr, 0x05060708, true); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	s, err = m.FetchStatement(addr, true)
	if err != nil {
		t.Fatalf("fetch after overwrite: %v", err)
	}
	if s != nil {
		t.Fatalf("expected stale statement to be invalidated, got %v", s)
	}
}

func TestNullTerminatedString(t *testing.T) {
	m := New(DefaultConfig, LittleEndian)
	addr := DefaultConfig.DataBase
	msg := "hi"
	for i, c := range []byte(msg) {
		if err := m.StoreByte(addr+uint32(i), c, true); err != nil {
			t.Fatalf("store byte: %v", err)
		}
	}
	if err := m.StoreByte(addr+uint32(len(msg)), 0, true); err != nil {
		t.Fatalf("store nul: %v", err)
	}
	got, err := m.GetNullTerminatedString(addr)
	if err != nil {
		t.Fatalf("read string: %v", err)
	}
	if got != msg {
		t.Fatalf("got %q, want %q", got, msg)
	}
}

func TestResetClearsMemory(t *testing.T) {
	m := New(DefaultConfig, LittleEndian)
	addr := DefaultConfig.DataBase
	_ = m.StoreWord(addr, 0x1234, true)
	m.Reset()
	v, err := m.GetWord(addr, true)
	if err != nil {
		t.Fatalf("get after reset: %v", err)
	}
	if v != 0 {
		t.Fatalf("got %#x after reset, want 0", v)
	}
}
