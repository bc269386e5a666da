package cpu

import "testing"

func TestFlagTables(t *testing.T) {
	if sz53Table[0]&FlagZ == 0 {
		t.Error("sz53Table[0] should have Z flag")
	}
	if sz53Table[0x80]&FlagS == 0 {
		t.Error("sz53Table[0x80] should have S flag")
	}
	if parityTable[0]&FlagP == 0 {
		t.Error("parityTable[0] should have P flag (even parity)")
	}
	if parityTable[1]&FlagP != 0 {
		t.Error("parityTable[1] should not have P flag (odd parity)")
	}
	if parityTable[0xFF]&FlagP == 0 {
		t.Error("parityTable[0xFF] should have P flag")
	}
	if sz53pTable[0] != sz53Table[0]|parityTable[0] {
		t.Error("sz53pTable should be sz53Table OR parityTable")
	}
}

func TestAluAddFlags(t *testing.T) {
	tests := []struct {
		a, v                        uint8
		wantA                       uint8
		wantC, wantZ, wantS, wantH, wantV bool
	}{
		{0, 0, 0, false, true, false, false, false},
		{1, 1, 2, false, false, false, false, false},
		{0xFF, 1, 0, true, true, false, true, false},
		{0x0F, 1, 0x10, false, false, false, true, false},
		{0x7F, 1, 0x80, false, false, true, true, true},
		{0x80, 0x80, 0, true, true, false, false, true},
	}
	for _, tc := range tests {
		c, _ := newTestCPU()
		c.A = tc.a
		c.aluAdd(tc.v)
		if c.A != tc.wantA {
			t.Errorf("ADD %02X+%02X: A=%02X want %02X", tc.a, tc.v, c.A, tc.wantA)
		}
		if (c.F&FlagC != 0) != tc.wantC {
			t.Errorf("ADD %02X+%02X: carry=%v want %v", tc.a, tc.v, c.F&FlagC != 0, tc.wantC)
		}
		if (c.F&FlagZ != 0) != tc.wantZ {
			t.Errorf("ADD %02X+%02X: zero=%v want %v", tc.a, tc.v, c.F&FlagZ != 0, tc.wantZ)
		}
		if (c.F&FlagH != 0) != tc.wantH {
			t.Errorf("ADD %02X+%02X: half=%v want %v", tc.a, tc.v, c.F&FlagH != 0, tc.wantH)
		}
		if (c.F&FlagV != 0) != tc.wantV {
			t.Errorf("ADD %02X+%02X: overflow=%v want %v", tc.a, tc.v, c.F&FlagV != 0, tc.wantV)
		}
	}
}

func TestAluDaa(t *testing.T) {
	tests := []struct {
		a, f uint8
		want uint8
	}{
		{0x15, 0, 0x15},
		{0x1A, 0, 0x20},
		{0x9A, 0, 0x00},
	}
	for _, tc := range tests {
		c, _ := newTestCPU()
		c.A, c.F = tc.a, tc.f
		c.aluDaa()
		if c.A != tc.want {
			t.Errorf("DAA A=%02X F=%02X: got A=%02X want %02X", tc.a, tc.f, c.A, tc.want)
		}
	}
}

func TestAluIncDecOverflow(t *testing.T) {
	c, _ := newTestCPU()
	v := uint8(0x7F)
	c.aluInc(&v)
	if v != 0x80 || c.F&FlagV == 0 {
		t.Errorf("INC 0x7F: v=%02X F=%02X", v, c.F)
	}
	v = 0x80
	c.aluDec(&v)
	if v != 0x7F || c.F&FlagV == 0 || c.F&FlagN == 0 {
		t.Errorf("DEC 0x80: v=%02X F=%02X", v, c.F)
	}
}

func TestAluCarryPreservedAcrossIncDec(t *testing.T) {
	c, _ := newTestCPU()
	c.F = FlagC
	v := uint8(0)
	c.aluInc(&v)
	if c.F&FlagC == 0 {
		t.Error("INC should preserve carry")
	}
	c.F = FlagC
	v = 0x01
	c.aluDec(&v)
	if c.F&FlagC == 0 {
		t.Error("DEC should preserve carry")
	}
}
