package cpu

// decode_indexed.go implements the DD/FD prefix group: one shared
// implementation parameterized by a pointer to either CPU.IX or CPU.IY
// (spec.md §4.3). Most second bytes simply re-run the base-table handler
// with a flat 4 T-state surcharge (HL is untouched, so nothing needs
// redirecting); the curated set of HL/(HL)-referencing opcodes is
// redirected to the index register / (index+d) addressing instead.

type indexedHandler func(c *CPU, ixy *uint16) (int, error)

var indexedOverride [256]indexedHandler

func init() {
	for dst := uint8(0); dst < 8; dst++ {
		if dst == regHLInd {
			continue
		}
		dst := dst
		indexedOverride[0x46|(dst<<3)] = func(c *CPU, ixy *uint16) (int, error) {
			d := c.readDisp()
			v := c.Bus.ReadMem(uint16(int32(*ixy) + int32(d)))
			c.setReg8(dst, v)
			return 19, nil
		}
	}
	for src := uint8(0); src < 8; src++ {
		if src == regHLInd {
			continue
		}
		src := src
		indexedOverride[0x70|src] = func(c *CPU, ixy *uint16) (int, error) {
			d := c.readDisp()
			c.Bus.WriteMem(uint16(int32(*ixy)+int32(d)), c.getReg8(src))
			return 19, nil
		}
	}
	indexedOverride[0x36] = func(c *CPU, ixy *uint16) (int, error) {
		d := c.readDisp()
		n := c.fetch8()
		c.Bus.WriteMem(uint16(int32(*ixy)+int32(d)), n)
		return 19, nil
	}
	indexedOverride[0x34] = func(c *CPU, ixy *uint16) (int, error) {
		d := c.readDisp()
		addr := uint16(int32(*ixy) + int32(d))
		v := c.Bus.ReadMem(addr)
		c.aluInc(&v)
		c.Bus.WriteMem(addr, v)
		return 23, nil
	}
	indexedOverride[0x35] = func(c *CPU, ixy *uint16) (int, error) {
		d := c.readDisp()
		addr := uint16(int32(*ixy) + int32(d))
		v := c.Bus.ReadMem(addr)
		c.aluDec(&v)
		c.Bus.WriteMem(addr, v)
		return 23, nil
	}
	for operation := uint8(0); operation < 8; operation++ {
		operation := operation
		indexedOverride[0x86|(operation<<3)] = func(c *CPU, ixy *uint16) (int, error) {
			d := c.readDisp()
			v := c.Bus.ReadMem(uint16(int32(*ixy) + int32(d)))
			aluFuncs[operation](c, v)
			return 19, nil
		}
	}
	indexedOverride[0x23] = func(c *CPU, ixy *uint16) (int, error) { *ixy++; return 10, nil }
	indexedOverride[0x2B] = func(c *CPU, ixy *uint16) (int, error) { *ixy--; return 10, nil }
	for p := uint8(0); p < 4; p++ {
		p := p
		indexedOverride[0x09|(p<<4)] = func(c *CPU, ixy *uint16) (int, error) {
			var operand uint16
			if p == 2 {
				operand = *ixy
			} else {
				operand = c.rpGet(p)
			}
			*ixy = c.aluAddHL(*ixy, operand)
			return 15, nil
		}
	}
	indexedOverride[0x21] = func(c *CPU, ixy *uint16) (int, error) { *ixy = c.fetch16(); return 14, nil }
	indexedOverride[0x22] = func(c *CPU, ixy *uint16) (int, error) {
		nn := c.fetch16()
		c.Bus.WriteMem(nn, uint8(*ixy))
		c.Bus.WriteMem(nn+1, uint8(*ixy>>8))
		return 20, nil
	}
	indexedOverride[0x2A] = func(c *CPU, ixy *uint16) (int, error) {
		nn := c.fetch16()
		lo := c.Bus.ReadMem(nn)
		hi := c.Bus.ReadMem(nn + 1)
		*ixy = uint16(hi)<<8 | uint16(lo)
		return 20, nil
	}
	indexedOverride[0xF9] = func(c *CPU, ixy *uint16) (int, error) { c.SP = *ixy; return 10, nil }
	indexedOverride[0xE3] = func(c *CPU, ixy *uint16) (int, error) {
		lo := c.Bus.ReadMem(c.SP)
		hi := c.Bus.ReadMem(c.SP + 1)
		c.Bus.WriteMem(c.SP, uint8(*ixy))
		c.Bus.WriteMem(c.SP+1, uint8(*ixy>>8))
		*ixy = uint16(hi)<<8 | uint16(lo)
		return 23, nil
	}
	indexedOverride[0xE9] = func(c *CPU, ixy *uint16) (int, error) { c.PC = *ixy; return 8, nil }
	indexedOverride[0xE5] = func(c *CPU, ixy *uint16) (int, error) { c.push16(*ixy); return 15, nil }
	indexedOverride[0xE1] = func(c *CPU, ixy *uint16) (int, error) { *ixy = c.pop16(); return 14, nil }
}

// stepIndexed executes a DD- or FD-prefixed instruction against the given
// index register.
func (c *CPU) stepIndexed(ixy *uint16) (int, error) {
	startPC := c.PC - 1
	op2 := c.fetch8()

	if op2 == 0xCB {
		return c.stepIndexedCB(ixy)
	}

	if h := indexedOverride[op2]; h != nil {
		return h(c, ixy)
	}

	handler := baseTable[op2]
	if handler == nil {
		return 0, &UnimplementedOpcodeError{Bytes: []uint8{0xDD, op2}, PC: startPC}
	}
	cost, err := handler(c)
	if err != nil {
		return 0, err
	}
	return cost + 4, nil
}

// stepIndexedCB executes the doubly-prefixed DDCB/FDCB form: displacement,
// then final opcode, operating only on the (index+d) memory operand (the
// documented behavior; the undocumented "also store into register r"
// side-effect some silicon exhibits is out of scope).
func (c *CPU) stepIndexedCB(ixy *uint16) (int, error) {
	d := c.readDisp()
	op3 := c.fetch8()
	addr := uint16(int32(*ixy) + int32(d))

	switch {
	case op3 < 0x40:
		operation := (op3 >> 3) & 7
		v := shiftFuncs[operation](c, c.Bus.ReadMem(addr))
		c.Bus.WriteMem(addr, v)
		return 23, nil
	case op3 < 0x80:
		bit := (op3 >> 3) & 7
		c.aluBit(c.Bus.ReadMem(addr), bit)
		return 20, nil
	case op3 < 0xC0:
		bit := (op3 >> 3) & 7
		v := c.Bus.ReadMem(addr) &^ (1 << bit)
		c.Bus.WriteMem(addr, v)
		return 23, nil
	default:
		bit := (op3 >> 3) & 7
		v := c.Bus.ReadMem(addr) | (1 << bit)
		c.Bus.WriteMem(addr, v)
		return 23, nil
	}
}
