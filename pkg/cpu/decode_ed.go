package cpu

// decode_ed.go builds the ED-prefixed sub-table: 16-bit load/arithmetic,
// I/O, interrupt-mode and refresh-register access (0x40-0x7F), and the
// block transfer/compare/I/O families (0xA0-0xBB). Flag algorithms for the
// block group follow the documented undocumented-flag behavior, the same
// one remogatto/z80 implements.

var edIM = [8]IM{IM0, IM0, IM1, IM2, IM0, IM0, IM1, IM2}

func init() {
	for row := uint8(0); row < 8; row++ {
		row := row
		p := row >> 1
		even := row&1 == 0

		edTable[0x40|(row<<3)] = func(c *CPU) (int, error) {
			v := c.Bus.In(c.BC())
			c.F = (c.F & FlagC) | sz53pTable[v]
			if row != regHLInd {
				c.setReg8(row, v)
			}
			return 12, nil
		}
		edTable[0x41|(row<<3)] = func(c *CPU) (int, error) {
			v := uint8(0)
			if row != regHLInd {
				v = c.getReg8(row)
			}
			c.Bus.Out(c.BC(), v)
			return 12, nil
		}
		edTable[0x42|(row<<3)] = func(c *CPU) (int, error) {
			v := c.rpGet(p)
			if even {
				c.SetHL(c.aluSbcHL(c.HL(), v))
			} else {
				c.SetHL(c.aluAdcHL(c.HL(), v))
			}
			return 15, nil
		}
		edTable[0x43|(row<<3)] = func(c *CPU) (int, error) {
			nn := c.fetch16()
			if even {
				v := c.rpGet(p)
				c.Bus.WriteMem(nn, uint8(v))
				c.Bus.WriteMem(nn+1, uint8(v>>8))
			} else {
				lo := c.Bus.ReadMem(nn)
				hi := c.Bus.ReadMem(nn + 1)
				c.rpSet(p, uint16(hi)<<8|uint16(lo))
			}
			return 20, nil
		}
		edTable[0x44|(row<<3)] = opNEG
		edTable[0x45|(row<<3)] = func(c *CPU) (int, error) {
			c.IFF1 = c.IFF2
			c.PC = c.pop16()
			return 14, nil
		}
		im := edIM[row]
		edTable[0x46|(row<<3)] = func(c *CPU) (int, error) { c.IntMode = im; return 8, nil }

		switch row {
		case 0:
			edTable[0x47] = func(c *CPU) (int, error) { c.I = c.A; return 9, nil }
		case 1:
			edTable[0x4F] = func(c *CPU) (int, error) { c.R = c.A; return 9, nil }
		case 2:
			edTable[0x57] = func(c *CPU) (int, error) {
				c.A = c.I
				c.F = (c.F & FlagC) | sz53Table[c.A] | bsel(c.IFF2, FlagP, 0)
				return 9, nil
			}
		case 3:
			edTable[0x5F] = func(c *CPU) (int, error) {
				c.A = c.R
				c.F = (c.F & FlagC) | sz53Table[c.A] | bsel(c.IFF2, FlagP, 0)
				return 9, nil
			}
		case 4:
			edTable[0x67] = opRRD
		case 5:
			edTable[0x6F] = opRLD
		case 6, 7:
			edTable[0x77|((row&1)<<3)] = func(c *CPU) (int, error) { return 8, nil } // undocumented NOP
		}
	}

	edTable[0xA0] = makeLDBlock(1)
	edTable[0xA8] = makeLDBlock(-1)
	edTable[0xB0] = makeLDRepeat(1)
	edTable[0xB8] = makeLDRepeat(-1)

	edTable[0xA1] = makeCPBlock(1)
	edTable[0xA9] = makeCPBlock(-1)
	edTable[0xB1] = makeCPRepeat(1)
	edTable[0xB9] = makeCPRepeat(-1)

	edTable[0xA2] = makeINBlock(1)
	edTable[0xAA] = makeINBlock(-1)
	edTable[0xB2] = makeINRepeat(1)
	edTable[0xBA] = makeINRepeat(-1)

	edTable[0xA3] = makeOUTBlock(1)
	edTable[0xAB] = makeOUTBlock(-1)
	edTable[0xB3] = makeOUTRepeat(1)
	edTable[0xBB] = makeOUTRepeat(-1)
}

// stepED executes an ED-prefixed instruction.
func (c *CPU) stepED() (int, error) {
	startPC := c.PC - 1
	op := c.fetch8()
	handler := edTable[op]
	if handler == nil {
		return 0, &UnimplementedOpcodeError{Bytes: []uint8{0xED, op}, PC: startPC}
	}
	return handler(c)
}

func opNEG(c *CPU) (int, error) {
	old := c.A
	c.A = 0
	c.aluSub(old)
	return 8, nil
}

func opRRD(c *CPU) (int, error) {
	oldA, oldM := c.A, c.Bus.ReadMem(c.HL())
	c.A = (oldA & 0xF0) | (oldM & 0x0F)
	c.Bus.WriteMem(c.HL(), (oldA<<4)|(oldM>>4))
	c.F = (c.F & FlagC) | sz53pTable[c.A]
	return 18, nil
}

func opRLD(c *CPU) (int, error) {
	oldA, oldM := c.A, c.Bus.ReadMem(c.HL())
	c.A = (oldA & 0xF0) | (oldM >> 4)
	c.Bus.WriteMem(c.HL(), (oldM<<4)|(oldA&0x0F))
	c.F = (c.F & FlagC) | sz53pTable[c.A]
	return 18, nil
}

func ldiFlags(c *CPU, transferred uint8) {
	n := transferred + c.A
	c.F = (c.F & (FlagS | FlagZ | FlagC)) |
		bsel(n&0x02 != 0, Flag5, 0) |
		bsel(n&0x08 != 0, Flag3, 0) |
		bsel(c.BC() != 0, FlagP, 0)
}

func makeLDBlock(step int16) Handler {
	return func(c *CPU) (int, error) {
		v := c.Bus.ReadMem(c.HL())
		c.Bus.WriteMem(c.DE(), v)
		c.SetHL(uint16(int32(c.HL()) + int32(step)))
		c.SetDE(uint16(int32(c.DE()) + int32(step)))
		c.SetBC(c.BC() - 1)
		ldiFlags(c, v)
		return 16, nil
	}
}

func makeLDRepeat(step int16) Handler {
	block := makeLDBlock(step)
	return func(c *CPU) (int, error) {
		cost, err := block(c)
		if err != nil {
			return 0, err
		}
		if c.BC() != 0 {
			c.PC -= 2
			return 21, nil
		}
		return cost, nil
	}
}

func makeCPBlock(step int16) Handler {
	return func(c *CPU) (int, error) {
		value := c.Bus.ReadMem(c.HL())
		bytetemp := c.A - value
		lookup := ((c.A & 0x08) >> 3) | ((value & 0x08) >> 2) | ((bytetemp & 0x08) >> 1)
		c.SetHL(uint16(int32(c.HL()) + int32(step)))
		c.SetBC(c.BC() - 1)
		c.F = (c.F & FlagC) | bsel(c.BC() != 0, FlagP, 0) | FlagN |
			halfcarrySubTable[lookup&0x07] |
			bsel(bytetemp != 0, 0, FlagZ) |
			(bytetemp & FlagS)
		if c.F&FlagH != 0 {
			bytetemp--
		}
		c.F |= (bytetemp & Flag3) | bsel(bytetemp&0x02 != 0, Flag5, 0)
		return 16, nil
	}
}

func makeCPRepeat(step int16) Handler {
	block := makeCPBlock(step)
	return func(c *CPU) (int, error) {
		cost, err := block(c)
		if err != nil {
			return 0, err
		}
		if c.BC() != 0 && c.F&FlagZ == 0 {
			c.PC -= 2
			return 21, nil
		}
		return cost, nil
	}
}

func makeINBlock(step int16) Handler {
	return func(c *CPU) (int, error) {
		v := c.Bus.In(c.BC())
		c.Bus.WriteMem(c.HL(), v)
		c.B--
		c.SetHL(uint16(int32(c.HL()) + int32(step)))
		t2 := uint16(v) + uint16(c.C) + uint16(step)
		c.F = bsel(v&0x80 != 0, FlagN, 0) |
			bsel(t2 > 0xFF, FlagH|FlagC, 0) |
			bsel(parityTable[(uint8(t2)&0x07)^c.B] != 0, FlagP, 0) |
			sz53Table[c.B]
		return 16, nil
	}
}

func makeINRepeat(step int16) Handler {
	block := makeINBlock(step)
	return func(c *CPU) (int, error) {
		cost, err := block(c)
		if err != nil {
			return 0, err
		}
		if c.B != 0 {
			c.PC -= 2
			return 21, nil
		}
		return cost, nil
	}
}

func makeOUTBlock(step int16) Handler {
	return func(c *CPU) (int, error) {
		v := c.Bus.ReadMem(c.HL())
		c.B--
		c.Bus.Out(c.BC(), v)
		c.SetHL(uint16(int32(c.HL()) + int32(step)))
		t2 := uint16(v) + uint16(c.L)
		c.F = bsel(v&0x80 != 0, FlagN, 0) |
			bsel(t2 > 0xFF, FlagH|FlagC, 0) |
			bsel(parityTable[(uint8(t2)&0x07)^c.B] != 0, FlagP, 0) |
			sz53Table[c.B]
		return 16, nil
	}
}

func makeOUTRepeat(step int16) Handler {
	block := makeOUTBlock(step)
	return func(c *CPU) (int, error) {
		cost, err := block(c)
		if err != nil {
			return 0, err
		}
		if c.B != 0 {
			c.PC -= 2
			return 21, nil
		}
		return cost, nil
	}
}
