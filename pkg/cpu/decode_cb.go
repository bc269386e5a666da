package cpu

// decode_cb.go builds the CB-prefixed sub-table: rotate/shift (0x00-0x3F),
// BIT (0x40-0x7F), RES (0x80-0xBF), SET (0xC0-0xFF), each generic over the
// standard 3-bit register field (spec.md §4.3, §4.4).

// shiftFuncs indexes the eight CB rotate/shift operations in field order:
// RLC,RRC,RL,RR,SLA,SRA,SRL,SLL (the last undocumented).
var shiftFuncs = [8]func(*CPU, uint8) uint8{
	(*CPU).aluRlc,
	(*CPU).aluRrc,
	(*CPU).aluRl,
	(*CPU).aluRr,
	(*CPU).aluSla,
	(*CPU).aluSra,
	(*CPU).aluSrl,
	(*CPU).aluSll,
}

func init() {
	for op := 0; op < 256; op++ {
		r := uint8(op) & 7
		cost := 8
		if r == regHLInd {
			cost = 15
		}

		switch {
		case op < 0x40:
			operation := (uint8(op) >> 3) & 7
			cbTable[op] = func(c *CPU) (int, error) {
				v := shiftFuncs[operation](c, c.getReg8(r))
				c.setReg8(r, v)
				return cost, nil
			}
		case op < 0x80:
			bit := (uint8(op) >> 3) & 7
			readCost := 8
			if r == regHLInd {
				readCost = 12
			}
			cbTable[op] = func(c *CPU) (int, error) {
				c.aluBit(c.getReg8(r), bit)
				return readCost, nil
			}
		case op < 0xC0:
			bit := (uint8(op) >> 3) & 7
			cbTable[op] = func(c *CPU) (int, error) {
				v := c.getReg8(r) &^ (1 << bit)
				c.setReg8(r, v)
				return cost, nil
			}
		default:
			bit := (uint8(op) >> 3) & 7
			cbTable[op] = func(c *CPU) (int, error) {
				v := c.getReg8(r) | (1 << bit)
				c.setReg8(r, v)
				return cost, nil
			}
		}
	}
}

// stepCB executes a CB-prefixed instruction: one more opcode byte selects
// the cbTable entry.
func (c *CPU) stepCB() (int, error) {
	startPC := c.PC - 1
	op := c.fetch8()
	handler := cbTable[op]
	if handler == nil {
		return 0, &UnimplementedOpcodeError{Bytes: []uint8{0xCB, op}, PC: startPC}
	}
	return handler(c)
}
