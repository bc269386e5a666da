// Package cpu implements an instruction-accurate Zilog Z80 core: the
// prefix-tree decoder, per-opcode semantics, and flag computation. It
// consumes memory and I/O through the bus.Bus contract and never touches
// anything outside its own Registers and T-state counter.
package cpu

import (
	"fmt"

	"github.com/z80core/z80/pkg/bus"
)

// TStates is a running T-state (clock cycle) count. It only ever advances.
type TStates uint64

// CPU is one Z80 instance: register file, attached bus, and the handful of
// scratch fields the interrupt and EI-delay logic needs. One instance models
// one physical CPU; Step is the only operation that executes instructions,
// and it never suspends — see spec.md §5 for the concurrency contract this implies
// (single-threaded, synchronous, no cross-instance sharing).
type CPU struct {
	Registers

	Bus bus.Bus

	TStates TStates

	pendingNMI bool
	pendingIRQ bool
	dataBus    uint8

	// eiShadow is true for exactly the one step() following an EI, during
	// which a pending IRQ must not be accepted (the documented one-instruction
	// delay — spec.md §9 "EI-delay").
	eiShadow bool
}

// New returns a CPU bound to the given bus, in the post-reset state.
func New(b bus.Bus) *CPU {
	c := &CPU{Bus: b}
	c.Reset()
	return c
}

// Reset puts the CPU into the power-on/RST state: PC=0, I=0, R=0,
// IFF1=IFF2=0, IM=0, halted=false. All other registers are architecturally
// undefined (spec.md §6.4) and are left as whatever they already were.
func (c *CPU) Reset() {
	c.Registers.reset()
	c.pendingNMI = false
	c.pendingIRQ = false
	c.eiShadow = false
}

// Interrupt raises the pending-IRQ latch, consumed at the next Step.
func (c *CPU) Interrupt() {
	c.pendingIRQ = true
}

// NMI raises the pending-NMI latch, consumed at the next Step.
func (c *CPU) NMI() {
	c.pendingNMI = true
}

// SetDataBus records the byte the host will deliver on the next IM 0 / IM 2
// interrupt acknowledgement cycle.
func (c *CPU) SetDataBus(v uint8) {
	c.dataBus = v
}

// UnimplementedOpcodeError reports a byte sequence the decoder does not
// recognize as a documented Z80 instruction — a correct Z80 program never
// emits one (spec.md §7).
type UnimplementedOpcodeError struct {
	Bytes []uint8
	PC    uint16
}

func (e *UnimplementedOpcodeError) Error() string {
	return fmt.Sprintf("z80: unimplemented opcode %02X at PC=%04X", e.Bytes, e.PC)
}

// --- fetch/stack primitives (spec.md §4.1) ---

// fetch8 reads the byte at PC, advances PC by one (mod 2^16), and bumps R.
func (c *CPU) fetch8() uint8 {
	v := c.Bus.ReadMem(c.PC)
	c.PC++
	c.bumpR()
	return v
}

// fetch16 reads a little-endian 16-bit value as two successive fetch8 calls.
func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

// readDisp fetches a signed 8-bit displacement (used by JR and the IX/IY
// indexed addressing forms), without an extra R bump beyond fetch8's own.
func (c *CPU) readDisp() int8 {
	return int8(c.fetch8())
}

func (c *CPU) push16(v uint16) {
	c.SP--
	c.Bus.WriteMem(c.SP, uint8(v>>8))
	c.SP--
	c.Bus.WriteMem(c.SP, uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.Bus.ReadMem(c.SP)
	c.SP++
	hi := c.Bus.ReadMem(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// Step executes one instruction, or services a pending interrupt in its
// place, and returns the T-state cost charged. It is the only operation a
// host calls in a loop.
func (c *CPU) Step() (int, error) {
	if cost, handled := c.acceptInterrupts(); handled {
		c.TStates += TStates(cost)
		return cost, nil
	}

	c.eiShadow = false

	if c.Halted {
		// HALT re-executes itself: PC does not advance, but time still
		// passes so the host's cycle budget drains.
		c.TStates += 4
		return 4, nil
	}

	startPC := c.PC
	opcode := c.fetch8()
	handler := baseTable[opcode]
	if handler == nil {
		return 0, &UnimplementedOpcodeError{Bytes: []uint8{opcode}, PC: startPC}
	}
	cost, err := handler(c)
	if err != nil {
		return 0, err
	}
	c.TStates += TStates(cost)
	return cost, nil
}

// acceptInterrupts implements spec.md §4.6. It runs before the next opcode
// fetch. NMI is unconditional; maskable IRQ requires IFF1 and is deferred by
// one step after EI.
func (c *CPU) acceptInterrupts() (cost int, handled bool) {
	if c.pendingNMI {
		c.pendingNMI = false
		c.push16(c.PC)
		c.IFF2 = c.IFF1
		c.IFF1 = false
		c.PC = 0x0066
		c.Halted = false
		return 11, true
	}

	if c.pendingIRQ && c.IFF1 && !c.eiShadow {
		c.pendingIRQ = false
		c.IFF1 = false
		c.IFF2 = false
		c.Halted = false

		switch c.IntMode {
		case IM0:
			// The bus supplies an opcode byte directly; the common case is a
			// single-byte RST or a 3-byte CALL. We only need to decode
			// whatever the data bus handed us through the normal table.
			handler := baseTable[c.dataBus]
			if handler == nil {
				return 0, false
			}
			n, err := handler(c)
			if err != nil {
				return 0, false
			}
			return n, true
		case IM1:
			c.push16(c.PC)
			c.PC = 0x0038
			return 13, true
		case IM2:
			vector := uint16(c.I)<<8 | uint16(c.dataBus)
			lo := c.Bus.ReadMem(vector)
			hi := c.Bus.ReadMem(vector + 1)
			c.push16(c.PC)
			c.PC = uint16(hi)<<8 | uint16(lo)
			return 19, true
		}
	}

	return 0, false
}
