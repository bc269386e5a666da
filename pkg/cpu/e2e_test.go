package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// End-to-end scenario tests, one per documented walkthrough: a short
// program, a handful of Step calls, and the resulting architectural state.

func TestScenarioSimpleLoadChain(t *testing.T) {
	c, m := newTestCPU()
	m.load(0, 0x3E, 0x42, 0x47, 0xB8) // LD A,0x42 ; LD B,A ; CP B

	cost, err := c.Step()
	require.NoError(t, err)
	require.Equal(t, 7, cost)
	require.EqualValues(t, 0x42, c.A)

	cost, err = c.Step()
	require.NoError(t, err)
	require.Equal(t, 4, cost)
	require.EqualValues(t, 0x42, c.B)

	cost, err = c.Step()
	require.NoError(t, err)
	require.Equal(t, 4, cost)
	require.NotZero(t, c.F&FlagZ, "CP B against equal A,B should set Z")
	require.NotZero(t, c.F&FlagN, "CP always sets N")
}

func TestScenarioLDIRBlockCopy(t *testing.T) {
	c, m := newTestCPU()
	m.load(0x1000, 0x11, 0x22, 0x33)
	m.load(0, 0xED, 0xB0)
	c.SetHL(0x1000)
	c.SetDE(0x2000)
	c.SetBC(0x0003)

	cost, err := c.Step()
	require.NoError(t, err)
	require.Equal(t, 21, cost)
	require.EqualValues(t, 0x11, m.ram[0x2000])
	require.EqualValues(t, 0x1001, c.HL())
	require.EqualValues(t, 0x2001, c.DE())
	require.EqualValues(t, 0x0002, c.BC())
	require.EqualValues(t, 0x0000, c.PC)

	for c.BC() != 0 {
		_, err := c.Step()
		require.NoError(t, err)
	}

	require.EqualValues(t, 0x11, m.ram[0x2000])
	require.EqualValues(t, 0x22, m.ram[0x2001])
	require.EqualValues(t, 0x33, m.ram[0x2002])
	require.Zero(t, c.F&FlagP, "LDIR should leave P/V clear once BC reaches 0")
	require.EqualValues(t, 0x0002, c.PC, "final iteration falls through instead of rewinding")
}

func TestScenarioCallReturn(t *testing.T) {
	c, m := newTestCPU()
	c.SP = 0xFFFE
	m.load(0, 0xCD, 0x06, 0x00, 0x76, 0x00, 0x00, 0xC9) // CALL 0x0006 ; HALT ; .. ; RET

	cost, err := c.Step()
	require.NoError(t, err)
	require.Equal(t, 17, cost)
	require.EqualValues(t, 0x0006, c.PC)
	require.EqualValues(t, 0xFFFC, c.SP)
	require.EqualValues(t, 0x03, m.ram[0xFFFC])
	require.EqualValues(t, 0x00, m.ram[0xFFFD])

	cost, err = c.Step() // RET
	require.NoError(t, err)
	require.Equal(t, 10, cost)
	require.EqualValues(t, 0x0003, c.PC)
	require.EqualValues(t, 0xFFFE, c.SP)

	cost, err = c.Step() // HALT
	require.NoError(t, err)
	require.Equal(t, 4, cost)
	require.True(t, c.Halted)
	require.EqualValues(t, 0x0003, c.PC)
}

func TestScenarioInterruptIM2(t *testing.T) {
	c, m := newTestCPU()
	c.I = 0x10
	c.SetDataBus(0x40)
	m.load(0x1040, 0x80, 0x20) // vector -> 0x2080, little-endian
	c.IFF1 = true
	c.IFF2 = true
	c.IntMode = IM2
	c.SP = 0xFFFE
	c.PC = 0x0050
	c.Interrupt()

	cost, err := c.Step()
	require.NoError(t, err)
	require.Equal(t, 19, cost)
	require.False(t, c.IFF1)
	require.False(t, c.IFF2)
	require.EqualValues(t, 0x2080, c.PC)
	require.EqualValues(t, 0x0050, uint16(m.ram[0xFFFC])|uint16(m.ram[0xFFFD])<<8)
}

func TestScenarioDAAAfterBCDAdd(t *testing.T) {
	c, _ := newTestCPU()
	c.A = 0x15
	c.aluAdd(0x27)
	require.EqualValues(t, 0x3C, c.A)
	require.Zero(t, c.F&FlagH)
	require.Zero(t, c.F&FlagC)

	c.aluDaa()
	require.EqualValues(t, 0x42, c.A)
	require.Zero(t, c.F&FlagC)
	require.Zero(t, c.F&FlagN)
	require.NotZero(t, c.F&FlagP)
}

func TestScenarioHalfCarryOnIncDec(t *testing.T) {
	c, _ := newTestCPU()
	c.A = 0x0F
	c.aluInc(&c.A)
	require.EqualValues(t, 0x10, c.A)
	require.NotZero(t, c.F&FlagH)
	require.Zero(t, c.F&FlagZ)
	require.Zero(t, c.F&FlagN)
	require.Zero(t, c.F&FlagV)
	require.Zero(t, c.F&FlagS)

	c.aluDec(&c.A)
	require.EqualValues(t, 0x0F, c.A)
	require.NotZero(t, c.F&FlagH)
	require.Zero(t, c.F&FlagZ)
	require.NotZero(t, c.F&FlagN)
}
