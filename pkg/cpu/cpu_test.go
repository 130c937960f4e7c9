package cpu

import (
	"errors"
	"testing"

	"github.com/oisee/gb-core/pkg/inst"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepErrors(t *testing.T) {
	tests := []struct {
		name    string
		rom     []byte
		pc      uint16
		want    error
		target  int
		imgSize int
	}{
		{"stop", []byte{0x10, 0x00}, 0, ErrUnimplementedOpcode, -1, 2},
		{"x=1 halt", []byte{0x76}, 0, ErrUnimplementedOpcode, -1, 1},
		{"x=0 z=2", []byte{0x02}, 0, ErrUnimplementedOpcode, -1, 1},
		{"jp nn", []byte{0xC3, 0x00, 0x00}, 0, ErrUnimplementedOpcode, -1, 3},
		{"illegal", []byte{0x00, 0xD3}, 1, ErrInvalidOpcode, -1, 2},
		{"pc past end", []byte{0x00}, 1, ErrProgramCounterOutOfBounds, 1, 1},
		{"empty image", nil, 0, ErrProgramCounterOutOfBounds, 0, 0},
		{"truncated ld", []byte{0x00, 0x21, 0x12}, 1, ErrProgramCounterOutOfBounds, 3, 3},
		{"truncated jr", []byte{0x18}, 0, ErrProgramCounterOutOfBounds, 1, 1},
		{"jr past end", []byte{0x18, 0x10}, 0, ErrProgramCounterOutOfBounds, 0x10, 2},
		{"jr before start", []byte{0x00, 0x18, 0xFD}, 1, ErrProgramCounterOutOfBounds, 0xFFFE, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCpu(t, tc.rom, tc.pc, inst.HighFirst)
			c.regs.regs[HL].Write(0x1234)
			before := c.State()

			res, err := c.Step()
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, Result{}, res)

			var se *StepError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tc.pc, se.PC)
			assert.Equal(t, tc.target, se.Target)
			assert.Equal(t, tc.imgSize, se.ImageLen)
			assert.NotEmpty(t, se.Error())

			assert.True(t, before.Equal(c.State()), "state changed on error")
		})
	}
}

func TestStepErrorFields(t *testing.T) {
	c := newTestCpu(t, []byte{0x10, 0x00}, 0, inst.HighFirst)
	_, err := c.Step()
	var se *StepError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, uint8(0x10), se.Opcode)
	assert.Equal(t, inst.Decode(0x10), se.Fields)
	assert.Contains(t, se.Error(), "unimplemented opcode")
	assert.Contains(t, se.Error(), "y=2")
}

// TestProgramCounterOverflow runs a NOP at 0xFFFF so PC wraps to 0.
func TestProgramCounterOverflow(t *testing.T) {
	rom := make([]byte, 0x10000)
	c := newTestCpu(t, rom, 0xFFFF, inst.HighFirst)

	res, err := c.Step()
	assert.ErrorIs(t, err, ErrProgramCounterOverflow)
	assert.Equal(t, "NOP", res.Mnemonic)
	assert.Equal(t, uint16(0), c.regs.PC())
	assert.Equal(t, uint64(4), c.Cycles())
}

func TestCondition(t *testing.T) {
	tests := []struct {
		flags uint8
		index uint8
		want  bool
	}{
		{0x00, 0, true},
		{MaskZero, 0, false},
		{MaskZero, 1, true},
		{0x00, 1, false},
		{0x00, 2, true},
		{MaskCarry, 2, false},
		{MaskCarry, 3, true},
		{MaskZero, 3, false},
	}
	for _, tc := range tests {
		got, err := Condition(tc.flags, tc.index)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "cc[%d] with F=%08b", tc.index, tc.flags)
	}

	got, err := Condition(0xFF, 4)
	assert.False(t, got)
	assert.ErrorIs(t, err, ErrConditionIndexOutOfRange)
}

func TestRegisterFileLookup(t *testing.T) {
	var rf RegisterFile
	for r := AF; r < NumRegs; r++ {
		reg, err := rf.At(r)
		require.NoError(t, err)
		reg.Write(uint16(r) + 1)
	}
	assert.Equal(t, uint16(PC)+1, rf.PC())

	_, err := rf.At(NumRegs)
	assert.ErrorIs(t, err, ErrRegisterIndexOutOfRange)
	assert.Equal(t, "invalid", NumRegs.String())

	for p, want := range []Reg{BC, DE, HL, SP} {
		got, err := rf.Pair(uint8(p))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err = rf.Pair(4)
	var rie *RegisterIndexError
	require.ErrorAs(t, err, &rie)
	assert.Equal(t, 4, rie.Index)
	assert.True(t, errors.Is(err, ErrRegisterIndexOutOfRange))
}

func TestStateRestoreReset(t *testing.T) {
	c := newTestCpu(t, []byte{0x21, 0xBE, 0xEF, 0x00}, 0, inst.HighFirst)
	_, err := c.Step()
	require.NoError(t, err)
	saved := c.State()
	assert.Equal(t, uint16(0xBEEF), saved.Regs[HL])
	assert.Equal(t, uint16(3), saved.Regs[PC])
	assert.Equal(t, uint64(12), saved.Cycles)

	c.Reset()
	assert.Equal(t, State{}, c.State())

	other := New(c.Image(), Config{})
	other.Restore(saved)
	assert.True(t, saved.Equal(other.State()))
	_, err = other.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(4), other.Registers().PC())
}

func TestImageIsCopied(t *testing.T) {
	rom := []byte{0x00}
	c := New(rom, Config{})
	rom[0] = 0x10
	_, err := c.Step()
	assert.NoError(t, err)
}

func TestString(t *testing.T) {
	c := newTestCpu(t, []byte{0x00, 0x00}, 0, inst.HighFirst)
	c.regs.regs[AF].Write(0x0180)
	c.regs.regs[BC].Write(0x0013)
	c.regs.regs[DE].Write(0x00D8)
	c.regs.regs[HL].Write(0x014D)
	c.regs.regs[SP].Write(0xFFFE)
	_, err := c.Step()
	require.NoError(t, err)

	want := "== Cycle 4 ==\n" +
		"ROM: 2 bytes\n" +
		"Registers\n" +
		"AF: 1 128\n" +
		"BC: 0 19\n" +
		"DE: 0 216\n" +
		"HL: 1 77\n" +
		"stack_pointer: 65534\n" +
		"program_counter: 1\n"
	assert.Equal(t, want, c.String())
}

func TestStepLogs(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	c := New([]byte{0x20, 0x02, 0x00}, Config{Logger: log})
	c.regs.regs[AF].WriteLower(MaskZero)

	_, err := c.Step()
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "step", entry.Message)
	assert.Equal(t, "0x0000", entry.Data["pc"])
	assert.Equal(t, "0x20", entry.Data["opcode"])
	assert.Equal(t, "JR NZ, d", entry.Data["insn"])
	assert.Equal(t, 8, entry.Data["cycles"])

	var sawFallThrough bool
	for _, e := range hook.AllEntries() {
		if e.Message == "JR condition not satisfied" {
			sawFallThrough = true
			assert.Equal(t, "NZ", e.Data["cc"])
		}
	}
	assert.True(t, sawFallThrough)
}

// TestIndependentCpus steps many CPUs over one shared image concurrently.
func TestIndependentCpus(t *testing.T) {
	rom := []byte{0x01, 0x00, 0x01, 0x09, 0x18, 0xFC}
	done := make(chan State)
	for i := 0; i < 8; i++ {
		go func() {
			c := New(rom, Config{Logger: logrus.New()})
			for j := 0; j < 3; j++ {
				if _, err := c.Step(); err != nil {
					t.Error(err)
				}
			}
			done <- c.State()
		}()
	}
	for i := 0; i < 8; i++ {
		s := <-done
		assert.Equal(t, uint16(0x0001), s.Regs[HL])
		assert.Equal(t, uint16(0), s.Regs[PC])
	}
}
