package cpu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oisee/gb-core/pkg/inst"
	"github.com/sirupsen/logrus"
)

// Config holds CPU configuration. The zero value is ready to use.
type Config struct {
	ByteOrder inst.ByteOrder     // operand order of 16-bit immediates
	Logger    logrus.FieldLogger // nil means logrus.StandardLogger()
}

// Result describes one completed Step.
type Result struct {
	PC       uint16 // address of the opcode
	Opcode   uint8
	Fields   inst.Fields
	Mnemonic string
	Delta    uint16 // bytes added to PC after the handler; 0 if the handler wrote PC
	Cycles   int
}

// Cpu owns a register file and a program image and executes one
// instruction per Step. A Cpu is not safe for concurrent use; independent
// Cpus share nothing.
type Cpu struct {
	regs   RegisterFile
	rom    []byte
	cycles uint64
	cfg    Config
	log    logrus.FieldLogger
}

// New creates a Cpu with all registers cleared. The image is copied.
func New(image []byte, cfg Config) *Cpu {
	rom := make([]byte, len(image))
	copy(rom, image)
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	c := &Cpu{rom: rom, cfg: cfg, log: log}
	if len(rom) >= 3 {
		log.WithField("size", len(rom)).Debugf("loaded ROM (byte preview): 0x%02X 0x%02X 0x%02X", rom[0], rom[1], rom[2])
	}
	return c
}

// Registers returns the register file. Callers may mutate it between steps.
func (c *Cpu) Registers() *RegisterFile {
	return &c.regs
}

// Image returns the program image. It must not be modified.
func (c *Cpu) Image() []byte {
	return c.rom
}

// Cycles returns the number of clock cycles spent so far.
func (c *Cpu) Cycles() uint64 {
	return c.cycles
}

// Reset clears all registers and the cycle counter.
func (c *Cpu) Reset() {
	c.regs = RegisterFile{}
	c.cycles = 0
}

// State returns a copy of the registers and cycle counter.
func (c *Cpu) State() State {
	var s State
	for i := range c.regs.regs {
		s.Regs[i] = c.regs.regs[i].Read()
	}
	s.Cycles = c.cycles
	return s
}

// Restore loads registers and cycle counter from s.
func (c *Cpu) Restore(s State) {
	for i := range c.regs.regs {
		c.regs.regs[i].Write(s.Regs[i])
	}
	c.cycles = s.Cycles
}

// Step decodes and executes the instruction at PC.
//
// On error the returned *StepError says why. Decode errors and
// out-of-bounds errors leave the CPU untouched. ErrProgramCounterOverflow
// is reported after the instruction completed and PC wrapped past 0xFFFF;
// the returned Result is valid in that case.
func (c *Cpu) Step() (Result, error) {
	pc := c.regs.PC()
	if int(pc) >= len(c.rom) {
		return Result{}, &StepError{PC: pc, ImageLen: len(c.rom), Target: int(pc), Err: ErrProgramCounterOutOfBounds}
	}

	opcode := c.rom[pc]
	f := inst.Decode(opcode)
	fail := func(err error) (Result, error) {
		se := &StepError{Target: -1, Err: err}
		errors.As(err, &se)
		se.PC, se.Opcode, se.Fields, se.ImageLen = pc, opcode, f, len(c.rom)
		return Result{}, se
	}

	h, err := dispatch(f)
	if err != nil {
		return fail(err)
	}
	info, ok := inst.Lookup(opcode)
	if !ok {
		return fail(ErrUnimplementedOpcode)
	}
	if last := int(pc) + info.Size - 1; last >= len(c.rom) {
		return fail(&StepError{Target: last, Err: ErrProgramCounterOutOfBounds})
	}

	delta, cycles, err := h(c, op{pc: pc, f: f, info: info})
	if err != nil {
		return fail(err)
	}
	c.cycles += uint64(cycles)

	res := Result{
		PC:       pc,
		Opcode:   opcode,
		Fields:   f,
		Mnemonic: info.Mnemonic,
		Delta:    delta,
		Cycles:   cycles,
	}
	c.log.WithFields(logrus.Fields{
		"pc":     fmt.Sprintf("0x%04X", pc),
		"opcode": fmt.Sprintf("0x%02X", opcode),
		"insn":   info.Mnemonic,
		"cycles": cycles,
	}).Debug("step")

	if c.regs.regs[PC].Increment(delta).Carry {
		return res, &StepError{
			PC: pc, Opcode: opcode, Fields: f, ImageLen: len(c.rom), Target: -1,
			Err: ErrProgramCounterOverflow,
		}
	}
	return res, nil
}

// String dumps the CPU state: cycle count, ROM size, the upper and lower
// bytes of AF, BC, DE and HL, then SP and PC.
func (c *Cpu) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "== Cycle %d ==\n", c.cycles)
	fmt.Fprintf(&b, "ROM: %d bytes\n", len(c.rom))
	b.WriteString("Registers\n")
	for _, r := range []Reg{AF, BC, DE, HL} {
		fmt.Fprintf(&b, "%s: %d %d\n", r, c.regs.regs[r].ReadUpper(), c.regs.regs[r].ReadLower())
	}
	fmt.Fprintf(&b, "stack_pointer: %d\n", c.regs.regs[SP].Read())
	fmt.Fprintf(&b, "program_counter: %d\n", c.regs.regs[PC].Read())
	return b.String()
}
