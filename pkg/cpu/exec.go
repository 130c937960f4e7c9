package cpu

import (
	"github.com/oisee/gb-core/pkg/inst"
	"github.com/sirupsen/logrus"
)

// op is what a handler knows about the instruction it is executing.
type op struct {
	pc   uint16
	f    inst.Fields
	info inst.Info
}

// handler executes one instruction. It returns the number of bytes to
// advance PC by (0 when the handler wrote PC itself) and the cycles spent.
type handler func(c *Cpu, o op) (delta uint16, cycles int, err error)

// dispatch selects the handler for an opcode from its fields, following the
// x/z/y/q tables of the unprefixed opcode map.
func dispatch(f inst.Fields) (handler, error) {
	switch f.X {
	case 0:
		switch f.Z {
		case 0:
			switch f.Y {
			case 0:
				return nop, nil
			case 1:
				return ldSPImm, nil
			case 2:
				// STOP
				return nil, ErrUnimplementedOpcode
			case 3:
				return jr, nil
			default:
				return jrCond, nil
			}
		case 1:
			if f.Q == 0 {
				return ldPairImm, nil
			}
			return addHLPair, nil
		}
	}
	if inst.Illegal(f.Opcode) {
		return nil, ErrInvalidOpcode
	}
	return nil, ErrUnimplementedOpcode
}

func nop(c *Cpu, o op) (uint16, int, error) {
	return 1, o.info.Cycles, nil
}

// imm16 reads the 16-bit immediate following the opcode at pc.
func (c *Cpu) imm16(pc uint16) uint16 {
	i := int(pc)
	return c.cfg.ByteOrder.Word(c.rom[i+1], c.rom[i+2])
}

// loadImm writes the immediate operand into register r.
func (c *Cpu) loadImm(o op, r Reg) (uint16, int, error) {
	reg, err := c.regs.At(r)
	if err != nil {
		c.log.WithError(err).Warn("register lookup failed")
		return 0, 0, err
	}
	imm := c.imm16(o.pc)
	reg.Write(imm)
	c.log.WithFields(logrus.Fields{"reg": r, "imm": imm}).Debug("LD rr, nn")
	return uint16(o.info.Size), o.info.Cycles, nil
}

// ldSPImm is LD SP, nn in the z=0 column.
func ldSPImm(c *Cpu, o op) (uint16, int, error) {
	return c.loadImm(o, SP)
}

// ldPairImm is LD rp[p], nn.
func ldPairImm(c *Cpu, o op) (uint16, int, error) {
	r, err := c.regs.Pair(o.f.P)
	if err != nil {
		c.log.WithError(err).WithField("p", o.f.P).Warn("rp lookup failed")
		return 0, 0, err
	}
	return c.loadImm(o, r)
}

// jr moves PC by the signed displacement after the opcode. PC is relative
// to the opcode itself, not to the following instruction.
func jr(c *Cpu, o op) (uint16, int, error) {
	d := int8(c.rom[int(o.pc)+1])
	target := o.pc + uint16(int16(d))
	if int(target) >= len(c.rom) {
		return 0, 0, &StepError{Target: int(target), Err: ErrProgramCounterOutOfBounds}
	}
	c.regs.regs[PC].Write(target)
	c.log.WithFields(logrus.Fields{"d": d, "target": target}).Debug("JR")
	return 0, o.info.Cycles, nil
}

// jrCond is JR cc[y-4], d. A jump not taken falls through to the next
// instruction.
func jrCond(c *Cpu, o op) (uint16, int, error) {
	if o.f.Y < 4 || o.f.Y > 7 {
		return 0, 0, ErrInvalidOpcode
	}
	taken, err := Condition(c.regs.Flags(), o.f.Y-4)
	if err != nil {
		c.log.WithError(err).Warn("condition lookup failed")
		return 0, 0, err
	}
	if taken {
		return jr(c, o)
	}
	c.log.WithField("cc", inst.CondNames[o.f.Y-4]).Debug("JR condition not satisfied")
	return uint16(o.info.Size), o.info.CyclesNotTaken, nil
}

// addHLPair is ADD HL, rp[p]. N is cleared, H and C are set when the add
// carries and otherwise keep their previous value, Z is not touched.
func addHLPair(c *Cpu, o op) (uint16, int, error) {
	r, err := c.regs.Pair(o.f.P)
	if err != nil {
		c.log.WithError(err).WithField("p", o.f.P).Warn("rp lookup failed")
		return 0, 0, err
	}
	operand := c.regs.regs[r].Read()
	cs := c.regs.regs[HL].Increment(operand)

	af := &c.regs.regs[AF]
	if err := af.ClearBitLower(FlagSubtract); err != nil {
		c.log.WithError(err).Warn("flag update rejected")
		return 0, 0, err
	}
	if cs.HalfCarry {
		if err := af.SetBitLower(FlagHalfCarry); err != nil {
			c.log.WithError(err).Warn("flag update rejected")
			return 0, 0, err
		}
	}
	if cs.Carry {
		if err := af.SetBitLower(FlagCarry); err != nil {
			c.log.WithError(err).Warn("flag update rejected")
			return 0, 0, err
		}
	}
	c.log.WithFields(logrus.Fields{
		"rp":         r,
		"hl":         c.regs.regs[HL].Read(),
		"half_carry": cs.HalfCarry,
		"carry":      cs.Carry,
	}).Debug("ADD HL, rr")
	return uint16(o.info.Size), o.info.Cycles, nil
}
