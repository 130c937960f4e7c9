package cpu

import (
	"errors"
	"fmt"

	"github.com/oisee/gb-core/pkg/inst"
)

// Sentinel errors. Every error returned by this package matches exactly one
// of these with errors.Is.
var (
	ErrInvalidOpcode             = errors.New("invalid opcode")
	ErrUnimplementedOpcode       = errors.New("unimplemented opcode")
	ErrRegisterIndexOutOfRange   = errors.New("register index out of range")
	ErrBitIndexOutOfRange        = errors.New("bit index out of range")
	ErrConditionIndexOutOfRange  = errors.New("condition index out of range")
	ErrProgramCounterOutOfBounds = errors.New("program counter out of bounds")
	ErrProgramCounterOverflow    = errors.New("program counter overflow")
)

// BitIndexError is returned by the Register bit operations. The register is
// left unchanged.
type BitIndexError struct {
	Index uint8
	Max   uint8
}

func (e *BitIndexError) Error() string {
	return fmt.Sprintf("bit index %d out of range 0-%d", e.Index, e.Max)
}

func (e *BitIndexError) Unwrap() error { return ErrBitIndexOutOfRange }

// RegisterIndexError is returned when a register or register-pair index
// does not name a register.
type RegisterIndexError struct {
	Index int
}

func (e *RegisterIndexError) Error() string {
	return fmt.Sprintf("register index %d out of range", e.Index)
}

func (e *RegisterIndexError) Unwrap() error { return ErrRegisterIndexOutOfRange }

// ConditionIndexError is returned by Condition for an index outside 0-3.
type ConditionIndexError struct {
	Index uint8
}

func (e *ConditionIndexError) Error() string {
	return fmt.Sprintf("condition index %d out of range 0-3", e.Index)
}

func (e *ConditionIndexError) Unwrap() error { return ErrConditionIndexOutOfRange }

// StepError describes why a Step did not complete. Err is one of the
// sentinel errors (or a wrapped typed error) and is exposed through Unwrap.
type StepError struct {
	PC       uint16
	Opcode   uint8
	Fields   inst.Fields
	ImageLen int
	Target   int // offending address for out-of-bounds errors, -1 otherwise
	Err      error
}

func (e *StepError) Error() string {
	switch {
	case errors.Is(e.Err, ErrProgramCounterOutOfBounds):
		return fmt.Sprintf("pc=0x%04X: %v: address 0x%04X, image is %d bytes", e.PC, e.Err, e.Target, e.ImageLen)
	case errors.Is(e.Err, ErrUnimplementedOpcode):
		return fmt.Sprintf("pc=0x%04X: %v %s", e.PC, e.Err, e.Fields)
	}
	return fmt.Sprintf("pc=0x%04X opcode=0x%02X: %v", e.PC, e.Opcode, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
