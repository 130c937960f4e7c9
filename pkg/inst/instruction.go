package inst

import "fmt"

// Fields is the bit-field decomposition of one unprefixed opcode byte,
// laid out as xxyyyzzz with y further split into pp q:
//
//	  7 6 | 5 4 | 3 | 2 1 0
//	   x  |  p  | q |   z
//	      |    y    |
//
// All dispatch in the CPU is keyed on these fields rather than on raw bytes,
// so a new instruction group is one more case on x/z/y rather than one more
// entry per opcode.
type Fields struct {
	Opcode uint8
	X      uint8 // bits 7-6
	Y      uint8 // bits 5-3
	Z      uint8 // bits 2-0
	P      uint8 // y >> 1
	Q      uint8 // y & 1
}

// Decode splits an opcode byte into its fields. Every byte decodes.
func Decode(op uint8) Fields {
	y := (op & 0b0011_1000) >> 3
	return Fields{
		Opcode: op,
		X:      (op & 0b1100_0000) >> 6,
		Y:      y,
		Z:      op & 0b0000_0111,
		P:      y >> 1,
		Q:      y & 1,
	}
}

func (f Fields) String() string {
	return fmt.Sprintf("0x%02X{x=%d y=%d z=%d p=%d q=%d}", f.Opcode, f.X, f.Y, f.Z, f.P, f.Q)
}

// ByteOrder selects how the two operand bytes of a 16-bit immediate are
// assembled into a word.
type ByteOrder uint8

const (
	// HighFirst treats the byte after the opcode as the high byte:
	// imm = rom[pc+1]<<8 | rom[pc+2]. This is the core's default.
	HighFirst ByteOrder = iota
	// LowFirst is the little-endian order used by real Game Boy hardware.
	LowFirst
)

// Word assembles a 16-bit immediate from the two bytes following an opcode.
func (o ByteOrder) Word(first, second uint8) uint16 {
	if o == LowFirst {
		return uint16(second)<<8 | uint16(first)
	}
	return uint16(first)<<8 | uint16(second)
}

func (o ByteOrder) String() string {
	if o == LowFirst {
		return "low-first"
	}
	return "high-first"
}
