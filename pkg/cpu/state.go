package cpu

// Reg names one register of the register file.
type Reg uint8

const (
	AF Reg = iota // accumulator and flags
	BC
	DE
	HL
	SP // stack pointer
	PC // program counter

	NumRegs
)

var regNames = [NumRegs]string{"AF", "BC", "DE", "HL", "SP", "PC"}

func (r Reg) String() string {
	if r >= NumRegs {
		return "invalid"
	}
	return regNames[r]
}

// pairs is the rp table: p -> register pair.
var pairs = [4]Reg{BC, DE, HL, SP}

// RegisterFile holds the six 16-bit registers. The zero value has every
// register cleared.
type RegisterFile struct {
	regs [NumRegs]Register
}

// At returns the register named by r.
func (rf *RegisterFile) At(r Reg) (*Register, error) {
	if r >= NumRegs {
		return nil, &RegisterIndexError{Index: int(r)}
	}
	return &rf.regs[r], nil
}

// Pair maps the p field of an opcode to BC, DE, HL or SP.
func (rf *RegisterFile) Pair(p uint8) (Reg, error) {
	if int(p) >= len(pairs) {
		return 0, &RegisterIndexError{Index: int(p)}
	}
	return pairs[p], nil
}

// Flags returns the flag register (AF's lower byte).
func (rf *RegisterFile) Flags() uint8 {
	return rf.regs[AF].ReadLower()
}

// PC returns the program counter.
func (rf *RegisterFile) PC() uint16 {
	return rf.regs[PC].Read()
}

// State is a plain copy of the CPU's mutable state, suitable for
// persisting and comparing.
type State struct {
	Regs   [NumRegs]uint16
	Cycles uint64
}

// Equal returns true if two states are identical.
func (s State) Equal(o State) bool {
	return s == o
}
