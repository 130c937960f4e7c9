package cpu

// Bit positions of the condition flags in the flag register (AF's lower byte).
// Bits 0-3 are unused and always read as zero.
const (
	FlagZero      uint8 = 7 // Z
	FlagSubtract  uint8 = 6 // N
	FlagHalfCarry uint8 = 5 // H
	FlagCarry     uint8 = 4 // C
)

// Masks for the same flags, for testing a flag byte directly.
const (
	MaskZero      uint8 = 1 << FlagZero
	MaskSubtract  uint8 = 1 << FlagSubtract
	MaskHalfCarry uint8 = 1 << FlagHalfCarry
	MaskCarry     uint8 = 1 << FlagCarry
)

// Condition evaluates condition code index against a flag byte:
//
//	0 NZ  Z == 0
//	1 Z   Z == 1
//	2 NC  C == 0
//	3 C   C == 1
//
// Any other index is never taken and returns a *ConditionIndexError.
// Callers translate JR cc's y field (4-7) to index y-4 themselves.
func Condition(flags uint8, index uint8) (bool, error) {
	switch index {
	case 0:
		return flags&MaskZero == 0, nil
	case 1:
		return flags&MaskZero != 0, nil
	case 2:
		return flags&MaskCarry == 0, nil
	case 3:
		return flags&MaskCarry != 0, nil
	}
	return false, &ConditionIndexError{Index: index}
}
