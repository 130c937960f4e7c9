package cpu

// CarryState reports what an arithmetic register op carried out.
type CarryState struct {
	Carry     bool // result did not fit in 16 bits
	HalfCarry bool // nibble carry, see Increment
}

// Register is a 16-bit storage cell addressable as a word or as two bytes.
// The zero value is a register holding 0.
type Register struct {
	value uint16
}

// Read returns the full word.
func (r *Register) Read() uint16 {
	return r.value
}

// ReadUpper returns the most-significant byte.
func (r *Register) ReadUpper() uint8 {
	return uint8(r.value >> 8)
}

// ReadLower returns the least-significant byte.
func (r *Register) ReadLower() uint8 {
	return uint8(r.value)
}

// Write replaces the full word.
func (r *Register) Write(v uint16) {
	r.value = v
}

// WriteUpper replaces the most-significant byte, leaving the lower one intact.
func (r *Register) WriteUpper(v uint8) {
	r.value = r.value&0x00FF | uint16(v)<<8
}

// WriteLower replaces the least-significant byte, leaving the upper one intact.
func (r *Register) WriteLower(v uint8) {
	r.value = r.value&0xFF00 | uint16(v)
}

// Bit reports whether absolute bit i (0-15) is set. Out-of-range bits read as 0.
func (r *Register) Bit(i uint8) bool {
	if i > 15 {
		return false
	}
	return r.value&(1<<i) != 0
}

// SetBit sets absolute bit i (0-15).
func (r *Register) SetBit(i uint8) error {
	if i > 15 {
		return &BitIndexError{Index: i, Max: 15}
	}
	r.value |= 1 << i
	return nil
}

// ClearBit clears absolute bit i (0-15).
func (r *Register) ClearBit(i uint8) error {
	if i > 15 {
		return &BitIndexError{Index: i, Max: 15}
	}
	r.value &^= 1 << i
	return nil
}

// SetBitUpper sets bit i (0-7) of the upper byte.
func (r *Register) SetBitUpper(i uint8) error {
	if i > 7 {
		return &BitIndexError{Index: i, Max: 7}
	}
	return r.SetBit(i + 8)
}

// SetBitLower sets bit i (0-7) of the lower byte.
func (r *Register) SetBitLower(i uint8) error {
	if i > 7 {
		return &BitIndexError{Index: i, Max: 7}
	}
	return r.SetBit(i)
}

// ClearBitUpper clears bit i (0-7) of the upper byte.
func (r *Register) ClearBitUpper(i uint8) error {
	if i > 7 {
		return &BitIndexError{Index: i, Max: 7}
	}
	return r.ClearBit(i + 8)
}

// ClearBitLower clears bit i (0-7) of the lower byte.
func (r *Register) ClearBitLower(i uint8) error {
	if i > 7 {
		return &BitIndexError{Index: i, Max: 7}
	}
	return r.ClearBit(i)
}

// Increment adds delta, wrapping modulo 2^16.
//
// The half-carry is taken from the low nibble of the register's upper byte
// (before the add) and the low nibble of delta's low byte: it is set when
// those two nibbles carry into bit 4. This is not the hardware H rule for
// 8-bit ALU ops; ADD HL,rr depends on it as-is.
func (r *Register) Increment(delta uint16) CarryState {
	upper := r.ReadUpper()
	cs := CarryState{
		Carry:     uint32(r.value)+uint32(delta) > 0xFFFF,
		HalfCarry: ((upper&0x0F)+(uint8(delta)&0x0F))&0x10 == 0x10,
	}
	r.value += delta
	return cs
}

// Decrement subtracts delta, wrapping modulo 2^16. Carry reports a borrow;
// HalfCarry mirrors Increment with a nibble borrow.
func (r *Register) Decrement(delta uint16) CarryState {
	upper := r.ReadUpper()
	cs := CarryState{
		Carry:     delta > r.value,
		HalfCarry: ((upper&0x0F)-(uint8(delta)&0x0F))&0x10 == 0x10,
	}
	r.value -= delta
	return cs
}
