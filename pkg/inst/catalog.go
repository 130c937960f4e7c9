package inst

import (
	"fmt"
	"strings"
)

// Info holds static metadata for an opcode byte the core knows how to run.
type Info struct {
	Mnemonic       string // Assembly template; "nn" is a 16-bit immediate, "d" a signed displacement
	Size           int    // Length in bytes including operands
	Cycles         int    // Clock cycles (branch taken, for conditional forms)
	CyclesNotTaken int    // Clock cycles when a conditional branch falls through; 0 otherwise
}

// Conditional reports whether the instruction has a fall-through path.
func (i Info) Conditional() bool {
	return i.CyclesNotTaken != 0
}

// Catalog maps each opcode byte to its Info. Zero entries are opcodes
// outside the implemented subset.
var Catalog [256]Info

// CondNames indexes the cc table: y-4 for JR cc.
var CondNames = [4]string{"NZ", "Z", "NC", "C"}

// PairNames indexes the rp table by p.
var PairNames = [4]string{"BC", "DE", "HL", "SP"}

// illegal lists the Game Boy opcode holes. They lock up real hardware.
var illegal = map[uint8]bool{
	0xD3: true, 0xDB: true, 0xDD: true,
	0xE3: true, 0xE4: true, 0xEB: true, 0xEC: true, 0xED: true,
	0xF4: true, 0xFC: true, 0xFD: true,
}

// Illegal reports whether op is one of the opcodes with no instruction at all.
func Illegal(op uint8) bool {
	return illegal[op]
}

// Lookup returns the catalog entry for op.
func Lookup(op uint8) (Info, bool) {
	info := Catalog[op]
	return info, info.Size != 0
}

func init() {
	// x=0, z=0
	Catalog[0x00] = Info{Mnemonic: "NOP", Size: 1, Cycles: 4}
	Catalog[0x08] = Info{Mnemonic: "LD SP, nn", Size: 3, Cycles: 12}
	Catalog[0x18] = Info{Mnemonic: "JR d", Size: 2, Cycles: 12}
	for cc := uint8(0); cc < 4; cc++ {
		op := 0x20 | cc<<3
		Catalog[op] = Info{
			Mnemonic:       "JR " + CondNames[cc] + ", d",
			Size:           2,
			Cycles:         12,
			CyclesNotTaken: 8,
		}
	}

	// x=0, z=1
	for p := uint8(0); p < 4; p++ {
		Catalog[p<<4|0x01] = Info{Mnemonic: "LD " + PairNames[p] + ", nn", Size: 3, Cycles: 12}
		Catalog[p<<4|0x09] = Info{Mnemonic: "ADD HL, " + PairNames[p], Size: 1, Cycles: 8}
	}
}

// knownNames covers opcodes the disassembler can name even though the
// core does not execute them yet.
var knownNames = map[uint8]string{
	0x10: "STOP",
	0x76: "HALT",
	0xCB: "PREFIX CB",
	0xF3: "DI",
	0xFB: "EI",
}

// Disassemble renders the instruction at the start of code. It returns the
// text and the number of bytes consumed (at least 1 for non-empty code).
// Opcodes outside the catalog, and catalog entries whose operands run past
// the end of code, render as a DB directive for one byte.
func Disassemble(code []byte, order ByteOrder) (string, int) {
	if len(code) == 0 {
		return "", 0
	}
	op := code[0]
	info, ok := Lookup(op)
	if !ok || len(code) < info.Size {
		if name, known := knownNames[op]; known {
			return fmt.Sprintf("DB 0x%02X ; %s", op, name), 1
		}
		if Illegal(op) {
			return fmt.Sprintf("DB 0x%02X ; illegal", op), 1
		}
		return fmt.Sprintf("DB 0x%02X", op), 1
	}

	switch {
	case strings.HasSuffix(info.Mnemonic, "nn"):
		imm := order.Word(code[1], code[2])
		return strings.TrimSuffix(info.Mnemonic, "nn") + fmt.Sprintf("0x%04X", imm), info.Size
	case strings.HasSuffix(info.Mnemonic, "d"):
		return strings.TrimSuffix(info.Mnemonic, "d") + fmt.Sprintf("%+d", int8(code[1])), info.Size
	}
	return info.Mnemonic, info.Size
}

// Line is one row of a disassembly listing.
type Line struct {
	Addr  int
	Bytes []byte
	Text  string
}

func (l Line) String() string {
	hex := make([]string, len(l.Bytes))
	for i, b := range l.Bytes {
		hex[i] = fmt.Sprintf("%02X", b)
	}
	return fmt.Sprintf("0x%04X  %-9s %s", l.Addr, strings.Join(hex, " "), l.Text)
}

// Listing performs a linear sweep over image starting at offset, producing
// at most count lines (count <= 0 means until the end of image).
func Listing(image []byte, offset, count int, order ByteOrder) []Line {
	var lines []Line
	for addr := offset; addr >= 0 && addr < len(image); {
		if count > 0 && len(lines) == count {
			break
		}
		text, n := Disassemble(image[addr:], order)
		lines = append(lines, Line{Addr: addr, Bytes: image[addr : addr+n], Text: text})
		addr += n
	}
	return lines
}
