// Package layout centralises the tape-offset constants every emitted
// Brainfuck fragment depends on. Nothing outside this package hand-counts
// a cell offset; a fragment takes a *Layout and derives whatever shift it
// needs from it.
package layout

// Layout describes where every semantic quantity lives on the tape and
// how wide the address/data fields are. It is immutable configuration,
// not runtime state: one value is built once and passed by pointer to
// every fragment builder.
type Layout struct {
	// Memory (array) header, starting at MemoryBase.
	SentinelWidth int // the permanently-zero "s" cell
	AddrDigits    int // digits in a memory address (i0..i_{n-1}, j0..j_{n-1})
	DataWidth     int // width of the data bus (d0..d_{n-1})
	CellWidth     int // width of one memory cell

	// Register bank, starting at RegisterBase.
	BankScratch int // leading zero cells per bank slot (the "00" in "0 0 d0 d1 d2 d3")
	BankSlots   int // number of addressable register slots
	SPIndex     int // register index used as the stack pointer
	IPIndex     int // register index used as the instruction pointer

	RegisterBase int // absolute cell offset of the register file's index cell
	MemoryBase   int // absolute cell offset of the memory region's sentinel cell
}

// HeaderWidth is the width, in cells, of the memory region's fixed header:
// sentinel + two address copies + the data bus.
func (l *Layout) HeaderWidth() int {
	return l.SentinelWidth + 2*l.AddrDigits + l.DataWidth
}

// BankSlotWidth is the width, in cells, of one register bank slot.
func (l *Layout) BankSlotWidth() int {
	return l.BankScratch + l.DataWidth
}

// RegisterFileWidth is the total width, in cells, of the register file:
// the index cell, the data-bus slot, and every register bank slot.
func (l *Layout) RegisterFileWidth() int {
	return 1 + (1+l.BankSlots)*l.BankSlotWidth()
}

// RegisterIndexCell is the absolute position of the register file's
// one-byte index cell, the home position for register operations.
func (l *Layout) RegisterIndexCell() int { return l.RegisterBase }

// BusCell is the absolute position of byte m of the register file's data
// bus (the d0..d3 cells of the slot between the index cell and r0).
func (l *Layout) BusCell(m int) int {
	return l.RegisterBase + 1 + l.BankScratch + m
}

// SlotHome is the absolute position of register slot k's first scratch
// cell. The data-bus slot sits between the index cell and slot 0.
func (l *Layout) SlotHome(k int) int {
	return l.RegisterBase + 1 + (k+1)*l.BankSlotWidth()
}

// SlotData is the absolute position of byte m of register slot k.
func (l *Layout) SlotData(k, m int) int {
	return l.SlotHome(k) + l.BankScratch + m
}

// IndexCell is the absolute position of memory address digit i_d.
func (l *Layout) IndexCell(d int) int {
	return l.MemoryBase + l.SentinelWidth + d
}

// IndexCopyCell is the absolute position of memory address digit j_d.
func (l *Layout) IndexCopyCell(d int) int {
	return l.MemoryBase + l.SentinelWidth + l.AddrDigits + d
}

// DataCell is the absolute position of byte m of the memory data bus.
func (l *Layout) DataCell(m int) int {
	return l.MemoryBase + l.SentinelWidth + 2*l.AddrDigits + m
}

// CellPos is the absolute position of byte 0 of memory cell a, with the
// header parked at its home position.
func (l *Layout) CellPos(a int) int {
	return l.MemoryBase + l.HeaderWidth() + l.CellWidth*a
}

// Default is the machine's concrete layout: an 11-cell memory
// header (s + 3-digit i + 3-digit j + 4-byte d), 4-byte memory cells,
// sixteen 6-cell register bank slots with r14 as SP and r15 as IP, the
// register file sixteen cells from tape origin and the memory region
// starting at cell 128.
var Default = &Layout{
	SentinelWidth: 1,
	AddrDigits:    3,
	DataWidth:     4,
	CellWidth:     4,

	BankScratch: 2,
	BankSlots:   16,
	SPIndex:     14,
	IPIndex:     15,

	RegisterBase: 16,
	MemoryBase:   128,
}
