package vmgen

import (
	"bfvm/internal/asm"
	"bfvm/internal/layout"
)

// Incr builds the four-byte little-endian carry-chain increment
// fragment. Its contract: cursor on the first of a bank slot's two
// scratch zero cells ("0 0 x0 x1 x2 x3"), the four data cells holding a
// little-endian uint32; postcondition is the same layout with the value
// incremented modulo 2^32 and the scratch cells zeroed again. Both the SP
// advance in the loader and the IP advance in the dispatch loop are this
// same fragment applied to a different register slot.
//
// The two leading scratch cells are reused for every digit's carry test
// in turn rather than allocated per digit; the carry logic is wired
// directly to a 2-cell scratch pair and panics on any other width.
func Incr(l *layout.Layout) asm.Node {
	return incrWidth(l, l.DataWidth)
}

// IncrAddr is the same carry chain over an address-digit-wide integer.
// The dispatch loop uses it to step a memory address to an operand byte:
// the two free cells immediately before the memory region (the last cell
// of the gap after the register file, plus the sentinel itself) serve as
// the scratch pair, with the i digits as the number.
func IncrAddr(l *layout.Layout) asm.Node {
	return incrWidth(l, l.AddrDigits)
}

func incrWidth(l *layout.Layout, width int) asm.Node {
	if l.BankScratch != 2 {
		panic("vmgen: incr requires a 2-cell scratch pair")
	}
	digitPos := func(i int) int { return l.BankScratch + i }

	b := asm.NewBuilderAt(0)
	carryDigit(b, digitPos, 0, width, 0)
	return b.Node()
}

// carryDigit increments the digit at digitPos(i) and, unless it is the
// most significant byte, tests whether it wrapped to zero and propagates
// a carry into digit i+1. bld may be positioned anywhere when called; it
// ends at returnTo.
//
// The wrap test copies the post-increment digit into the two shared
// scratch cells (draining the digit to 0 in the process), restores the
// digit from one copy, and turns the other copy's zero-or-nonzero state
// into a 0/1 carry flag using the standard Brainfuck detect-zero-after-
// decrement idiom: preset the flag to 1, then let a loop over the copy
// clear it back to 0 on any nonzero pass. The flag is then consumed by a
// loop that runs zero or one times and, if it runs, recurses into the
// next digit.
func carryDigit(bld *asm.Builder, digitPos func(int) int, i, n, returnTo int) {
	bld.MoveTo(digitPos(i))
	bld.Add(1)
	if i == n-1 {
		bld.MoveTo(returnTo)
		return
	}

	dist := digitPos(i)

	// Drain the digit into both scratch cells.
	bld.Loop(func(inner *asm.Builder) {
		inner.Add(-1)
		inner.MoveTo(0)
		inner.Add(1)
		inner.MoveTo(1)
		inner.Add(1)
		inner.MoveTo(dist)
	})

	// Restore the digit from the second copy.
	bld.MoveTo(1)
	bld.Loop(func(inner *asm.Builder) {
		inner.Add(-1)
		inner.MoveTo(dist)
		inner.Add(1)
		inner.MoveTo(1)
	})

	// Turn the first copy's zero-ness into a carry flag in cell 1.
	bld.Add(1)
	bld.MoveTo(0)
	bld.Loop(func(inner *asm.Builder) {
		inner.Add(-1)
		inner.MoveTo(1)
		inner.Emit(asm.Zero())
		inner.MoveTo(0)
	})

	// Consume the flag, propagating into the next digit if it fired.
	bld.MoveTo(1)
	bld.Loop(func(inner *asm.Builder) {
		inner.Add(-1)
		carryDigit(inner, digitPos, i+1, n, 1)
	})

	bld.MoveTo(returnTo)
}
