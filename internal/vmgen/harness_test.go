package vmgen

import (
	"bytes"
	"io"
	"testing"

	"bfvm/internal/asm"
	"bfvm/internal/bfi"
	"bfvm/internal/layout"
)

// runProgram expands a test body built against the full fragment set and
// executes it on the bundled interpreter, returning the machine for tape
// inspection. The step limit turns a cursor-discipline bug (typically an
// endless walk) into a test failure rather than a hang.
func runProgram(t *testing.T, input []byte, build func(b *asm.Builder)) *bfi.VM {
	t.Helper()
	r := asm.NewRegistry()
	RegisterAll(r, layout.Default)

	b := asm.NewBuilderAt(0)
	build(b)
	r.Register("test.main", func() asm.Node { return b.Node() })

	text, err := r.Expand("test.main")
	if err != nil {
		t.Fatalf("Expand(test.main) error: %v", err)
	}
	ops, err := bfi.Compile(asm.Minify(text))
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}

	vm := bfi.NewVM(
		bfi.WithInput(bytes.NewReader(input)),
		bfi.WithOutput(io.Discard),
		bfi.WithStepLimit(100_000_000),
	)
	if err := vm.Run(ops); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	return vm
}

// setMemoryAddress loads the same address into both the i and j digit
// positions, as the traversal's precondition requires.
func setMemoryAddress(b *asm.Builder, l *layout.Layout, addr int) {
	for d := 0; d < l.AddrDigits; d++ {
		digit := (addr >> (8 * d)) & 0xFF
		b.MoveTo(l.IndexCell(d)).Add(digit)
		b.MoveTo(l.IndexCopyCell(d)).Add(digit)
	}
}

// setMemoryBus loads a value onto the memory data bus.
func setMemoryBus(b *asm.Builder, l *layout.Layout, v uint32) {
	for m := 0; m < l.DataWidth; m++ {
		b.MoveTo(l.DataCell(m)).Add(int((v >> (8 * m)) & 0xFF))
	}
}

// setRegisterBus loads a value onto the register file's data bus.
func setRegisterBus(b *asm.Builder, l *layout.Layout, v uint32) {
	for m := 0; m < l.DataWidth; m++ {
		b.MoveTo(l.BusCell(m)).Add(int((v >> (8 * m)) & 0xFF))
	}
}
