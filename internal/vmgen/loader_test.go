package vmgen

import (
	"testing"

	"bfvm/internal/asm"
	"bfvm/internal/layout"
)

func TestLoaderStoresProgram(t *testing.T) {
	l := layout.Default
	vm := runProgram(t, []byte{0x01, 0, 0, 0, 0}, func(b *asm.Builder) {
		b.Ref("vm.load")
	})
	if got := vm.Word(l.CellPos(0)); got != 1 {
		t.Fatalf("memory[0] = %d, want 1", got)
	}
	if got := vm.Word(l.SlotData(l.SPIndex, 0)); got != 1 {
		t.Fatalf("SP = %d, want 1", got)
	}
	if vm.Pointer() != 0 {
		t.Fatalf("cursor = %d, want 0", vm.Pointer())
	}
}

func TestLoaderFlushesInteriorZeros(t *testing.T) {
	// A zero run shorter than four bytes is part of the program: the
	// zeros occupy their addresses and SP counts them.
	l := layout.Default
	vm := runProgram(t, []byte{0x03, 0x00, 0x00, 0xFF, 0, 0, 0, 0}, func(b *asm.Builder) {
		b.Ref("vm.load")
	})
	if got := vm.Word(l.CellPos(0)); got != 3 {
		t.Fatalf("memory[0] = %d, want 3", got)
	}
	if got := vm.Word(l.CellPos(1)); got != 0 {
		t.Fatalf("memory[1] = %d, want 0", got)
	}
	if got := vm.Word(l.CellPos(2)); got != 0 {
		t.Fatalf("memory[2] = %d, want 0", got)
	}
	if got := vm.Word(l.CellPos(3)); got != 0xFF {
		t.Fatalf("memory[3] = %d, want 0xFF", got)
	}
	if got := vm.Word(l.SlotData(l.SPIndex, 0)); got != 4 {
		t.Fatalf("SP = %d, want 4", got)
	}
}

func TestLoaderDiscardsTerminator(t *testing.T) {
	// SP counts only the bytes before the first four-zero window; the
	// terminator itself is consumed, not stored.
	l := layout.Default
	vm := runProgram(t, []byte{0x0A, 0x0B, 0, 0, 0, 0}, func(b *asm.Builder) {
		b.Ref("vm.load")
	})
	if got := vm.Word(l.SlotData(l.SPIndex, 0)); got != 2 {
		t.Fatalf("SP = %d, want 2", got)
	}
	if got := vm.Word(l.CellPos(2)); got != 0 {
		t.Fatalf("memory[2] = %d, want 0 (terminator must not be stored)", got)
	}
}

func TestLoaderLeavesScratchClean(t *testing.T) {
	l := layout.Default
	vm := runProgram(t, []byte{0x05, 0, 0x06, 0, 0, 0, 0}, func(b *asm.Builder) {
		b.Ref("vm.load")
	})
	// Everything below the register file must be zero again, ready for
	// the execute loop.
	for p := 0; p < l.RegisterBase; p++ {
		if vm.Peek(p) != 0 {
			t.Fatalf("scratch cell %d = %d after load, want 0", p, vm.Peek(p))
		}
	}
	// Memory header too.
	for p := l.MemoryBase; p < l.MemoryBase+l.HeaderWidth(); p++ {
		if vm.Peek(p) != 0 {
			t.Fatalf("header cell %d = %d after load, want 0", p, vm.Peek(p))
		}
	}
}
