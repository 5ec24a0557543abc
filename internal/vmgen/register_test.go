package vmgen

import (
	"testing"

	"bfvm/internal/asm"
	"bfvm/internal/layout"
)

func TestRegisterWriteReadRoundTrip(t *testing.T) {
	l := layout.Default
	cases := []struct {
		reg int
		val uint32
	}{
		{0, 0xDEADBEEF},
		{3, 1},
		{5, 42},
		{15, 0x01000000},
	}
	for _, c := range cases {
		vm := runProgram(t, nil, func(b *asm.Builder) {
			b.MoveTo(l.RegisterIndexCell()).Add(c.reg)
			setRegisterBus(b, l, c.val)
			b.MoveTo(l.RegisterIndexCell()).Ref("reg.write4")
			b.MoveTo(l.RegisterIndexCell()).Add(c.reg)
			b.MoveTo(l.RegisterIndexCell()).Ref("reg.read4")
		})

		if got := vm.Word(l.SlotData(c.reg, 0)); got != c.val {
			t.Fatalf("r%d = %#x, want %#x", c.reg, got, c.val)
		}
		if got := vm.Word(l.BusCell(0)); got != c.val {
			t.Fatalf("read4(r%d) bus = %#x, want %#x", c.reg, got, c.val)
		}
		if vm.Pointer() != l.RegisterIndexCell() {
			t.Fatalf("cursor = %d, want the index cell at %d", vm.Pointer(), l.RegisterIndexCell())
		}
		if vm.Peek(l.RegisterIndexCell()) != 0 {
			t.Fatal("index cell not consumed")
		}
		for k := 0; k < l.BankSlots; k++ {
			if k == c.reg {
				continue
			}
			if got := vm.Word(l.SlotData(k, 0)); got != 0 {
				t.Fatalf("r%d = %d after writing r%d, want 0", k, got, c.reg)
			}
		}
		// Sentinel trail fully cleared.
		for k := 0; k < l.BankSlots; k++ {
			if vm.Peek(l.SlotHome(k)) != 0 || vm.Peek(l.SlotHome(k)+1) != 0 {
				t.Fatalf("slot %d scratch cells not restored", k)
			}
		}
	}
}

func TestRegisterWrite1Read1(t *testing.T) {
	l := layout.Default
	vm := runProgram(t, nil, func(b *asm.Builder) {
		b.MoveTo(l.RegisterIndexCell()).Add(7)
		b.MoveTo(l.BusCell(0)).Add(99)
		b.MoveTo(l.RegisterIndexCell()).Ref("reg.write1")
		b.MoveTo(l.RegisterIndexCell()).Add(7)
		b.MoveTo(l.RegisterIndexCell()).Ref("reg.read1")
	})
	if got := vm.Word(l.SlotData(7, 0)); got != 99 {
		t.Fatalf("r7 = %d, want 99", got)
	}
	if got := vm.Peek(l.BusCell(0)); got != 99 {
		t.Fatalf("read1(r7) bus = %d, want 99", got)
	}
}

func TestRegisterWrite4Overwrites(t *testing.T) {
	l := layout.Default
	vm := runProgram(t, nil, func(b *asm.Builder) {
		b.MoveTo(l.RegisterIndexCell()).Add(2)
		setRegisterBus(b, l, 0xFFFFFFFF)
		b.MoveTo(l.RegisterIndexCell()).Ref("reg.write4")
		// A second write with an all-zero bus clears the slot.
		b.MoveTo(l.RegisterIndexCell()).Add(2)
		b.MoveTo(l.RegisterIndexCell()).Ref("reg.write4")
	})
	if got := vm.Word(l.SlotData(2, 0)); got != 0 {
		t.Fatalf("r2 = %#x after overwrite, want 0", got)
	}
}

func TestRegisterReadLeavesOthersIntact(t *testing.T) {
	l := layout.Default
	vm := runProgram(t, nil, func(b *asm.Builder) {
		b.MoveTo(l.RegisterIndexCell()).Add(1)
		setRegisterBus(b, l, 1111)
		b.MoveTo(l.RegisterIndexCell()).Ref("reg.write4")
		b.MoveTo(l.RegisterIndexCell()).Add(9)
		setRegisterBus(b, l, 2222)
		b.MoveTo(l.RegisterIndexCell()).Ref("reg.write4")
		b.MoveTo(l.RegisterIndexCell()).Add(1)
		b.MoveTo(l.RegisterIndexCell()).Ref("reg.read4")
	})
	if got := vm.Word(l.BusCell(0)); got != 1111 {
		t.Fatalf("read4(r1) = %d, want 1111", got)
	}
	if got := vm.Word(l.SlotData(9, 0)); got != 2222 {
		t.Fatalf("r9 = %d after reading r1, want 2222", got)
	}
	if got := vm.Word(l.SlotData(1, 0)); got != 1111 {
		t.Fatalf("r1 = %d after read, want 1111 (read must preserve the slot)", got)
	}
}
