package vmgen

import (
	"bfvm/internal/asm"
	"bfvm/internal/layout"
)

// Instruction is one row of the VM's opcode table. The decode chain in
// dispatch.go generates each arm mechanically from the row: fetch
// Operands bytes from memory at IP+1.. (the first operand byte lands in
// the register file's index cell, the rest on its data bus), advance IP
// by Length, then run Effect. Advancing before the effect is what makes
// a write to the IP register an effective jump instead of being
// re-advanced afterwards.
type Instruction struct {
	Name     string
	Opcode   byte
	Length   int // total instruction bytes, opcode included
	Operands int // operand bytes fetched before the effect runs
	Effect   func(b *asm.Builder, l *layout.Layout)
}

// Instructions is the instruction set, in opcode order. Adding an
// instruction is adding a row.
func Instructions() []Instruction {
	writeRegister := func(b *asm.Builder, l *layout.Layout) {
		b.MoveTo(l.RegisterIndexCell()).Ref("reg.write4")
	}
	return []Instruction{
		{Name: "NOP", Opcode: 0x01, Length: 1},
		// CLR r: the bus is all zero between instructions, so a plain
		// write4 clears the slot.
		{Name: "CLR", Opcode: 0x02, Length: 2, Operands: 1, Effect: writeRegister},
		// SETB r imm32: register index plus a little-endian immediate.
		{Name: "SETB", Opcode: 0x03, Length: 6, Operands: 5, Effect: writeRegister},
	}
}

// emitArm builds one decode arm from its table row.
func emitArm(b *asm.Builder, l *layout.Layout, ins Instruction) {
	for n := 0; n < ins.Operands; n++ {
		fetchOperand(b, l, 1+n)
		if n == 0 {
			drain(b, l.DataCell(0), l.RegisterIndexCell())
		} else {
			drain(b, l.DataCell(0), l.BusCell(n-1))
		}
	}
	advanceIP(b, l, ins.Length)
	if ins.Effect != nil {
		ins.Effect(b, l)
	}
}

// fetchOperand reads memory[IP+k] into the memory data bus: the program
// byte lands in d0, d1..d3 stay zero (the loader stores one byte per
// cell). IP itself is preserved; the offset is applied to the address
// copy with the address-width increment.
func fetchOperand(b *asm.Builder, l *layout.Layout, k int) {
	copyIPToIndex(b, l)
	for n := 0; n < k; n++ {
		b.MoveTo(addrScratchHome(l)).Ref("int.incraddr")
	}
	dupIndex(b, l)
	b.MoveTo(l.MemoryBase).Ref("mem.read")
}

// advanceIP banks the instruction length in i0 and drains the bank one
// increment of IP at a time.
func advanceIP(b *asm.Builder, l *layout.Layout, length int) {
	b.MoveTo(l.IndexCell(0)).Add(length)
	b.Loop(func(in *asm.Builder) {
		in.Add(-1)
		in.MoveTo(ipHome(l)).Ref("int.incr")
		in.MoveTo(l.IndexCell(0))
	})
}

// copyIPToIndex copies IP's low address-digit bytes into the i positions
// of the memory header, preserving IP.
func copyIPToIndex(b *asm.Builder, l *layout.Layout) {
	for m := 0; m < l.AddrDigits; m++ {
		src := l.SlotData(l.IPIndex, m)
		b.MoveTo(src)
		b.Loop(func(in *asm.Builder) {
			in.Add(-1)
			in.MoveTo(l.IndexCell(m)).Add(1)
			in.MoveTo(addrScratchHome(l)).Add(1)
			in.MoveTo(src)
		})
		drain(b, addrScratchHome(l), src)
	}
}

// dupIndex duplicates the i digits into j, as the traversal requires.
func dupIndex(b *asm.Builder, l *layout.Layout) {
	for m := 0; m < l.AddrDigits; m++ {
		src := l.IndexCell(m)
		b.MoveTo(src)
		b.Loop(func(in *asm.Builder) {
			in.Add(-1)
			in.MoveTo(l.IndexCopyCell(m)).Add(1)
			in.MoveTo(addrScratchHome(l)).Add(1)
			in.MoveTo(src)
		})
		drain(b, addrScratchHome(l), src)
	}
}
