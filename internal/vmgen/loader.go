package vmgen

import (
	"bfvm/internal/asm"
	"bfvm/internal/layout"
)

// The VM keeps its own working cells in the low tape region before the
// register file. The outer-loop home position is cell 0.
const (
	cellRun     = 0 // execute-loop sentinel: 1 while running, cleared to halt
	cellCounter = 1 // loader's nulls-seen countdown, initialised to 4
	cellByte    = 2 // current input byte / fetched opcode
	cellFlag    = 3 // branch flag for if/else and the decode chain
	cellTmpA    = 4 // scratch copy
	cellTmpB    = 5 // scratch copy
	cellPending = 6 // zero bytes seen but not yet flushed to memory
	cellHandled = 7 // decode chain: an arm matched this opcode
)

// addrScratchHome is the home cell for the address-width increment: the
// free cell before the memory region pairs with the sentinel as the two
// scratch cells, putting the i digits in the number position.
func addrScratchHome(l *layout.Layout) int { return l.MemoryBase - 1 }

func spHome(l *layout.Layout) int { return l.SlotHome(l.SPIndex) }
func ipHome(l *layout.Layout) int { return l.SlotHome(l.IPIndex) }

func registerLoader(r *asm.Registry, l *layout.Layout) {
	r.Register("vm.load", func() asm.Node { return loader(l) })
}

// loader is the machine's input phase: read bytes from stdin into successive
// memory cells at SP, stopping after four consecutive zero bytes. A zero
// byte is not stored when seen — it is held as a pending count and
// flushed (as bare SP advances, the cells already being zero) when a
// nonzero byte follows. Pending zeros that turn out to be the terminator
// are discarded, so SP ends at the count of bytes before the first
// four-zero window. EOF reads as 0xFF by host contract, which the
// counter treats as data; an unterminated program therefore loads
// forever, by design.
func loader(l *layout.Layout) asm.Node {
	b := asm.NewBuilderAt(0)
	b.MoveTo(cellCounter).Add(4)
	b.Loop(func(lb *asm.Builder) {
		lb.MoveTo(cellByte).In()

		// Copy the byte so the zero test doesn't consume it.
		lb.MoveTo(cellByte)
		lb.Loop(func(in *asm.Builder) {
			in.Add(-1)
			in.MoveTo(cellTmpA).Add(1)
			in.MoveTo(cellTmpB).Add(1)
			in.MoveTo(cellByte)
		})
		drain(lb, cellTmpB, cellByte)

		lb.MoveTo(cellFlag).Add(1)
		lb.MoveTo(cellTmpA)
		lb.Loop(func(nz *asm.Builder) {
			// Nonzero byte.
			nz.Emit(asm.Zero())
			nz.MoveTo(cellFlag).Add(-1)

			// Flush pending zeros: advance SP once per zero (the cells
			// are already zero, no write needed) and give the counter
			// back its decrements.
			nz.MoveTo(cellPending)
			nz.Loop(func(in *asm.Builder) {
				in.Add(-1)
				in.MoveTo(spHome(l)).Ref("int.incr")
				in.MoveTo(cellCounter).Add(1)
				in.MoveTo(cellPending)
			})

			// Store the byte at memory[SP].
			drain(nz, cellByte, l.DataCell(0))
			copySPToAddress(nz, l)
			nz.MoveTo(l.MemoryBase).Ref("mem.write")
			nz.MoveTo(spHome(l)).Ref("int.incr")

			nz.MoveTo(cellTmpA)
		})
		lb.MoveTo(cellFlag)
		lb.Loop(func(z *asm.Builder) {
			// Zero byte: count it down and hold it pending.
			z.Add(-1)
			z.MoveTo(cellCounter).Add(-1)
			z.MoveTo(cellPending).Add(1)
			z.MoveTo(cellFlag)
		})
		lb.MoveTo(cellCounter)
	})

	// The four terminating zeros stay pending; discard them.
	b.MoveTo(cellPending).Emit(asm.Zero())
	b.MoveTo(cellRun)
	return b.Node()
}

// copySPToAddress copies SP's low address-digit bytes into both the i
// and j positions of the memory header, preserving SP.
func copySPToAddress(b *asm.Builder, l *layout.Layout) {
	for m := 0; m < l.AddrDigits; m++ {
		src := l.SlotData(l.SPIndex, m)
		b.MoveTo(src)
		b.Loop(func(in *asm.Builder) {
			in.Add(-1)
			in.MoveTo(l.IndexCell(m)).Add(1)
			in.MoveTo(l.IndexCopyCell(m)).Add(1)
			in.MoveTo(cellTmpB).Add(1)
			in.MoveTo(src)
		})
		drain(b, cellTmpB, src)
	}
}
