package vmgen

import (
	"bfvm/internal/asm"
	"bfvm/internal/layout"
)

// Register-file positions relative to the index cell (the home position
// for every fragment here), with the default layout:
//
//	i=0  bus: A=1 B=2 d0..d3=3..6  slot k: A=7+6k B=8+6k data=9+6k..
//
// fill_index walks the index value rightward across the slots, leaving a
// sentinel 1 in each visited slot's first scratch cell; the trail is how
// the byte transports and the return walk know where the bus and the
// target are. The second scratch cell of each slot is the transport
// channel a data byte travels through, one slot-width hop at a time.

func registerRegisters(r *asm.Registry, l *layout.Layout) {
	r.Register("reg.fill", func() asm.Node { return regFill(l) })
	r.Register("reg.unfill", func() asm.Node { return regUnfill(l) })
	r.Register("reg.busward", func() asm.Node { return regTransport(l, false) })
	r.Register("reg.slotward", func() asm.Node { return regTransport(l, true) })
	r.Register("reg.tobus", func() asm.Node { return regWalk(l, false) })
	r.Register("reg.toslot", func() asm.Node { return regWalk(l, true) })

	r.Register("reg.read1", func() asm.Node { return regRead(l, 1) })
	r.Register("reg.read4", func() asm.Node { return regRead(l, l.DataWidth) })
	r.Register("reg.write1", func() asm.Node { return regWrite(l, 1) })
	r.Register("reg.write4", func() asm.Node { return regWrite(l, l.DataWidth) })
}

// regFill consumes the index cell, walking the cursor out to the target
// slot's first scratch cell and depositing a sentinel 1 in every slot
// passed on the way. Pre: cursor on the index cell. Post: cursor on the
// target slot's first scratch cell (zero; the target gets no sentinel).
func regFill(l *layout.Layout) asm.Node {
	w := l.BankSlotWidth()
	first := 1 + w // first register slot's scratch cell (past the bus slot)

	b := asm.NewBuilderAt(0)
	drain(b, 0, first)

	// At slot k with the remaining count under the cursor: decrement,
	// hand the rest to slot k+1, drop the sentinel, hop right.
	step := asm.Loop(asm.Seq(
		asm.Add(-1),
		asm.Loop(asm.Seq(asm.Add(-1), asm.Shift(w), asm.Add(1), asm.Shift(-w))),
		asm.Add(1),
		asm.Shift(w),
	))
	return asm.Seq(b.Node(), asm.Shift(first), step)
}

// regUnfill walks back along the sentinel trail, clearing it, and parks
// the cursor on the index cell. Pre: cursor on the target slot's first
// scratch cell.
func regUnfill(l *layout.Layout) asm.Node {
	w := l.BankSlotWidth()
	return asm.Seq(
		asm.Shift(-w),
		asm.Loop(asm.Seq(asm.Add(-1), asm.Shift(-w))),
		asm.Shift(-1),
	)
}

// regTransport carries the value in the current slot's second scratch
// cell one slot at a time along the trail: busward until it lands in the
// bus slot's second scratch cell, slotward until it lands in the
// target's. Cursor rides on the first scratch cell throughout; the walk
// stops at the first slot without a sentinel (the bus going left, the
// target going right).
func regTransport(l *layout.Layout, slotward bool) asm.Node {
	w := l.BankSlotWidth()
	hop := -w
	if slotward {
		hop = w
	}
	step := asm.Seq(
		asm.Shift(1),
		asm.Loop(asm.Seq(asm.Add(-1), asm.Shift(hop), asm.Add(1), asm.Shift(-hop))),
		asm.Shift(-1),
		asm.Shift(hop),
	)
	return asm.Seq(step, asm.Loop(step))
}

// regWalk moves the bare cursor along the trail without carrying data:
// to the bus slot's scratch cell going left, to the target's going
// right.
func regWalk(l *layout.Layout, slotward bool) asm.Node {
	w := l.BankSlotWidth()
	hop := -w
	if slotward {
		hop = w
	}
	return asm.Seq(asm.Shift(hop), asm.Loop(asm.Shift(hop)))
}

// regRead is read1/read4: non-destructively copy width bytes of the
// indexed slot into the data bus. Pre: cursor on the index cell holding
// the register number, bus data cells zero. Post: index consumed, bus
// holds the slot's value, cursor on the index cell.
func regRead(l *layout.Layout, width int) asm.Node {
	nodes := []asm.Node{asm.Ref("reg.fill")}
	for m := 0; m < width; m++ {
		// Slot-local from the scratch cell under the cursor: copy byte
		// m into both scratch cells, restore the byte from the first,
		// ship the second copy to the bus.
		b := asm.NewBuilderAt(0)
		src := l.BankScratch + m
		b.MoveTo(src)
		b.Loop(func(in *asm.Builder) {
			in.Add(-1)
			in.MoveTo(0).Add(1)
			in.MoveTo(1).Add(1)
			in.MoveTo(src)
		})
		b.MoveTo(0)
		b.Loop(func(in *asm.Builder) {
			in.Add(-1)
			in.MoveTo(src).Add(1)
			in.MoveTo(0)
		})
		nodes = append(nodes, b.Node(), asm.Ref("reg.busward"))

		// Bus-local: the byte arrived in the bus scratch channel; file
		// it into d_m and walk back out to the slot.
		c := asm.NewBuilderAt(0)
		drain(c, 1, l.BankScratch+m)
		c.MoveTo(0)
		nodes = append(nodes, c.Node(), asm.Ref("reg.toslot"))
	}
	nodes = append(nodes, asm.Ref("reg.unfill"))
	return asm.Seq(nodes...)
}

// regWrite is write1/write4: overwrite width bytes of the indexed slot
// with the data bus, consuming the bus. Pre: cursor on the index cell
// holding the register number, bus holds the value. Post: index and bus
// consumed, cursor on the index cell.
func regWrite(l *layout.Layout, width int) asm.Node {
	zero := asm.NewBuilderAt(0)
	for m := 0; m < width; m++ {
		zero.MoveTo(l.BankScratch + m)
		zero.Emit(asm.Zero())
	}
	zero.MoveTo(0)

	nodes := []asm.Node{asm.Ref("reg.fill"), zero.Node()}
	for m := 0; m < width; m++ {
		nodes = append(nodes, asm.Ref("reg.tobus"))

		// Bus-local: load d_m into the transport channel.
		b := asm.NewBuilderAt(0)
		drain(b, l.BankScratch+m, 1)
		b.MoveTo(0)
		nodes = append(nodes, b.Node(), asm.Ref("reg.slotward"))

		// Slot-local: file the byte into place.
		c := asm.NewBuilderAt(0)
		drain(c, 1, l.BankScratch+m)
		c.MoveTo(0)
		nodes = append(nodes, c.Node())
	}
	nodes = append(nodes, asm.Ref("reg.unfill"))
	return asm.Seq(nodes...)
}
