package vmgen

import (
	"bfvm/internal/asm"
	"bfvm/internal/layout"
)

// The memory region is one window sliding through the array: the 11-cell
// header (sentinel, address, address copy, data bus) sits embedded in the
// cell data, and the movement primitives rotate it one cell-width at a
// time. Window-relative positions with the default layout:
//
//	s=0  i0..i2=1..3  j0..j2=4..6  d0..d3=7..10  next cell=11..14
//
// After k slides the k cells already passed sit immediately left of the
// header, each displaced one header width left of its resting tape
// position; the return slides carry them back.

// headerMoves derives the drain order for one slide. Every header cell
// except the sentinel moves by cw in the slide direction; the cell-width
// worth of array bytes the header passes over moves hw the other way.
// Destinations must be vacated before they are written, so the order
// follows the permutation's single cycle starting from the sentinel's
// position (the one cell that is always zero and never moved).
func headerMoves(l *layout.Layout, rightward bool) [][2]int {
	hw := l.HeaderWidth()
	cw := l.CellWidth
	var moves [][2]int
	dst := 0
	for {
		// Candidate header source: cells 1..hw-1 move by cw toward the
		// slide; a candidate of 0 means the chain is back at the
		// sentinel, which never moves, and the cycle is closed.
		s := dst - cw
		if !rightward {
			s = dst + cw
		}
		if s == 0 {
			return moves
		}
		src := s
		if s < 1 || s >= hw {
			// Not a header cell: the mover into dst is one of the
			// array bytes the header passes over, travelling hw the
			// other way.
			if rightward {
				src = dst + hw
			} else {
				src = dst - hw
			}
		}
		moves = append(moves, [2]int{src, dst})
		dst = src
	}
}

// slide emits one header rotation as a Builder sequence, entering at the
// cursor position `from` and leaving at `to` (both window-relative).
func slide(l *layout.Layout, rightward bool, from, to int) asm.Node {
	b := asm.NewBuilderAt(from)
	for _, mv := range headerMoves(l, rightward) {
		drain(b, mv[0], mv[1])
	}
	b.MoveTo(to)
	return b.Node()
}

// registerMemory registers the array primitives. The write-flavor
// movement fragments enter and leave on the driving digit (i0 outbound,
// j0 on the return); amovlr, the read-flavor outbound move, keeps the
// original's contract of entering on j2 and so begins with five leftward
// moves before the rotation — a load-vs-store quirk preserved as is.
func registerMemory(r *asm.Registry, l *layout.Layout) {
	cw := l.CellWidth
	i0 := l.SentinelWidth                // window-relative i0
	j0 := l.SentinelWidth + l.AddrDigits // window-relative j0
	jLast := j0 + l.AddrDigits - 1

	r.RegisterMoving("mem.amovlw", cw, func() asm.Node {
		return slide(l, true, i0, i0+cw)
	})
	r.RegisterMoving("mem.amovrw", -cw, func() asm.Node {
		return slide(l, false, j0, j0-cw)
	})
	r.RegisterMoving("mem.amovlr", cw, func() asm.Node {
		return asm.Seq(asm.Shift(i0-jLast), slide(l, true, i0, jLast+cw))
	})
	r.RegisterMoving("mem.amovrr", -cw, func() asm.Node {
		return slide(l, false, j0, j0-cw)
	})

	r.Register("mem.write", func() asm.Node { return memWrite(l) })
	r.Register("mem.read", func() asm.Node { return memRead(l) })
}

// driveDrain drains the address digit under the cursor, applying step
// once per unit of the digit's weight (256^d slides). The cursor rides
// the digit as the header moves, so the loop re-tests it in place.
func driveDrain(d int, step asm.Node) asm.Node {
	if d == 0 {
		return asm.Loop(asm.Seq(asm.Add(-1), step))
	}
	return asm.Loop(asm.Seq(asm.Add(-1), asm.Shift(-1), driveBlock(d-1, step), asm.Shift(1)))
}

// driveBlock performs 256^(k+1) slides with the cursor on digit k, which
// is zero on entry: wrap it to 255, drain it, then run one more unit of
// its weight. This is how a borrow from digit k+1 refills digit k.
func driveBlock(k int, step asm.Node) asm.Node {
	extra := step
	if k > 0 {
		extra = asm.Seq(asm.Shift(-1), driveBlock(k-1, step), asm.Shift(1))
	}
	return asm.Seq(asm.Add(-1), driveDrain(k, step), extra)
}

// driveOut walks the header from the home position to the addressed
// cell, consuming i0..i2. Cursor: sentinel in, last i digit out.
func driveOut(l *layout.Layout, step asm.Node) asm.Node {
	nodes := []asm.Node{}
	for d := 0; d < l.AddrDigits; d++ {
		nodes = append(nodes, asm.Shift(1), driveDrain(d, step))
	}
	return asm.Seq(nodes...)
}

// driveBack returns the header to the home position, consuming j0..j2.
// Cursor: j0 in, sentinel out.
func driveBack(l *layout.Layout, step asm.Node) asm.Node {
	nodes := []asm.Node{driveDrain(0, step)}
	for d := 1; d < l.AddrDigits; d++ {
		nodes = append(nodes, asm.Shift(1), driveDrain(d, step))
	}
	nodes = append(nodes, asm.Shift(-2*l.AddrDigits))
	return asm.Seq(nodes...)
}

// memWrite is the composed write operation. Pre: cursor on the sentinel,
// i = j = address, d = value. Post: header all zero, cursor on the
// sentinel, memory[address] = value.
func memWrite(l *layout.Layout) asm.Node {
	i0 := l.SentinelWidth
	j0 := i0 + l.AddrDigits
	d0 := j0 + l.AddrDigits
	cell := l.HeaderWidth()

	// At the target: zero the cell, then drain the bus into it.
	b := asm.NewBuilderAt(i0 + l.AddrDigits - 1)
	for m := 0; m < l.CellWidth; m++ {
		b.MoveTo(cell + m)
		b.Emit(asm.Zero())
	}
	for m := 0; m < l.DataWidth; m++ {
		drain(b, d0+m, cell+m)
	}
	b.MoveTo(j0)

	return asm.Seq(
		driveOut(l, asm.Ref("mem.amovlw")),
		b.Node(),
		driveBack(l, asm.Ref("mem.amovrw")),
	)
}

// memRead is the composed read operation. Pre: cursor on the sentinel,
// i = j = address, d = 0. Post: header zero except d = memory[address],
// cursor on the sentinel; the addressed cell is preserved.
func memRead(l *layout.Layout) asm.Node {
	i0 := l.SentinelWidth
	j0 := i0 + l.AddrDigits
	jLast := j0 + l.AddrDigits - 1
	d0 := j0 + l.AddrDigits
	cell := l.HeaderWidth()

	// amovlr enters on the last j digit, so the drive loop hops the
	// cursor out to it and back around each slide.
	stepOut := asm.Seq(asm.Shift(jLast-i0), asm.Ref("mem.amovlr"), asm.Shift(i0-jLast))

	// At the target: copy each cell byte into the bus through i0 (zero
	// since the outbound drive consumed it), restoring the source.
	b := asm.NewBuilderAt(i0 + l.AddrDigits - 1)
	for m := 0; m < l.CellWidth; m++ {
		src := cell + m
		b.MoveTo(src)
		b.Loop(func(in *asm.Builder) {
			in.Add(-1)
			in.MoveTo(d0 + m).Add(1)
			in.MoveTo(i0).Add(1)
			in.MoveTo(src)
		})
		b.MoveTo(i0)
		b.Loop(func(in *asm.Builder) {
			in.Add(-1)
			in.MoveTo(src).Add(1)
			in.MoveTo(i0)
		})
	}
	b.MoveTo(j0)

	return asm.Seq(
		driveOut(l, stepOut),
		b.Node(),
		driveBack(l, asm.Ref("mem.amovrr")),
	)
}

// drain moves the value at src onto dst (dst += src, src = 0), leaving
// the cursor on src.
func drain(b *asm.Builder, src, dst int) {
	b.MoveTo(src)
	b.Loop(func(in *asm.Builder) {
		in.Add(-1)
		in.MoveTo(dst).Add(1)
		in.MoveTo(src)
	})
}
