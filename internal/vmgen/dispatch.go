package vmgen

import (
	"bfvm/internal/asm"
	"bfvm/internal/layout"
)

func registerDispatch(r *asm.Registry, l *layout.Layout) {
	r.Register("vm.exec", func() asm.Node { return execLoop(l) })
}

// execLoop is the machine's fetch/decode/execute loop. The run sentinel at
// cell 0 is set to 1 on entry; only the unknown-opcode arm clears it.
// Each iteration fetches memory[IP] (one program byte in d0), drains the
// opcode into the decode chain, dispatches, and returns the cursor home.
func execLoop(l *layout.Layout) asm.Node {
	b := asm.NewBuilderAt(cellRun)
	b.Add(1)
	b.Loop(func(lb *asm.Builder) {
		// Fetch.
		fetchOperand(lb, l, 0)
		drain(lb, l.DataCell(0), cellByte)

		// Decode and execute.
		dispatch(lb, l)

		// Cleanup: the high bus bytes are zero with one-byte-per-cell
		// programs, but the contract is re-established regardless.
		for m := 1; m < l.DataWidth; m++ {
			lb.MoveTo(l.DataCell(m)).Emit(asm.Zero())
		}
		lb.MoveTo(cellRun)
	})
	return b.Node()
}

// dispatch generates the unary decrement-and-branch decode chain from
// the instruction table: for each row the remaining opcode value is
// decremented by the distance to that row's opcode and tested for zero;
// the arm for the first row that hits zero runs, flagging the opcode as
// handled. An unhandled opcode falls through to the default arm, which
// clears the run sentinel: the machine halts with IP still on the
// offending instruction.
func dispatch(b *asm.Builder, l *layout.Layout) {
	prev := 0
	for _, ins := range Instructions() {
		b.MoveTo(cellByte).Add(-(int(ins.Opcode) - prev))
		prev = int(ins.Opcode)

		// Non-destructive zero test of the remaining value.
		b.MoveTo(cellByte)
		b.Loop(func(in *asm.Builder) {
			in.Add(-1)
			in.MoveTo(cellTmpA).Add(1)
			in.MoveTo(cellTmpB).Add(1)
			in.MoveTo(cellByte)
		})
		drain(b, cellTmpB, cellByte)
		b.MoveTo(cellFlag).Add(1)
		b.MoveTo(cellTmpA)
		b.Loop(func(in *asm.Builder) {
			in.Emit(asm.Zero())
			in.MoveTo(cellFlag).Add(-1)
			in.MoveTo(cellTmpA)
		})

		b.MoveTo(cellFlag)
		b.Loop(func(arm *asm.Builder) {
			arm.Add(-1)
			arm.MoveTo(cellHandled).Add(1)
			emitArm(arm, l, ins)
			arm.MoveTo(cellFlag)
		})
	}

	// Default arm: unknown opcode.
	b.MoveTo(cellByte).Emit(asm.Zero())
	b.MoveTo(cellFlag).Add(1)
	b.MoveTo(cellHandled)
	b.Loop(func(in *asm.Builder) {
		in.Add(-1)
		in.MoveTo(cellFlag).Add(-1)
		in.MoveTo(cellHandled)
	})
	b.MoveTo(cellFlag)
	b.Loop(func(halt *asm.Builder) {
		halt.Add(-1)
		halt.MoveTo(cellRun).Emit(asm.Zero())
		halt.MoveTo(cellFlag)
	})
}
