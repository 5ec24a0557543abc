// Package vmgen builds the Brainfuck program that is the whole point of
// this repository: a register/memory virtual machine with a loader phase
// and a fetch/decode/execute loop, emitted as named fragments over the
// macro engine in internal/asm and the tape layout in internal/layout.
package vmgen

import (
	"bfvm/internal/asm"
	"bfvm/internal/layout"
)

// RegisterAll registers every fragment of the machine into r: the array
// (memory) primitives, the register-bank primitives, the increment
// chains, the loader, and the execute loop. "vm.main" is the complete
// program.
func RegisterAll(r *asm.Registry, l *layout.Layout) {
	registerMemory(r, l)
	registerRegisters(r, l)

	r.Register("int.incr", func() asm.Node { return Incr(l) })
	r.Register("int.incraddr", func() asm.Node { return IncrAddr(l) })

	registerLoader(r, l)
	registerDispatch(r, l)

	r.Register("vm.main", func() asm.Node {
		return asm.Seq(asm.Ref("vm.load"), asm.Ref("vm.exec"))
	})
}

// Generate produces the minified Brainfuck program for the given layout.
// The fragment set is balance-checked first; a fragment that does not
// honor its declared cursor contract is a generation-time fatal error.
func Generate(l *layout.Layout) (string, error) {
	r := asm.NewRegistry()
	RegisterAll(r, l)
	if _, err := r.CheckBalance(); err != nil {
		return "", err
	}
	text, err := r.Expand("vm.main")
	if err != nil {
		return "", err
	}
	return asm.Minify(text), nil
}

// Check runs the cursor-balance self-check over the full fragment set
// and returns the per-fragment reports, for the CLI's -emit-checks mode.
func Check(l *layout.Layout) ([]asm.BalanceReport, error) {
	r := asm.NewRegistry()
	RegisterAll(r, l)
	return r.CheckBalance()
}
