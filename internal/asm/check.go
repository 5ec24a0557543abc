package asm

import "sort"

// BalanceReport is one fragment's result from CheckBalance.
type BalanceReport struct {
	Name    string
	Delta   int  // net '>' minus '<' count this pass could compute
	Want    int  // the fragment's declared delta
	Skipped bool // true if a runtime-dependent loop made Delta unverifiable
}

// CheckBalance is the generator's static self-check: every registered
// fragment is asserted to shift the cursor by exactly its declared
// delta (zero for all but the movement primitives). Hand-assembled
// Brainfuck has no other guard against a fragment that leaks the
// cursor and silently corrupts every operation after it.
//
// The check is necessarily incomplete. A Ref contributes its target's
// declared delta, trusted because that fragment is checked under its
// own name. A loop whose body is itself cursor-neutral contributes
// zero regardless of how many times it runs, which covers every
// drain/copy loop in this repository; a loop whose body carries a net
// shift repeats a runtime-dependent number of times (the radix address
// traversals), so its fragment is reported Skipped rather than
// silently assumed correct.
func (r *Registry) CheckBalance() ([]BalanceReport, error) {
	names := make([]string, 0, len(r.frags))
	for name := range r.frags {
		names = append(names, name)
	}
	sort.Strings(names)

	reports := make([]BalanceReport, 0, len(names))
	for _, name := range names {
		frag := r.frags[name]
		delta, skipped := r.deltaOf(frag.Build())
		reports = append(reports, BalanceReport{Name: name, Delta: delta, Want: frag.Delta, Skipped: skipped})
		if !skipped && delta != frag.Delta {
			return reports, &Error{Kind: ErrUnbalanced, Name: name, Delta: delta, Want: frag.Delta}
		}
	}
	return reports, nil
}

// deltaOf computes a node's net '>'/'<' shift where that is statically
// decidable.
func (r *Registry) deltaOf(n Node) (delta int, skipped bool) {
	switch n.Kind {
	case NLit:
		for _, c := range n.Lit {
			switch c {
			case '>':
				delta++
			case '<':
				delta--
			}
		}
		return delta, false
	case NRef:
		frag, ok := r.frags[n.Ref]
		if !ok {
			// Expand reports the undefined reference; don't rule here.
			return 0, true
		}
		return frag.Delta, false
	case NSeq:
		total := 0
		anySkipped := false
		for _, kid := range n.Kids {
			d, sk := r.deltaOf(kid)
			total += d
			anySkipped = anySkipped || sk
		}
		return total, anySkipped
	case NLoop:
		d, sk := r.deltaOf(n.Kids[0])
		if sk || d != 0 {
			return 0, true
		}
		return 0, false
	default:
		return 0, true
	}
}
