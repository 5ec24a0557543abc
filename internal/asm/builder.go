package asm

// Builder accumulates a Node sequence while tracking the cursor's
// position symbolically, so a fragment author writes "move to position
// 4" instead of counting out a run of '>' by hand.
// It is only sound for straight-line code and loops whose body is
// itself cursor-neutral (a flag test that runs zero or one time, for
// instance): the radix address traversal in the memory primitives
// moves a runtime-dependent number of times per loop and is built
// directly with Loop/Shift instead, since no static position tracking
// applies to it.
type Builder struct {
	pos int
	seq []Node
}

// NewBuilderAt returns a Builder whose cursor starts at the given
// symbolic position (typically 0, the fragment's documented home cell).
func NewBuilderAt(pos int) *Builder {
	return &Builder{pos: pos}
}

// Pos returns the builder's current symbolic cursor position.
func (b *Builder) Pos() int { return b.pos }

// MoveTo emits whatever Shift is needed to go from the current position
// to p, and updates the tracked position.
func (b *Builder) MoveTo(p int) *Builder {
	if d := p - b.pos; d != 0 {
		b.seq = append(b.seq, Shift(d))
	}
	b.pos = p
	return b
}

// Emit appends a node that does not move the cursor (Add, In, Out, Ref
// to a cursor-neutral fragment, or a pre-built Loop).
func (b *Builder) Emit(n Node) *Builder {
	b.seq = append(b.seq, n)
	return b
}

// Add emits Add(n) at the current position.
func (b *Builder) Add(n int) *Builder { return b.Emit(Add(n)) }

// In emits the input command at the current position.
func (b *Builder) In() *Builder { return b.Emit(In()) }

// Out emits the output command at the current position.
func (b *Builder) Out() *Builder { return b.Emit(Out()) }

// Ref emits a reference to another fragment, trusted to be cursor
// neutral (checked independently under its own name).
func (b *Builder) Ref(name string) *Builder { return b.Emit(Ref(name)) }

// Loop builds body with a fresh Builder seeded at the current position,
// wraps its result in a bracketed loop, and requires the body to return
// to the position it started at — true of every flag/if-style loop and
// every drain/copy loop in this repository, so the tracked position
// holds however many times the loop runs. It panics if body doesn't hold that contract; that is a
// programming error in the fragment, not a user-facing one.
func (b *Builder) Loop(body func(*Builder)) *Builder {
	inner := NewBuilderAt(b.pos)
	body(inner)
	if inner.pos != b.pos {
		panic("asm: Builder.Loop body is not cursor-neutral")
	}
	b.seq = append(b.seq, Loop(inner.Node()))
	return b
}

// Node returns the accumulated sequence as a single Node.
func (b *Builder) Node() Node { return Seq(b.seq...) }
