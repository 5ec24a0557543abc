// Package asm is the macro substitution engine: it resolves named
// Brainfuck fragments that may reference one another, and renders them
// into a single flat stream of the eight Brainfuck command characters.
//
// A fragment's body is not raw text but a small AST:
// a node is either a literal run of Brainfuck characters, a named
// reference to another fragment, a sequence of nodes, or a bracketed
// loop around one node. Expansion is a memoized recursive walk, not
// repeated string concatenation.
package asm

import "strings"

// NodeKind identifies the shape of a Node.
type NodeKind int

const (
	NLit  NodeKind = iota // a literal run of Brainfuck characters
	NRef                  // a reference to another registered fragment
	NSeq                  // a concatenation of child nodes
	NLoop                 // a single child wrapped in [ ... ]
)

// Node is one element of a fragment's body.
type Node struct {
	Kind NodeKind
	Lit  string // set when Kind == NLit
	Ref  string // set when Kind == NRef
	Kids []Node // set when Kind == NSeq (any length) or NLoop (exactly one)
}

// Lit wraps a literal run of Brainfuck characters (or comment/whitespace,
// which Minify strips at the end of the pipeline).
func Lit(s string) Node { return Node{Kind: NLit, Lit: s} }

// Ref refers to another fragment by name; it is resolved, and its
// rendered text substituted in place, by Registry.Expand.
func Ref(name string) Node { return Node{Kind: NRef, Ref: name} }

// Seq concatenates nodes in order.
func Seq(nodes ...Node) Node { return Node{Kind: NSeq, Kids: nodes} }

// Loop wraps body in a Brainfuck [ ... ].
func Loop(body Node) Node { return Node{Kind: NLoop, Kids: []Node{body}} }

// Shift emits the cursor move |n| cells right (n > 0) or left (n < 0).
// Always go through Shift instead of typing a run of '>'/'<' by hand:
// it is the one place an off-by-one in a hand-counted run can hide.
func Shift(n int) Node {
	if n == 0 {
		return Lit("")
	}
	if n > 0 {
		return Lit(strings.Repeat(">", n))
	}
	return Lit(strings.Repeat("<", -n))
}

// Add emits the shortest wraparound path to add n (mod 256) to the cell
// under the cursor: n '+' characters, or 256-n '-' characters, whichever
// is fewer.
func Add(n int) Node {
	n = ((n % 256) + 256) % 256
	if n == 0 {
		return Lit("")
	}
	if n <= 128 {
		return Lit(strings.Repeat("+", n))
	}
	return Lit(strings.Repeat("-", 256-n))
}

// In emits the input command.
func In() Node { return Lit(",") }

// Out emits the output command.
func Out() Node { return Lit(".") }

// Zero emits a loop that decrements the current cell to zero, assuming
// it is nonnegative; used only where the cell's value isn't otherwise
// known to already be zero.
func Zero() Node { return Loop(Add(-1)) }
