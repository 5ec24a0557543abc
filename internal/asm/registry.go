package asm

import "strings"

// Fragment is a named, self-contained Brainfuck snippet. Expand calls
// Build at most once per Registry (the rendered text is cached);
// CheckBalance calls it again for its own pass. It must be acyclic
// by construction except through Ref, which Expand resolves. Delta is the
// fragment's declared net cursor shift: 0 for the ordinary cursor-neutral
// case, nonzero for the array movement primitives that deliberately carry
// the cursor along with the sliding header.
type Fragment struct {
	Name  string
	Build func() Node
	Delta int
}

type walkState int

const (
	white walkState = iota // not yet visited
	grey                   // expansion in progress (on the current path)
	black                  // fully expanded and cached
)

// Registry holds every named fragment known to the generator and
// resolves references between them.
type Registry struct {
	frags map[string]*Fragment
	cache map[string]string
	state map[string]walkState
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		frags: make(map[string]*Fragment),
		cache: make(map[string]string),
		state: make(map[string]walkState),
	}
}

// Register adds (or replaces) a named cursor-neutral fragment. It does
// not itself expand the fragment's body; errors surface lazily from
// Expand.
func (r *Registry) Register(name string, build func() Node) {
	r.RegisterMoving(name, 0, build)
}

// RegisterMoving adds a fragment whose documented contract carries the
// cursor delta cells from its entry position. CheckBalance verifies the
// body against the declared delta instead of zero.
func (r *Registry) RegisterMoving(name string, delta int, build func() Node) {
	r.frags[name] = &Fragment{Name: name, Build: build, Delta: delta}
	delete(r.cache, name)
	r.state[name] = white
}

// Expand resolves name, recursively substituting every Ref it contains,
// and returns the flat Brainfuck text. Expansion is memoized: a fragment
// referenced from several places is only walked once.
func (r *Registry) Expand(name string) (string, error) {
	return r.resolve(name, nil)
}

func (r *Registry) resolve(name string, stack []string) (string, error) {
	if text, ok := r.cache[name]; ok {
		return text, nil
	}
	if r.state[name] == grey {
		return "", &Error{Kind: ErrCycle, Stack: append(append([]string{}, stack...), name)}
	}

	frag, ok := r.frags[name]
	if !ok {
		return "", &Error{Kind: ErrUndefined, Name: name}
	}

	r.state[name] = grey
	text, err := r.render(frag.Build(), append(stack, name))
	if err != nil {
		return "", err
	}
	r.state[name] = black
	r.cache[name] = text
	return text, nil
}

func (r *Registry) render(n Node, stack []string) (string, error) {
	switch n.Kind {
	case NLit:
		return n.Lit, nil
	case NRef:
		return r.resolve(n.Ref, stack)
	case NSeq:
		var b strings.Builder
		for _, kid := range n.Kids {
			text, err := r.render(kid, stack)
			if err != nil {
				return "", err
			}
			b.WriteString(text)
		}
		return b.String(), nil
	case NLoop:
		body, err := r.render(n.Kids[0], stack)
		if err != nil {
			return "", err
		}
		return "[" + body + "]", nil
	default:
		return "", &Error{Kind: ErrUndefined, Name: "<malformed node>"}
	}
}
