package asm

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a generation-time failure of the macro engine.
type ErrorKind int

const (
	ErrUndefined  ErrorKind = iota // a Ref names a fragment that was never registered
	ErrCycle                      // a fragment (transitively) references itself
	ErrUnbalanced                 // a fragment's cursor movement doesn't net to its declared delta
)

// Error is returned by Registry.Expand and Registry.CheckBalance. Both
// are fatal at generation time: the caller logs it and exits non-zero.
type Error struct {
	Kind  ErrorKind
	Name  string   // fragment name, for ErrUndefined/ErrUnbalanced
	Stack []string // reference chain, for ErrCycle
	Delta int      // computed net cursor shift, for ErrUnbalanced
	Want  int      // declared net cursor shift, for ErrUnbalanced
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrUndefined:
		return fmt.Sprintf("asm: undefined fragment %q", e.Name)
	case ErrCycle:
		return fmt.Sprintf("asm: cyclic fragment reference: %s", strings.Join(e.Stack, " -> "))
	case ErrUnbalanced:
		return fmt.Sprintf("asm: fragment %q shifts the cursor %+d, declared %+d", e.Name, e.Delta, e.Want)
	default:
		return "asm: unknown error"
	}
}
