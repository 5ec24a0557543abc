package bfi

import "fmt"

// CompileError reports an ill-formed Brainfuck source: an unbalanced
// bracket at a byte offset.
type CompileError struct {
	Msg    string
	Offset int
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error at offset %d: %s", e.Offset, e.Msg)
}

// RuntimeError represents an error during interpretation.
type RuntimeError struct {
	Msg string
	PC  int
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at PC %d: %s", e.PC, e.Msg)
}
