package asm

import "strings"

// commands is the set of characters Minify preserves; everything else is
// comment or whitespace introduced by fragment authoring and is dropped.
const commands = "+-<>[],."

// Minify strips every character that isn't one of the eight Brainfuck
// commands, producing the emitted program's final form. Expand copies
// Lit text through verbatim, so Minify is applied to its output: a
// fragment author can freely format Lit text (newlines, inline
// comments) without that leaking into the emitted program.
func Minify(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	for _, r := range src {
		if strings.ContainsRune(commands, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
