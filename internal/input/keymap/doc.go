// Package keymap provides per-mode key remapping (macro substitution).
//
// A binding maps a trigger sequence to an expansion sequence within one
// mode. When the engine sees buffered input that exactly matches a
// trigger, the input is replaced by the expansion, which is itself fed
// back through the engine token by token. Expansions may therefore
// trigger further bindings; the engine bounds this with MaxDepth and
// reports ErrRemapCycle when the bound is exceeded.
//
// # Usage
//
//	table := keymap.NewTable()
//	_ = table.BindText(mode.Insertion, "<Left>", "<Esc>hi")
//	_ = table.BindText(mode.Insertion, "jk", "<Esc>")
//
//	exp, ok := table.Resolve(mode.Insertion, key.MustParseSequence("<Left>"))
//
// Bindings are looked up by exact match. IsPrefix reports when buffered
// input could still grow into a longer trigger, so multi-key triggers
// such as "jk" can be recognized.
package keymap
