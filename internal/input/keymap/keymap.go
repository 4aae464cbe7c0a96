package keymap

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dshills/vipix/internal/input/key"
	"github.com/dshills/vipix/internal/input/mode"
)

// MaxDepth is the default bound on nested expansions.
const MaxDepth = 32

var (
	// ErrRemapCycle indicates that expanding a binding exceeded the
	// recursion bound, usually because a binding expands to itself.
	ErrRemapCycle = errors.New("keymap: remap recursion limit exceeded")

	// ErrEmptyTrigger indicates a binding without trigger keys.
	ErrEmptyTrigger = errors.New("keymap: empty trigger")
)

// Binding is a single trigger-to-expansion mapping.
type Binding struct {
	// Mode is the mode this binding applies to.
	Mode mode.Mode

	// Trigger is the input that is replaced.
	Trigger key.Sequence

	// Expansion replaces the trigger.
	Expansion key.Sequence

	// Source indicates where this binding was defined.
	// Examples: "default", "imap", "keymap.toml", "init.lua"
	Source string
}

// String returns the binding in ":map" listing form.
func (b Binding) String() string {
	return fmt.Sprintf("%s %s -> %s", b.Mode, b.Trigger.VimString(), b.Expansion.VimString())
}

// Table holds the bindings of every mode.
//
// A Table is not safe for concurrent use; it is owned by the engine's
// single dispatch thread.
type Table struct {
	// bindings is indexed by mode, then by the trigger's VimString.
	bindings map[mode.Mode]map[string]Binding

	// prefixes counts, per mode, the triggers that extend each proper prefix.
	prefixes map[mode.Mode]map[string]int
}

// NewTable creates an empty binding table.
func NewTable() *Table {
	return &Table{
		bindings: make(map[mode.Mode]map[string]Binding),
		prefixes: make(map[mode.Mode]map[string]int),
	}
}

// Bind registers or overwrites a binding; the last write wins.
func (t *Table) Bind(b Binding) error {
	if len(b.Trigger) == 0 {
		return ErrEmptyTrigger
	}

	byTrigger, ok := t.bindings[b.Mode]
	if !ok {
		byTrigger = make(map[string]Binding)
		t.bindings[b.Mode] = byTrigger
	}

	id := b.Trigger.VimString()
	if _, exists := byTrigger[id]; !exists {
		t.indexPrefixes(b.Mode, b.Trigger)
	}

	b.Trigger = b.Trigger.Clone()
	b.Expansion = b.Expansion.Clone()
	byTrigger[id] = b
	return nil
}

// BindText parses trigger and expansion text and binds them in mode m.
// Parse failures wrap key.ErrMalformedToken.
func (t *Table) BindText(m mode.Mode, trigger, expansion string) error {
	return t.BindTextFrom("", m, trigger, expansion)
}

// BindTextFrom is BindText with the binding's Source recorded.
func (t *Table) BindTextFrom(source string, m mode.Mode, trigger, expansion string) error {
	trig, err := key.ParseSequence(trigger)
	if err != nil {
		return fmt.Errorf("trigger %q: %w", trigger, err)
	}
	exp, err := key.ParseSequence(expansion)
	if err != nil {
		return fmt.Errorf("expansion %q: %w", expansion, err)
	}
	return t.Bind(Binding{Mode: m, Trigger: trig, Expansion: exp, Source: source})
}

// indexPrefixes records every proper prefix of a new trigger.
func (t *Table) indexPrefixes(m mode.Mode, trigger key.Sequence) {
	counts, ok := t.prefixes[m]
	if !ok {
		counts = make(map[string]int)
		t.prefixes[m] = counts
	}
	for n := 1; n < len(trigger); n++ {
		counts[trigger[:n].VimString()]++
	}
}

// Resolve returns the expansion bound to exactly seq in mode m.
func (t *Table) Resolve(m mode.Mode, seq key.Sequence) (key.Sequence, bool) {
	b, ok := t.Lookup(m, seq)
	if !ok {
		return nil, false
	}
	return b.Expansion, true
}

// Lookup returns the full binding for exactly seq in mode m.
func (t *Table) Lookup(m mode.Mode, seq key.Sequence) (Binding, bool) {
	if len(seq) == 0 {
		return Binding{}, false
	}
	b, ok := t.bindings[m][seq.VimString()]
	return b, ok
}

// IsPrefix reports whether seq is a proper prefix of some trigger in mode m.
func (t *Table) IsPrefix(m mode.Mode, seq key.Sequence) bool {
	if len(seq) == 0 {
		return false
	}
	return t.prefixes[m][seq.VimString()] > 0
}

// Bindings returns the bindings of mode m sorted by trigger.
func (t *Table) Bindings(m mode.Mode) []Binding {
	byTrigger := t.bindings[m]
	out := make([]Binding, 0, len(byTrigger))
	for _, b := range byTrigger {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Trigger.VimString() < out[j].Trigger.VimString()
	})
	return out
}

// Len returns the total number of bindings across all modes.
func (t *Table) Len() int {
	n := 0
	for _, byTrigger := range t.bindings {
		n += len(byTrigger)
	}
	return n
}
