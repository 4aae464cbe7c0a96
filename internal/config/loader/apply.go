package loader

import (
	"fmt"
	"sort"

	"github.com/dshills/vipix/internal/canvas"
	"github.com/dshills/vipix/internal/input/key"
	"github.com/dshills/vipix/internal/input/keymap"
	"github.com/dshills/vipix/internal/input/mode"
)

// Binder receives key bindings.
type Binder interface {
	BindTextFrom(source string, m mode.Mode, trigger, expansion string) error
}

// PaletteSetter receives palette colors.
type PaletteSetter interface {
	SetHex(tokText, hex string) error
}

// Validate checks every entry of km without applying any of them.
// Errors name source and the offending entry.
func (km *Keymap) Validate(source string) error {
	if km == nil {
		return nil
	}
	for i, entry := range km.Bindings {
		if _, err := entryMode(entry); err != nil {
			return fmt.Errorf("%s: binding %d: %w", source, i+1, err)
		}
		trigger, err := key.ParseSequence(entry.Keys)
		if err != nil {
			return fmt.Errorf("%s: binding %d: trigger %q: %w", source, i+1, entry.Keys, err)
		}
		if len(trigger) == 0 {
			return fmt.Errorf("%s: binding %d: %w", source, i+1, keymap.ErrEmptyTrigger)
		}
		if _, err := key.ParseSequence(entry.To); err != nil {
			return fmt.Errorf("%s: binding %d: expansion %q: %w", source, i+1, entry.To, err)
		}
	}
	for _, tok := range km.paletteKeys() {
		if _, err := key.Parse(tok); err != nil {
			return fmt.Errorf("%s: palette %s: %w", source, tok, err)
		}
		if _, err := canvas.ParseColor(km.Palette[tok]); err != nil {
			return fmt.Errorf("%s: palette %s: %w", source, tok, err)
		}
	}
	return nil
}

// Apply validates km and then binds every entry, recording source on
// each binding. Entries without a mode bind in Normal. Either target may
// be nil to skip that section. A malformed entry anywhere in the file
// aborts before anything is applied.
func Apply(km *Keymap, source string, b Binder, p PaletteSetter) error {
	if km == nil {
		return nil
	}
	if err := km.Validate(source); err != nil {
		return err
	}

	if b != nil {
		for i, entry := range km.Bindings {
			m, _ := entryMode(entry)
			if err := b.BindTextFrom(source, m, entry.Keys, entry.To); err != nil {
				return fmt.Errorf("%s: binding %d: %w", source, i+1, err)
			}
		}
	}

	if p != nil {
		for _, tok := range km.paletteKeys() {
			if err := p.SetHex(tok, km.Palette[tok]); err != nil {
				return fmt.Errorf("%s: palette %s: %w", source, tok, err)
			}
		}
	}
	return nil
}

func entryMode(entry Binding) (mode.Mode, error) {
	if entry.Mode == "" {
		return mode.Normal, nil
	}
	return mode.Parse(entry.Mode)
}

func (km *Keymap) paletteKeys() []string {
	keys := make([]string, 0, len(km.Palette))
	for k := range km.Palette {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
