package key

import "strings"

// Modifier represents keyboard modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << (iota - 1)

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModMeta indicates the Meta key (Cmd on macOS, Win on Windows).
	ModMeta
)

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// String returns a compact representation like "C-A-S".
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}

	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "C")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "A")
	}
	if m.Has(ModShift) {
		parts = append(parts, "S")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "M")
	}
	return strings.Join(parts, "-")
}

// modifierFromPrefix maps a bracket modifier letter to its Modifier.
// Returns ModNone if the letter is not recognized.
func modifierFromPrefix(p string) Modifier {
	switch strings.ToLower(p) {
	case "s":
		return ModShift
	case "c":
		return ModCtrl
	case "a":
		return ModAlt
	case "m", "d": // D is Vim's notation for Command/Meta
		return ModMeta
	}
	return ModNone
}
