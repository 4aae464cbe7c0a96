package key

import (
	"fmt"
	"strings"
	"unicode"
)

// Token represents a single canonical key press.
//
// Tokens are comparable values: two tokens denote the same key press
// exactly when they are ==. Construct them with NewRune, NewSpecial or
// Parse so they are always canonical.
type Token struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune tokens.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRune creates a canonical token for a character key.
func NewRune(r rune, mods Modifier) Token {
	return Token{Key: KeyRune, Rune: r, Modifiers: mods}.Canonical()
}

// NewSpecial creates a canonical token for a named key.
func NewSpecial(k Key, mods Modifier) Token {
	return Token{Key: k, Modifiers: mods}.Canonical()
}

// Canonical returns the normalized form of the token.
//
// For character keys Shift is part of the character itself and is
// dropped; with Ctrl, Alt or Meta held, letters are lower-cased.
// A raw Space key becomes the ' ' character.
func (t Token) Canonical() Token {
	if t.Key == KeySpace {
		t.Key = KeyRune
		t.Rune = ' '
	}
	if t.Key != KeyRune {
		t.Rune = 0
		return t
	}
	t.Modifiers = t.Modifiers.Without(ModShift)
	if t.Modifiers != ModNone {
		t.Rune = unicode.ToLower(t.Rune)
	}
	return t
}

// IsRune returns true if this is a character key token.
func (t Token) IsRune() bool {
	return t.Key == KeyRune && t.Rune != 0
}

// IsPrintable returns true for unmodified printable characters, the
// tokens that can be appended to a command line.
func (t Token) IsPrintable() bool {
	return t.IsRune() && t.Modifiers == ModNone && unicode.IsPrint(t.Rune)
}

// Is reports whether the token is the given named key with no modifiers.
func (t Token) Is(k Key) bool {
	return t.Key == k && t.Modifiers == ModNone
}

// VimString renders the token in bracket notation.
// Examples: "a", "V", "<Esc>", "<C-s>", "<S-Left>", "<lt>".
// The result parses back to the same token.
func (t Token) VimString() string {
	if t.Key == KeyRune && t.Modifiers == ModNone {
		switch t.Rune {
		case ' ':
			return "<Space>"
		case '<':
			return "<lt>"
		}
		return string(t.Rune)
	}

	var sb strings.Builder
	sb.WriteByte('<')
	if mods := t.Modifiers.String(); mods != "" {
		sb.WriteString(mods)
		sb.WriteByte('-')
	}
	if t.Key == KeyRune {
		switch t.Rune {
		case ' ':
			sb.WriteString("Space")
		case '<':
			sb.WriteString("lt")
		case '>':
			sb.WriteString("gt")
		default:
			sb.WriteRune(t.Rune)
		}
	} else {
		sb.WriteString(t.Key.String())
	}
	sb.WriteByte('>')
	return sb.String()
}

// String returns the bracket notation; it is used for status display and logs.
func (t Token) String() string {
	return t.VimString()
}

// GoString implements fmt.GoStringer for debugging.
func (t Token) GoString() string {
	return fmt.Sprintf("Token{Key: %s, Rune: %q, Modifiers: %q}",
		t.Key, t.Rune, t.Modifiers.String())
}
