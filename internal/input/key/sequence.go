package key

import "strings"

// Sequence represents an ordered run of tokens.
// Examples: "jk" (an insert-mode remap trigger), "<Esc>hi" (an expansion).
type Sequence []Token

// VimString returns the bracket-notation form, e.g. "<Esc>hi".
// Parsing the result yields an equal sequence.
func (s Sequence) VimString() string {
	var sb strings.Builder
	for _, t := range s {
		sb.WriteString(t.VimString())
	}
	return sb.String()
}

// String returns a space-separated representation for debugging.
// Example: "<Esc> h i"
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = t.VimString()
	}
	return strings.Join(parts, " ")
}

// Equals returns true if two sequences are identical.
func (s Sequence) Equals(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i, t := range s {
		if t != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix returns true if this sequence starts with the given prefix.
func (s Sequence) HasPrefix(prefix Sequence) bool {
	if len(prefix) > len(s) {
		return false
	}
	return s[:len(prefix)].Equals(prefix)
}

// Clone returns a copy that does not share backing storage.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}
