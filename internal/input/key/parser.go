package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrMalformedToken is returned for key text that cannot be decoded:
// an unterminated bracket, an empty bracket, an unknown modifier or an
// unknown key name.
var ErrMalformedToken = errors.New("malformed key token")

// Parse decodes exactly one token.
//
// Supported formats:
//   - Single character: "a", "A", "1", ":"
//   - Bracket names: "<Esc>", "<CR>", "<Left>", "<Space>", "<lt>"
//   - With modifiers: "<C-s>", "<A-x>", "<S-+>", "<C-S-Left>"
func Parse(text string) (Token, error) {
	seq, err := ParseSequence(text)
	if err != nil {
		return Token{}, err
	}
	if len(seq) != 1 {
		return Token{}, fmt.Errorf("%w: %q is not a single key", ErrMalformedToken, text)
	}
	return seq[0], nil
}

// MustParse parses a single token and panics on error.
// Use only for known-valid text in initialization code.
func MustParse(text string) Token {
	t, err := Parse(text)
	if err != nil {
		panic(err.Error())
	}
	return t
}

// ParseSequence decodes a mixed string of bare characters and bracket
// names, such as "<Esc>hi", into a Sequence.
func ParseSequence(text string) (Sequence, error) {
	seq := make(Sequence, 0, len(text))

	for i := 0; i < len(text); {
		if text[i] != '<' {
			r, size := utf8.DecodeRuneInString(text[i:])
			if r == utf8.RuneError && size <= 1 {
				return nil, fmt.Errorf("%w: invalid UTF-8 at offset %d", ErrMalformedToken, i)
			}
			seq = append(seq, NewRune(r, ModNone))
			i += size
			continue
		}

		end := strings.IndexByte(text[i+1:], '>')
		if end == -1 {
			return nil, fmt.Errorf("%w: unterminated bracket in %q", ErrMalformedToken, text)
		}
		t, err := parseBracket(text[i+1 : i+1+end])
		if err != nil {
			return nil, err
		}
		seq = append(seq, t)
		i += end + 2
	}

	return seq, nil
}

// MustParseSequence parses a sequence and panics on error.
// Use only for known-valid text in initialization code.
func MustParseSequence(text string) Sequence {
	seq, err := ParseSequence(text)
	if err != nil {
		panic(err.Error())
	}
	return seq
}

// parseBracket parses the inside of "<...>", e.g. "C-s", "S-+", "Esc".
func parseBracket(inner string) (Token, error) {
	if inner == "" {
		return Token{}, fmt.Errorf("%w: empty brackets", ErrMalformedToken)
	}

	// Modifiers are single letters followed by '-'; the remainder
	// (which may itself be "-") names the key.
	var mods Modifier
	for len(inner) >= 3 && inner[1] == '-' {
		mod := modifierFromPrefix(inner[:1])
		if mod == ModNone {
			return Token{}, fmt.Errorf("%w: unknown modifier %q", ErrMalformedToken, inner[:1])
		}
		mods = mods.With(mod)
		inner = inner[2:]
	}

	if utf8.RuneCountInString(inner) == 1 {
		r, _ := utf8.DecodeRuneInString(inner)
		return NewRune(r, mods), nil
	}

	lower := strings.ToLower(inner)
	if r, ok := runeNameMap[lower]; ok {
		return NewRune(r, mods), nil
	}
	if k := KeyFromName(lower); k != KeyNone {
		return NewSpecial(k, mods), nil
	}

	return Token{}, fmt.Errorf("%w: unknown key %q", ErrMalformedToken, inner)
}
