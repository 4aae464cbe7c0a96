package canvas

import (
	"sort"

	"github.com/dshills/vipix/internal/input/key"
)

// Palette maps keys typed in Insertion mode to colors.
type Palette struct {
	colors map[key.Token]Color
}

// NewPalette creates an empty palette.
func NewPalette() *Palette {
	return &Palette{colors: make(map[key.Token]Color)}
}

// DefaultPalette returns the built-in key colors.
func DefaultPalette() *Palette {
	p := NewPalette()
	p.colors[key.NewRune('a', key.ModNone)] = Red
	p.colors[key.NewRune('z', key.ModNone)] = Green
	p.colors[key.NewRune('e', key.ModNone)] = Blue
	return p
}

// Set binds the key written in key notation to col.
func (p *Palette) Set(tokText string, col Color) error {
	tok, err := key.Parse(tokText)
	if err != nil {
		return err
	}
	p.colors[tok.Canonical()] = col
	return nil
}

// SetHex is Set with the color given as a hex string.
func (p *Palette) SetHex(tokText, hex string) error {
	col, err := ParseColor(hex)
	if err != nil {
		return err
	}
	return p.Set(tokText, col)
}

// Lookup returns the color bound to tok.
func (p *Palette) Lookup(tok key.Token) (Color, bool) {
	col, ok := p.colors[tok.Canonical()]
	return col, ok
}

// Len returns the number of entries.
func (p *Palette) Len() int {
	return len(p.colors)
}

// Entry is one palette binding.
type Entry struct {
	Key   key.Token
	Color Color
}

// Entries returns the palette sorted by key notation.
func (p *Palette) Entries() []Entry {
	out := make([]Entry, 0, len(p.colors))
	for tok, col := range p.colors {
		out = append(out, Entry{Key: tok, Color: col})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.VimString() < out[j].Key.VimString()
	})
	return out
}
