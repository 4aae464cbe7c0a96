// Package loader reads keymap files.
//
// A keymap file adds key bindings and palette colors on top of the
// built-in ones. TOML and YAML are supported:
//
//	# keymap.toml
//	[[bindings]]
//	mode = "insertion"
//	keys = "<C-h>"
//	to = "<Esc>hi"
//
//	[palette]
//	w = "#ffffff"
//	"<C-r>" = "#ff8800"
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat indicates a keymap file with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported keymap format")

// Keymap is the decoded content of a keymap file.
type Keymap struct {
	Bindings []Binding        `toml:"bindings" yaml:"bindings"`
	Palette  map[string]string `toml:"palette" yaml:"palette"`
}

// Binding is one keymap entry. Keys and To use key notation.
type Binding struct {
	Mode string `toml:"mode" yaml:"mode"`
	Keys string `toml:"keys" yaml:"keys"`
	To   string `toml:"to" yaml:"to"`
}

// Loader decodes keymap files of one format.
type Loader interface {
	// LoadFrom reads the keymap at path.
	LoadFrom(path string) (*Keymap, error)

	// LoadFromReader reads a keymap from r.
	LoadFromReader(r io.Reader) (*Keymap, error)
}

// FileSystem is the file access a loader needs.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// For returns the loader matching the extension of path.
func For(path string) (Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return NewTOMLLoader(), nil
	case ".yaml", ".yml":
		return NewYAMLLoader(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadKeymap reads the keymap at path, choosing the format by extension.
func LoadKeymap(path string) (*Keymap, error) {
	l, err := For(path)
	if err != nil {
		return nil, err
	}
	return l.LoadFrom(path)
}

// readFile reads path, wrapping failures with the path.
func readFile(fsys FileSystem, path string) ([]byte, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("keymap %s: %w", path, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("reading keymap %s: %w", path, err)
	}
	return data, nil
}

// ParseError represents an error while parsing a keymap file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
