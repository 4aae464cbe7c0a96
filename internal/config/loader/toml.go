package loader

import (
	"errors"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
)

// TOMLLoader loads keymaps from TOML files.
type TOMLLoader struct {
	fs FileSystem
}

// NewTOMLLoader creates a TOML loader on the OS file system.
func NewTOMLLoader() *TOMLLoader {
	return &TOMLLoader{fs: DefaultFS()}
}

// NewTOMLLoaderWithFS creates a TOML loader with a custom file system.
func NewTOMLLoaderWithFS(fs FileSystem) *TOMLLoader {
	return &TOMLLoader{fs: fs}
}

// LoadFrom reads the keymap at path.
func (l *TOMLLoader) LoadFrom(path string) (*Keymap, error) {
	data, err := readFile(l.fs, path)
	if err != nil {
		return nil, err
	}
	return l.parse(path, data)
}

// LoadFromReader reads a keymap from r.
func (l *TOMLLoader) LoadFromReader(r io.Reader) (*Keymap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading keymap: %w", err)
	}
	return l.parse("<reader>", data)
}

func (l *TOMLLoader) parse(source string, data []byte) (*Keymap, error) {
	var km Keymap
	if err := toml.Unmarshal(data, &km); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var decErr *toml.DecodeError
		if errors.As(err, &decErr) {
			pe.Line, pe.Column = decErr.Position()
		}
		return nil, pe
	}
	return &km, nil
}
