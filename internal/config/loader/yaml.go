package loader

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLLoader loads keymaps from YAML files.
type YAMLLoader struct {
	fs FileSystem
}

// NewYAMLLoader creates a YAML loader on the OS file system.
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{fs: DefaultFS()}
}

// NewYAMLLoaderWithFS creates a YAML loader with a custom file system.
func NewYAMLLoaderWithFS(fs FileSystem) *YAMLLoader {
	return &YAMLLoader{fs: fs}
}

// LoadFrom reads the keymap at path.
func (l *YAMLLoader) LoadFrom(path string) (*Keymap, error) {
	data, err := readFile(l.fs, path)
	if err != nil {
		return nil, err
	}
	return l.parse(path, data)
}

// LoadFromReader reads a keymap from r.
func (l *YAMLLoader) LoadFromReader(r io.Reader) (*Keymap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading keymap: %w", err)
	}
	return l.parse("<reader>", data)
}

func (l *YAMLLoader) parse(source string, data []byte) (*Keymap, error) {
	var km Keymap
	if err := yaml.Unmarshal(data, &km); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
			pe.Message = typeErr.Errors[0]
		}
		return nil, pe
	}
	return &km, nil
}
