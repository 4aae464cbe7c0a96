// Package mode defines the editing modes of the modal input engine.
//
// Exactly one mode is active at any time:
//
//   - Normal: motions and verbs (initial mode)
//   - Insertion: keys are painted through the edit callback
//   - Visual: motions grow a rectangular selection from an anchor
//   - Command: keys are typed into the command line
package mode

import (
	"fmt"
	"strings"
)

// Mode is an editing mode.
type Mode uint8

const (
	// Normal is the initial mode.
	Normal Mode = iota
	// Insertion routes unbound keys to the edit callback.
	Insertion
	// Visual extends a selection from the anchor to the cursor.
	Visual
	// Command collects a command line terminated by Enter.
	Command
)

// All returns every mode in declaration order.
func All() []Mode {
	return []Mode{Normal, Insertion, Visual, Command}
}

// String returns the mode name shown on the status line.
func (m Mode) String() string {
	switch m {
	case Normal:
		return "Normal"
	case Insertion:
		return "Insertion"
	case Visual:
		return "Visual"
	case Command:
		return "Command"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// Parse converts a mode name or its one-letter abbreviation.
func Parse(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "normal", "n":
		return Normal, nil
	case "insertion", "insert", "i":
		return Insertion, nil
	case "visual", "v":
		return Visual, nil
	case "command", "c":
		return Command, nil
	}
	return Normal, fmt.Errorf("unknown mode: %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(m.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so modes can be
// decoded directly from keymap files.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
