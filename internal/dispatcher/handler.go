package dispatcher

import (
	"github.com/dshills/vipix/internal/input/keymap"
	"github.com/dshills/vipix/internal/input/mode"
	"github.com/dshills/vipix/internal/selection"
)

// Control is the engine surface handed to handlers during one invocation.
type Control interface {
	// Mode returns the current mode.
	Mode() mode.Mode

	// SetMode switches mode. Entering Visual anchors the selection at
	// the cursor; leaving Visual drops the anchor.
	SetMode(m mode.Mode)

	// Cursor returns the cursor position.
	Cursor() selection.Point

	// SetCursor moves the cursor without wrapping.
	SetCursor(p selection.Point)

	// WrappingDisplace moves the cursor by (dx, dy) modulo (w, h).
	WrappingDisplace(dx, dy, w, h int)

	// Anchor returns the Visual-mode anchor, if any.
	Anchor() (selection.Point, bool)

	// Region returns the pixels of the live Visual selection under the
	// current policy, or an empty set outside Visual mode.
	Region() selection.Set

	// Policy returns the region policy used by Region.
	Policy() selection.Policy

	// SetPolicy changes the region policy.
	SetPolicy(p selection.Policy)

	// BindKey registers a remap in mode m; text is in key notation.
	BindKey(trigger string, m mode.Mode, expansion string) error

	// Bindings lists the remaps of mode m.
	Bindings(m mode.Mode) []keymap.Binding

	// SetStatus replaces the status line text.
	SetStatus(msg string)

	// Close requests shutdown; the engine reports closed from then on.
	Close()
}

// Object is a cursor motion.
type Object[S any] interface {
	// Move moves the cursor through c and returns the traversed points.
	Move(c Control, state S) []selection.Point
}

// ObjectFunc adapts a function to Object.
type ObjectFunc[S any] func(c Control, state S) []selection.Point

// Move implements Object.
func (f ObjectFunc[S]) Move(c Control, state S) []selection.Point {
	return f(c, state)
}

// Verb is an action, optionally applied to an object's traversal.
type Verb[S any] interface {
	// NeedsPositions reports whether the verb waits for an object.
	NeedsPositions() bool

	// Act runs the verb. positions is nil for verbs that do not need them.
	Act(c Control, state S, positions []selection.Point)
}

// VerbFunc is the function form of a verb action.
type VerbFunc[S any] func(c Control, state S, positions []selection.Point)

// funcVerb pairs a VerbFunc with its positions requirement.
type funcVerb[S any] struct {
	needsPositions bool
	fn             VerbFunc[S]
}

// NewVerb creates a Verb from a function.
func NewVerb[S any](needsPositions bool, fn VerbFunc[S]) Verb[S] {
	return &funcVerb[S]{needsPositions: needsPositions, fn: fn}
}

func (v *funcVerb[S]) NeedsPositions() bool {
	return v.needsPositions
}

func (v *funcVerb[S]) Act(c Control, state S, positions []selection.Point) {
	if v.fn != nil {
		v.fn(c, state, positions)
	}
}

// Command is a command-line handler.
type Command[S any] interface {
	// Run executes the command with the arguments that followed its name.
	Run(c Control, state S, args []string) error
}

// CommandFunc adapts a function to Command.
type CommandFunc[S any] func(c Control, state S, args []string) error

// Run implements Command.
func (f CommandFunc[S]) Run(c Control, state S, args []string) error {
	return f(c, state, args)
}
