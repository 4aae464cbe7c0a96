package engine

import (
	"github.com/dshills/vipix/internal/dispatcher"
	"github.com/dshills/vipix/internal/input/key"
	"github.com/dshills/vipix/internal/input/keymap"
	"github.com/dshills/vipix/internal/input/mode"
	"github.com/dshills/vipix/internal/selection"
)

// EditFunc receives the keys typed in Insertion mode that no verb claims,
// together with the positions they apply to.
type EditFunc[S any] func(c dispatcher.Control, state S, tok key.Token, positions []selection.Point)

// WindowListener is notified of window events before keys are processed.
type WindowListener[S any] func(state S, ev Event)

// ModeListener is notified after every mode transition.
type ModeListener func(from, to mode.Mode)

// Selected is implemented by host state that keeps a free-form selection.
// A non-empty selection replaces the cursor as the target of Insertion
// mode edits.
type Selected interface {
	SelectedPoints() []selection.Point
}

// Engine is the modal command dispatcher.
//
// Engine is not safe for concurrent use. The host drives it from a single
// loop by calling Input once per frame.
type Engine[S any] struct {
	reg    *dispatcher.Registry[S]
	keymap *keymap.Table
	log    Logger

	edit     EditFunc[S]
	window   WindowListener[S]
	onMode   []ModeListener
	maxDepth int

	mode     mode.Mode
	cursor   selection.Point
	anchor   selection.Point
	anchored bool
	policy   selection.Policy

	// buffer is the Command-mode line.
	buffer []rune

	// pending is the verb waiting for an object.
	pending    dispatcher.Verb[S]
	pendingKey key.Token

	// remap holds input that is a proper prefix of some trigger, and
	// remapDepth the deepest expansion level any of it came from.
	remap      key.Sequence
	remapDepth int

	status string
	closed bool
}

// New creates an engine dispatching through reg.
// A nil registry is replaced by an empty one.
func New[S any](reg *dispatcher.Registry[S], opts ...Option) *Engine[S] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if reg == nil {
		reg = dispatcher.NewRegistry[S]()
	}
	if o.keymap == nil {
		o.keymap = keymap.NewTable()
	}

	return &Engine[S]{
		reg:      reg,
		keymap:   o.keymap,
		log:      o.logger,
		maxDepth: o.maxDepth,
		mode:     mode.Normal,
		policy:   selection.Square,
	}
}

// Registry returns the handler registry.
func (e *Engine[S]) Registry() *dispatcher.Registry[S] {
	return e.reg
}

// Keymap returns the binding table.
func (e *Engine[S]) Keymap() *keymap.Table {
	return e.keymap
}

// AddObject registers a motion.
func (e *Engine[S]) AddObject(name string, obj dispatcher.Object[S]) error {
	return e.reg.AddObject(name, obj)
}

// AddVerb registers a verb.
func (e *Engine[S]) AddVerb(name string, needsPositions bool, fn dispatcher.VerbFunc[S], opts ...dispatcher.VerbOption) error {
	return e.reg.AddVerb(name, needsPositions, fn, opts...)
}

// AddCommand registers a command-line handler.
func (e *Engine[S]) AddCommand(name string, cmd dispatcher.Command[S]) error {
	return e.reg.AddCommand(name, cmd)
}

// SetEditFunc installs the Insertion-mode edit callback.
func (e *Engine[S]) SetEditFunc(fn EditFunc[S]) {
	e.edit = fn
}

// SetWindowEventListener installs the window event listener.
func (e *Engine[S]) SetWindowEventListener(fn WindowListener[S]) {
	e.window = fn
}

// OnModeChange registers a mode transition listener.
func (e *Engine[S]) OnModeChange(fn ModeListener) {
	if fn != nil {
		e.onMode = append(e.onMode, fn)
	}
}

// Input drains one batch of events from src and processes it.
//
// Window events in the batch are delivered to the listener first, then
// keys are handled in arrival order. Input reports false once the engine
// is closed, and on every call after that.
func (e *Engine[S]) Input(src EventSource, state S) bool {
	if e.closed {
		return false
	}
	events := src.Poll()

	for _, ev := range events {
		if !ev.IsWindow() {
			continue
		}
		if e.window != nil {
			e.guard("window listener", func() { e.window(state, ev) })
		}
		if ev.Kind == EventClose {
			e.Close()
		}
	}

	for _, ev := range events {
		if e.closed {
			break
		}
		if ev.Kind == EventKey {
			e.HandleKey(ev.Token, state)
		}
	}

	return !e.closed
}

// Mode returns the current mode.
func (e *Engine[S]) Mode() mode.Mode {
	return e.mode
}

// Cursor returns the cursor position.
func (e *Engine[S]) Cursor() selection.Point {
	return e.cursor
}

// Anchor returns the Visual-mode anchor.
func (e *Engine[S]) Anchor() (selection.Point, bool) {
	return e.anchor, e.anchored
}

// Region returns the live Visual selection under the current policy.
func (e *Engine[S]) Region() selection.Set {
	if !e.anchored {
		return selection.NewSet()
	}
	return selection.SelectRect(e.policy, selection.Normalize(e.anchor, e.cursor))
}

// Policy returns the region policy.
func (e *Engine[S]) Policy() selection.Policy {
	return e.policy
}

// Buffer returns the Command-mode line being typed.
func (e *Engine[S]) Buffer() string {
	return string(e.buffer)
}

// Status returns the status line text.
func (e *Engine[S]) Status() string {
	return e.status
}

// Pending returns the key of the verb waiting for an object.
func (e *Engine[S]) Pending() (key.Token, bool) {
	return e.pendingKey, e.pending != nil
}

// Closed reports whether a close was requested.
func (e *Engine[S]) Closed() bool {
	return e.closed
}
