package engine

import (
	"github.com/dshills/vipix/internal/dispatcher"
	"github.com/dshills/vipix/internal/input/keymap"
	"github.com/dshills/vipix/internal/input/mode"
	"github.com/dshills/vipix/internal/selection"
)

var _ dispatcher.Control = (*Engine[struct{}])(nil)

// SetMode switches to m.
//
// Entering Visual anchors the selection at the cursor, leaving Visual
// drops the anchor and leaving Command discards the typed line. Any
// transition cancels a pending verb.
func (e *Engine[S]) SetMode(m mode.Mode) {
	from := e.mode
	if from == m {
		return
	}

	if from == mode.Visual {
		e.anchored = false
	}
	if from == mode.Command {
		e.buffer = e.buffer[:0]
	}
	if m == mode.Visual {
		e.anchor = e.cursor
		e.anchored = true
	}
	e.clearPending()
	e.mode = m

	e.log.Debug("mode %s -> %s", from, m)
	for _, fn := range e.onMode {
		fn(from, m)
	}
}

// SetCursor moves the cursor to p.
func (e *Engine[S]) SetCursor(p selection.Point) {
	e.cursor = p
}

// WrappingDisplace moves the cursor by (dx, dy), wrapping around a
// w x h grid. Non-positive dimensions leave the cursor in place.
func (e *Engine[S]) WrappingDisplace(dx, dy, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	e.cursor = selection.Point{
		X: wrap(e.cursor.X+dx, w),
		Y: wrap(e.cursor.Y+dy, h),
	}
}

func wrap(v, n int) int {
	return (v%n + n) % n
}

// SetPolicy changes the Visual region policy.
func (e *Engine[S]) SetPolicy(p selection.Policy) {
	e.policy = p
}

// BindKey binds trigger to expansion in mode m. Both are key notation.
func (e *Engine[S]) BindKey(trigger string, m mode.Mode, expansion string) error {
	return e.keymap.BindText(m, trigger, expansion)
}

// Bindings lists the bindings of mode m.
func (e *Engine[S]) Bindings(m mode.Mode) []keymap.Binding {
	return e.keymap.Bindings(m)
}

// SetStatus replaces the status line.
func (e *Engine[S]) SetStatus(msg string) {
	e.status = msg
}

// Close requests shutdown.
func (e *Engine[S]) Close() {
	if !e.closed {
		e.log.Debug("close requested")
	}
	e.closed = true
}
