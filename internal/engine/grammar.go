package engine

import (
	"fmt"
	"strings"

	"github.com/dshills/vipix/internal/dispatcher"
	"github.com/dshills/vipix/internal/input/key"
	"github.com/dshills/vipix/internal/input/mode"
	"github.com/dshills/vipix/internal/selection"
)

// dispatch interprets one token that survived remapping.
func (e *Engine[S]) dispatch(tok key.Token, state S) {
	switch e.mode {
	case mode.Command:
		e.commandKey(tok, state)
	case mode.Insertion:
		e.insertKey(tok, state)
	default:
		e.normalKey(tok, state)
	}
}

// commandKey edits or runs the command line.
func (e *Engine[S]) commandKey(tok key.Token, state S) {
	switch {
	case tok.Is(key.KeyEscape):
		e.SetMode(mode.Normal)
	case tok.Is(key.KeyEnter):
		e.runCommandLine(state)
	case tok.Is(key.KeyBackspace):
		if len(e.buffer) == 0 {
			e.SetMode(mode.Normal)
			return
		}
		e.buffer = e.buffer[:len(e.buffer)-1]
	case tok.IsPrintable():
		e.buffer = append(e.buffer, tok.Rune)
	}
}

func (e *Engine[S]) runCommandLine(state S) {
	fields := strings.Fields(string(e.buffer))
	e.buffer = e.buffer[:0]

	if len(fields) > 0 {
		name, args := fields[0], fields[1:]
		if cmd, ok := e.reg.Command(name); ok {
			e.log.Debug("command %s %v", name, args)
			var err error
			e.guard("command "+name, func() { err = cmd.Run(e, state, args) })
			if err != nil {
				e.status = err.Error()
			}
		} else {
			e.status = fmt.Errorf("%w: %s", dispatcher.ErrUnknownCommand, name).Error()
		}
	}

	if e.mode == mode.Command {
		e.SetMode(mode.Normal)
	}
}

// insertKey fires Insertion verbs or hands the key to the edit callback.
func (e *Engine[S]) insertKey(tok key.Token, state S) {
	if verb, ok := e.reg.Verb(tok, mode.Insertion); ok {
		e.guard("verb "+tok.VimString(), func() { verb.Act(e, state, nil) })
		return
	}
	if e.edit == nil {
		return
	}

	positions := []selection.Point{e.cursor}
	if sel, ok := any(state).(Selected); ok {
		if pts := sel.SelectedPoints(); len(pts) > 0 {
			positions = pts
		}
	}
	e.guard("edit "+tok.VimString(), func() { e.edit(e, state, tok, positions) })
}

// normalKey runs the verb-object grammar of Normal and Visual mode.
func (e *Engine[S]) normalKey(tok key.Token, state S) {
	if verb, ok := e.reg.Verb(tok, e.mode); ok {
		e.clearPending()
		if verb.NeedsPositions() {
			e.pending = verb
			e.pendingKey = tok
			return
		}
		e.guard("verb "+tok.VimString(), func() { verb.Act(e, state, nil) })
		return
	}

	obj, ok := e.reg.Object(tok)
	if !ok {
		if e.pending != nil {
			e.log.Debug("cancel pending %s on %s", e.pendingKey.VimString(), tok.VimString())
		}
		e.clearPending()
		return
	}

	verb := e.pending
	e.clearPending()

	var trail selection.Trail
	e.guard("object "+tok.VimString(), func() {
		for _, p := range obj.Move(e, state) {
			trail.Add(p)
		}
	})
	if verb != nil {
		e.guard("verb", func() { verb.Act(e, state, trail.Points()) })
	}
}

func (e *Engine[S]) clearPending() {
	e.pending = nil
	e.pendingKey = key.Token{}
}

// guard runs a handler, turning a panic into a status message.
func (e *Engine[S]) guard(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("%s panicked: %v", what, r)
			e.status = fmt.Sprintf("%s: %v", what, r)
		}
	}()
	fn()
}
