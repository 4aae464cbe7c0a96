package engine

import (
	"github.com/dshills/vipix/internal/input/key"
	"github.com/dshills/vipix/internal/input/keymap"
)

// queued is a token on the work stack with the expansion depth it came from.
type queued struct {
	tok   key.Token
	depth int
}

// workStack is a LIFO of tokens still to be processed.
type workStack []queued

func (w *workStack) push(seq key.Sequence, depth int) {
	for i := len(seq) - 1; i >= 0; i-- {
		*w = append(*w, queued{tok: seq[i], depth: depth})
	}
}

func (w *workStack) pop() queued {
	s := *w
	q := s[len(s)-1]
	*w = s[:len(s)-1]
	return q
}

// HandleKey feeds one key through the bindings of the current mode and
// then through the grammar.
func (e *Engine[S]) HandleKey(tok key.Token, state S) {
	stack := workStack{{tok: tok.Canonical()}}

	for len(stack) > 0 && !e.closed {
		q := stack.pop()
		e.remap = append(e.remap, q.tok)
		if q.depth > e.remapDepth {
			e.remapDepth = q.depth
		}

		if expansion, ok := e.keymap.Resolve(e.mode, e.remap); ok {
			depth := e.remapDepth + 1
			if depth > e.maxDepth {
				e.log.Warn("%v: %s in %s", keymap.ErrRemapCycle, e.remap.VimString(), e.mode)
				e.status = keymap.ErrRemapCycle.Error()
				e.resetRemap()
				return
			}
			e.resetRemap()
			stack.push(expansion, depth)
			continue
		}

		if e.keymap.IsPrefix(e.mode, e.remap) {
			continue
		}

		first, rest, depth := e.remap[0], e.remap[1:].Clone(), e.remapDepth
		e.resetRemap()
		stack.push(rest, depth)
		e.dispatch(first, state)
	}
}

func (e *Engine[S]) resetRemap() {
	e.remap = e.remap[:0]
	e.remapDepth = 0
}
