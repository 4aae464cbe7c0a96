// Package engine implements the modal command-dispatch engine.
//
// The Engine turns a stream of key tokens into editing operations. It
// owns the current mode, the cursor, the Visual-mode anchor and region
// policy, the command-line buffer and the pending verb; the host owns
// everything else (canvas, palette, free-form selection) and passes it
// in as the state S on every call.
//
// # Processing a key
//
// Each token first goes through the key binding table. Buffered input
// that exactly matches a trigger in the current mode is replaced by the
// binding's expansion, which is pushed back onto an explicit work stack
// and re-processed token by token. Nested expansion is bounded by
// keymap.MaxDepth; exceeding it drops the rest of the expansion and
// reports keymap.ErrRemapCycle on the status line.
//
// Surviving tokens are interpreted by the grammar of the current mode:
//
//   - Command: printable keys are typed, <BS> erases, <Esc> aborts and
//     <CR> runs the named command with the remaining words as arguments.
//   - Insertion: verbs bound in Insertion fire immediately; any other key
//     goes to the edit callback with the host selection or the cursor.
//   - Normal and Visual: verbs fire or, when they need positions, wait
//     for the next object; objects move the cursor and hand their
//     traversal to the waiting verb. Anything else is dropped.
//
// # Threading
//
// The engine is single-threaded: the host calls Input once per frame
// and must not call it reentrantly or concurrently. Handlers receive the
// engine as a dispatcher.Control for the duration of one call only.
//
// # Usage
//
//	reg := dispatcher.NewRegistry[*editor.State]()
//	eng := engine.New(reg, engine.WithEditFunc(paint))
//	editor.Install(eng)
//
//	for eng.Input(host, state) {
//	    host.Draw(eng, state)
//	}
package engine
