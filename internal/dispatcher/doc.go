// Package dispatcher holds the named handlers the modal engine dispatches to.
//
// There are three independent registries:
//
//  1. Objects: cursor motions. An object moves the cursor and reports the
//     coordinates it traversed (at least the start and end).
//
//  2. Verbs: actions. A verb either runs immediately or, when it needs
//     positions, waits for the next object and receives its traversal.
//
//  3. Commands: named handlers invoked from the command line with the
//     whitespace-separated arguments that followed the name.
//
// # Handlers
//
// Handlers are generic over the host's application state S and receive
// everything they may touch as explicit parameters:
//
//	type Verb[S any] interface {
//	    NeedsPositions() bool
//	    Act(c Control, state S, positions []selection.Point)
//	}
//
// Control is the engine surface (mode, cursor, bindings, status). A
// handler must not keep c or state beyond its invocation.
//
// # Registration
//
//	reg := dispatcher.NewRegistry[*editor.State]()
//	_ = reg.AddObject("l", dispatcher.ObjectFunc[*editor.State](moveRight))
//	_ = reg.AddVerb("s", true, paint)
//	_ = reg.AddVerb("<Esc>", false, escape, dispatcher.AllModes())
//	reg.AddCommand("quit", dispatcher.CommandFunc[*editor.State](quit))
//
// Registration overwrites entries with the same name. Lookups return
// false for unknown names; unmatched input is not an error.
package dispatcher
