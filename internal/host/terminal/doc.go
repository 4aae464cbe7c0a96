// Package terminal runs the editor in a terminal using tcell.
//
// A Screen is both the event source and the renderer of the host loop.
// A reader goroutine blocks on tcell's event queue and forwards converted
// events to a buffered channel; Poll drains that channel without blocking
// so the engine is only ever driven from the host loop's goroutine.
//
// Each pixel is drawn two cells wide so that it is roughly square. The
// bottom row holds the mode, the command line being typed and the status
// message.
package terminal
