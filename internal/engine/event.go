package engine

import (
	"fmt"

	"github.com/dshills/vipix/internal/input/key"
)

// EventKind discriminates host events.
type EventKind uint8

const (
	// EventKey is a key press.
	EventKey EventKind = iota
	// EventResize reports a new framebuffer size.
	EventResize
	// EventClose is a window close request.
	EventClose
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventKey:
		return "key"
	case EventResize:
		return "resize"
	case EventClose:
		return "close"
	default:
		return fmt.Sprintf("EventKind(%d)", k)
	}
}

// Event is one host input event.
type Event struct {
	Kind EventKind

	// Token is the key for EventKey.
	Token key.Token

	// Width and Height are the new size for EventResize.
	Width, Height int
}

// KeyEvent creates a key press event.
func KeyEvent(tok key.Token) Event {
	return Event{Kind: EventKey, Token: tok}
}

// ResizeEvent creates a resize notification.
func ResizeEvent(width, height int) Event {
	return Event{Kind: EventResize, Width: width, Height: height}
}

// CloseEvent creates a close request.
func CloseEvent() Event {
	return Event{Kind: EventClose}
}

// IsWindow reports whether the event is a window notification.
func (e Event) IsWindow() bool {
	return e.Kind != EventKey
}

// EventSource delivers the events accumulated since the previous poll,
// in arrival order. Poll must not block.
type EventSource interface {
	Poll() []Event
}

// Events is a fixed batch of events; it drains itself on the first Poll.
type Events []Event

// Poll implements EventSource.
func (e *Events) Poll() []Event {
	batch := *e
	*e = nil
	return batch
}

// Keys builds an event batch from key notation text, e.g. ":quit<CR>".
func Keys(text string) (*Events, error) {
	seq, err := key.ParseSequence(text)
	if err != nil {
		return nil, err
	}
	events := make(Events, len(seq))
	for i, tok := range seq {
		events[i] = KeyEvent(tok)
	}
	return &events, nil
}
