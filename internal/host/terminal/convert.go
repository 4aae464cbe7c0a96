package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/vipix/internal/engine"
	"github.com/dshills/vipix/internal/input/key"
)

// specialKeys maps tcell's named keys onto key.Key.
var specialKeys = map[tcell.Key]key.Key{
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyInsert:     key.KeyInsert,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
	tcell.KeyF1:         key.KeyF1,
	tcell.KeyF2:         key.KeyF2,
	tcell.KeyF3:         key.KeyF3,
	tcell.KeyF4:         key.KeyF4,
	tcell.KeyF5:         key.KeyF5,
	tcell.KeyF6:         key.KeyF6,
	tcell.KeyF7:         key.KeyF7,
	tcell.KeyF8:         key.KeyF8,
	tcell.KeyF9:         key.KeyF9,
	tcell.KeyF10:        key.KeyF10,
	tcell.KeyF11:        key.KeyF11,
	tcell.KeyF12:        key.KeyF12,
}

// convertEvent turns a tcell event into an engine event.
// Events the editor has no use for report false.
func convertEvent(ev tcell.Event) (engine.Event, bool) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		tok, ok := convertKey(e)
		if !ok {
			return engine.Event{}, false
		}
		return engine.KeyEvent(tok), true

	case *tcell.EventResize:
		w, h := e.Size()
		return engine.ResizeEvent(w, h), true

	default:
		return engine.Event{}, false
	}
}

// convertKey maps a tcell key press onto a canonical token.
// The named keys are checked first: tcell reports Enter, Tab, Backspace
// and Escape with the same codes as their Ctrl-letter aliases.
func convertKey(e *tcell.EventKey) (key.Token, bool) {
	mods := convertMod(e.Modifiers())

	if e.Key() == tcell.KeyRune {
		return key.NewRune(e.Rune(), mods), true
	}
	if k, ok := specialKeys[e.Key()]; ok {
		return key.NewSpecial(k, mods), true
	}
	if e.Key() >= tcell.KeyCtrlA && e.Key() <= tcell.KeyCtrlZ {
		r := 'a' + rune(e.Key()-tcell.KeyCtrlA)
		return key.NewRune(r, mods.With(key.ModCtrl)), true
	}
	if e.Key() == tcell.KeyCtrlSpace {
		return key.NewRune(' ', mods.With(key.ModCtrl)), true
	}
	return key.Token{}, false
}

// convertMod converts a tcell modifier mask.
func convertMod(m tcell.ModMask) key.Modifier {
	var result key.Modifier
	if m&tcell.ModShift != 0 {
		result |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= key.ModMeta
	}
	return result
}
