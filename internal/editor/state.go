// Package editor is the pixel editor built on the modal engine: the
// host-owned State and the built-in objects, verbs, commands and key
// bindings.
package editor

import (
	"github.com/dshills/vipix/internal/canvas"
	"github.com/dshills/vipix/internal/dispatcher"
	"github.com/dshills/vipix/internal/input/mode"
	"github.com/dshills/vipix/internal/selection"
)

// Default view parameters.
const (
	DefaultZoom   = 1.0
	ZoomStep      = 0.1
	PanStep       = 1.0
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Sourcer runs script files on behalf of the :source command.
type Sourcer interface {
	Source(c dispatcher.Control, path string) error
}

// State is everything the editor owns outside the engine.
type State struct {
	Canvas  *canvas.Canvas
	Palette *canvas.Palette

	// Selection is the free-form selection materialized from Visual mode.
	Selection selection.Set

	Zoom       float64
	Center     [2]float64
	Scale      [2]float64
	WindowSize [2]int
	MustResize bool

	// Scripts runs :source; nil disables the command.
	Scripts Sourcer
}

// NewState creates editor state around a canvas and palette, centered
// on the canvas. A nil palette is replaced by the default one.
func NewState(c *canvas.Canvas, p *canvas.Palette) *State {
	if p == nil {
		p = canvas.DefaultPalette()
	}
	w, h := c.Size()
	return &State{
		Canvas:     c,
		Palette:    p,
		Selection:  selection.NewSet(),
		Zoom:       DefaultZoom,
		Center:     [2]float64{-float64(w) / 2, -float64(h) / 2},
		Scale:      [2]float64{1.0 / DefaultWidth, 1.0 / DefaultHeight},
		WindowSize: [2]int{DefaultWidth, DefaultHeight},
	}
}

// SelectedPoints returns the free-form selection in row-major order.
func (s *State) SelectedPoints() []selection.Point {
	return s.Selection.Points()
}

// View is the engine readback needed to draw a frame.
type View interface {
	Mode() mode.Mode
	Cursor() selection.Point
	Region() selection.Set
}

// Highlight returns the pixels to mark on screen: the live Visual region,
// else the materialized selection, else the cursor.
func (s *State) Highlight(v View) selection.Set {
	if v.Mode() == mode.Visual {
		return v.Region()
	}
	if !s.Selection.IsEmpty() {
		out := selection.NewSet()
		for p := range s.Selection {
			out.Add(p)
		}
		return out
	}
	return selection.NewSet(v.Cursor())
}
