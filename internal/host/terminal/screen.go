package terminal

import (
	"fmt"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/vipix/internal/canvas"
	"github.com/dshills/vipix/internal/editor"
	"github.com/dshills/vipix/internal/engine"
	"github.com/dshills/vipix/internal/selection"
)

// queueSize bounds the events buffered between two polls.
const queueSize = 256

// highlightRune marks highlighted pixels.
const highlightRune = '▒'

// highlightMix is how far the highlight shade moves from the pixel
// color toward its contrast color.
const highlightMix = 0.8

// Screen is a tcell-backed host.
type Screen struct {
	screen tcell.Screen
	events chan engine.Event
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// New opens the terminal.
func New() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	return NewWithScreen(s)
}

// NewWithScreen initializes s and starts reading its events.
func NewWithScreen(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	s.HideCursor()

	t := &Screen{
		screen: s,
		events: make(chan engine.Event, queueSize),
		done:   make(chan struct{}),
	}
	t.wg.Add(1)
	go t.read()
	return t, nil
}

// read forwards tcell events until the screen is finalized.
func (t *Screen) read() {
	defer t.wg.Done()
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		converted, ok := convertEvent(ev)
		if !ok {
			continue
		}
		select {
		case t.events <- converted:
		case <-t.done:
			return
		}
	}
}

// Poll returns the events received since the last call. It never blocks.
func (t *Screen) Poll() []engine.Event {
	var out []engine.Event
	for {
		select {
		case ev := <-t.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

// Size returns the terminal size in cells.
func (t *Screen) Size() (int, int) {
	return t.screen.Size()
}

// Close restores the terminal and stops the reader.
// It is safe to call more than once.
func (t *Screen) Close() {
	t.once.Do(func() {
		close(t.done)
		t.screen.Fini()
		t.wg.Wait()
	})
}

// Draw renders one frame: the canvas, the highlighted pixels and the
// status row.
func (t *Screen) Draw(eng *editor.Engine, s *editor.State) {
	if s.MustResize {
		t.screen.Sync()
	}
	t.screen.Clear()

	w, h := t.screen.Size()
	if h > 1 {
		t.drawCanvas(s, s.Highlight(eng), w, h-1)
	}
	t.drawStatus(eng, w, h-1)

	t.screen.Show()
}

// cellSize is the number of terminal cells one pixel covers at zoom.
func cellSize(zoom float64) (cw, ch int) {
	cw = max(1, int(math.Round(2*zoom)))
	ch = max(1, int(math.Round(zoom)))
	return cw, ch
}

// origin returns the screen cell of pixel (0, 0). Center is the view
// offset in pixels; the default centers the canvas.
func origin(s *editor.State, w, h, cw, ch int) (int, int) {
	x := w/2 + int(math.Round(s.Center[0]*float64(cw)))
	y := h/2 + int(math.Round(s.Center[1]*float64(ch)))
	return x, y
}

func (t *Screen) drawCanvas(s *editor.State, hl selection.Set, w, h int) {
	cw, ch := cellSize(s.Zoom)
	ox, oy := origin(s, w, h, cw, ch)
	cols, rows := s.Canvas.Size()

	for py := 0; py < rows; py++ {
		for px := 0; px < cols; px++ {
			col := s.Canvas.At(px, py)
			style := tcell.StyleDefault.Background(tcellColor(col))
			r := ' '
			if hl.Has(selection.Point{X: px, Y: py}) {
				r = highlightRune
				style = style.Foreground(tcellColor(col.Blend(contrast(col), highlightMix)))
			}

			for dy := 0; dy < ch; dy++ {
				y := oy + py*ch + dy
				if y < 0 || y >= h {
					continue
				}
				for dx := 0; dx < cw; dx++ {
					x := ox + px*cw + dx
					if x < 0 || x >= w {
						continue
					}
					t.screen.SetContent(x, y, r, nil, style)
				}
			}
		}
	}
}

// drawStatus writes "Mode:buffer" and the status message on row y,
// truncated to the terminal width.
func (t *Screen) drawStatus(eng *editor.Engine, w, y int) {
	if y < 0 || w <= 0 {
		return
	}
	line := StatusLine(eng)
	line = runewidth.Truncate(line, w, "…")

	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range line {
		t.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	for ; x < w; x++ {
		t.screen.SetContent(x, y, ' ', nil, style)
	}
}

// StatusLine formats the bottom row.
func StatusLine(eng *editor.Engine) string {
	line := fmt.Sprintf("%s:%s", eng.Mode(), eng.Buffer())
	if status := eng.Status(); status != "" {
		line += "  " + status
	}
	return line
}

func tcellColor(c canvas.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// contrast picks black or white, whichever reads better on c.
func contrast(c canvas.Color) canvas.Color {
	l, _, _ := c.Colorful().Lab()
	if l > 0.5 {
		return canvas.Black
	}
	return canvas.White
}
