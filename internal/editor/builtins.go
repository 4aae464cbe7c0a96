package editor

import (
	"fmt"
	"strings"

	"github.com/dshills/vipix/internal/canvas"
	"github.com/dshills/vipix/internal/dispatcher"
	"github.com/dshills/vipix/internal/engine"
	"github.com/dshills/vipix/internal/input/key"
	"github.com/dshills/vipix/internal/input/mode"
	"github.com/dshills/vipix/internal/selection"
)

// Engine is the engine type the editor runs on.
type Engine = engine.Engine[*State]

// BindingSource tags the built-in key bindings.
const BindingSource = "default"

type (
	verbFunc    = dispatcher.VerbFunc[*State]
	commandFunc = dispatcher.CommandFunc[*State]
)

// motions maps each motion key to its displacement.
var motions = []struct {
	name   string
	dx, dy int
}{
	{"h", -1, 0},
	{"j", 0, 1},
	{"k", 0, -1},
	{"l", 1, 0},
	{".", 0, 0},
}

// arrowBindings turn Insertion-mode arrows into a move and re-entry.
var arrowBindings = [][2]string{
	{"<Left>", "<Esc>hi"},
	{"<Right>", "<Esc>li"},
	{"<Down>", "<Esc>ji"},
	{"<Up>", "<Esc>ki"},
}

// Install registers the built-in objects, verbs, commands, key bindings,
// edit callback and window listener on eng.
func Install(eng *Engine) error {
	for _, m := range motions {
		if err := eng.AddObject(m.name, move(m.dx, m.dy)); err != nil {
			return fmt.Errorf("install object %s: %w", m.name, err)
		}
	}

	verbs := []struct {
		name           string
		needsPositions bool
		fn             verbFunc
		opts           []dispatcher.VerbOption
	}{
		{"s", true, paintWhite, nil},
		{"<S-+>", false, zoomBy(ZoomStep), nil},
		{"-", false, zoomBy(-ZoomStep), nil},
		{":", false, enterCommand, nil},
		{"i", false, enterInsertion, nil},
		{"v", false, enterVisual(selection.Square), nil},
		{"V", false, enterVisual(selection.Circle), nil},
		{"H", false, pan(-PanStep, 0), nil},
		{"J", false, pan(0, PanStep), nil},
		{"K", false, pan(0, -PanStep), nil},
		{"L", false, pan(PanStep, 0), nil},
		{"_", true, func(dispatcher.Control, *State, []selection.Point) {}, nil},
		{"<Esc>", false, escape, []dispatcher.VerbOption{dispatcher.AllModes()}},
	}
	for _, v := range verbs {
		if err := eng.AddVerb(v.name, v.needsPositions, v.fn, v.opts...); err != nil {
			return fmt.Errorf("install verb %s: %w", v.name, err)
		}
	}

	commands := []struct {
		name string
		fn   commandFunc
	}{
		{"q", quit},
		{"quit", quit},
		{"imap", mapIn(mode.Insertion)},
		{"nmap", mapIn(mode.Normal)},
		{"vmap", mapIn(mode.Visual)},
		{"map", listBindings},
		{"color", setColor},
		{"colors", listColors},
		{"fill", fill},
		{"source", source},
	}
	for _, c := range commands {
		if err := eng.AddCommand(c.name, c.fn); err != nil {
			return fmt.Errorf("install command %s: %w", c.name, err)
		}
	}

	for _, b := range arrowBindings {
		if err := eng.Keymap().BindTextFrom(BindingSource, mode.Insertion, b[0], b[1]); err != nil {
			return fmt.Errorf("install binding %s: %w", b[0], err)
		}
	}

	eng.SetEditFunc(paintKey)
	eng.SetWindowEventListener(onWindowEvent)
	return nil
}

// move is a wrapping cursor motion reporting its start and end.
func move(dx, dy int) dispatcher.ObjectFunc[*State] {
	return func(c dispatcher.Control, s *State) []selection.Point {
		start := c.Cursor()
		w, h := s.Canvas.Size()
		c.WrappingDisplace(dx, dy, w, h)
		return []selection.Point{start, c.Cursor()}
	}
}

func paintWhite(_ dispatcher.Control, s *State, positions []selection.Point) {
	s.Canvas.Paint(positions, canvas.White)
}

func zoomBy(step float64) verbFunc {
	return func(_ dispatcher.Control, s *State, _ []selection.Point) {
		s.Zoom += step
	}
}

func pan(dx, dy float64) verbFunc {
	return func(_ dispatcher.Control, s *State, _ []selection.Point) {
		s.Center[0] += dx
		s.Center[1] += dy
	}
}

func enterCommand(c dispatcher.Control, _ *State, _ []selection.Point) {
	c.SetMode(mode.Command)
}

// enterInsertion switches to Insertion, first turning a Visual region
// into the free-form selection.
func enterInsertion(c dispatcher.Control, s *State, _ []selection.Point) {
	if c.Mode() == mode.Visual {
		s.Selection.Clear()
		for p := range c.Region() {
			s.Selection.Add(p)
		}
	}
	c.SetMode(mode.Insertion)
}

func enterVisual(policy selection.Policy) verbFunc {
	return func(c dispatcher.Control, _ *State, _ []selection.Point) {
		c.SetPolicy(policy)
		c.SetMode(mode.Visual)
	}
}

func escape(c dispatcher.Control, s *State, _ []selection.Point) {
	s.Selection.Clear()
	c.SetMode(mode.Normal)
}

// paintKey paints the palette color of tok over positions.
// Keys without a color are ignored.
func paintKey(_ dispatcher.Control, s *State, tok key.Token, positions []selection.Point) {
	col, ok := s.Palette.Lookup(tok)
	if !ok {
		return
	}
	s.Canvas.Paint(positions, col)
}

// onWindowEvent tracks the framebuffer size.
func onWindowEvent(s *State, ev engine.Event) {
	if ev.Kind != engine.EventResize || ev.Width <= 0 || ev.Height <= 0 {
		return
	}
	s.Scale = [2]float64{1 / float64(ev.Width), 1 / float64(ev.Height)}
	s.WindowSize = [2]int{ev.Width, ev.Height}
	s.MustResize = true
}

func quit(c dispatcher.Control, _ *State, _ []string) error {
	c.Close()
	return nil
}

// mapIn returns the :imap / :nmap / :vmap command for mode m.
func mapIn(m mode.Mode) commandFunc {
	return func(c dispatcher.Control, _ *State, args []string) error {
		if len(args) != 2 {
			return dispatcher.Usagef("%smap <trigger> <expansion>", strings.ToLower(m.String()[:1]))
		}
		if err := c.BindKey(args[0], m, args[1]); err != nil {
			return err
		}
		c.SetStatus(fmt.Sprintf("%s %s -> %s", m, args[0], args[1]))
		return nil
	}
}

// listBindings shows the bindings of one mode, or all modes, on the
// status line.
func listBindings(c dispatcher.Control, _ *State, args []string) error {
	modes := mode.All()
	if len(args) > 1 {
		return dispatcher.Usagef("map [mode]")
	}
	if len(args) == 1 {
		m, err := mode.Parse(args[0])
		if err != nil {
			return err
		}
		modes = []mode.Mode{m}
	}

	var parts []string
	for _, m := range modes {
		for _, b := range c.Bindings(m) {
			parts = append(parts, b.String())
		}
	}
	if len(parts) == 0 {
		c.SetStatus("no bindings")
		return nil
	}
	c.SetStatus(strings.Join(parts, ", "))
	return nil
}

func setColor(c dispatcher.Control, s *State, args []string) error {
	if len(args) != 2 {
		return dispatcher.Usagef("color <key> <hex>")
	}
	return s.Palette.SetHex(args[0], args[1])
}

// listColors shows the palette on the status line.
func listColors(c dispatcher.Control, s *State, args []string) error {
	if len(args) != 0 {
		return dispatcher.Usagef("colors")
	}
	entries := s.Palette.Entries()
	if len(entries) == 0 {
		c.SetStatus("no colors")
		return nil
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, e.Key.VimString()+"="+e.Color.Hex())
	}
	c.SetStatus(strings.Join(parts, ", "))
	return nil
}

func fill(_ dispatcher.Control, s *State, args []string) error {
	if len(args) != 1 {
		return dispatcher.Usagef("fill <hex>")
	}
	col, err := canvas.ParseColor(args[0])
	if err != nil {
		return err
	}
	s.Canvas.Fill(col)
	return nil
}

func source(c dispatcher.Control, s *State, args []string) error {
	if len(args) != 1 {
		return dispatcher.Usagef("source <file>")
	}
	if s.Scripts == nil {
		return fmt.Errorf("source %s: scripting disabled", args[0])
	}
	return s.Scripts.Source(c, args[0])
}

// CommandAdder returns a function that registers state-independent
// commands on eng, as script runtimes do.
func CommandAdder(eng *Engine) func(name string, run func(c dispatcher.Control, args []string) error) error {
	return func(name string, run func(c dispatcher.Control, args []string) error) error {
		if run == nil {
			return dispatcher.ErrNilHandler
		}
		return eng.AddCommand(name, commandFunc(func(c dispatcher.Control, _ *State, args []string) error {
			return run(c, args)
		}))
	}
}
