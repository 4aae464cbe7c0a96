package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/vipix/internal/dispatcher"
	"github.com/dshills/vipix/internal/input/key"
	"github.com/dshills/vipix/internal/input/keymap"
	"github.com/dshills/vipix/internal/input/mode"
	"github.com/dshills/vipix/internal/selection"
)

type testState struct {
	w, h    int
	sel     []selection.Point
	fired   [][]selection.Point
	edits   []key.Token
	editPos [][]selection.Point
}

func (s *testState) SelectedPoints() []selection.Point {
	return s.sel
}

func motion(dx, dy int) dispatcher.ObjectFunc[*testState] {
	return func(c dispatcher.Control, s *testState) []selection.Point {
		start := c.Cursor()
		c.WrappingDisplace(dx, dy, s.w, s.h)
		return []selection.Point{start, c.Cursor()}
	}
}

func newTestEngine(t *testing.T) *Engine[*testState] {
	t.Helper()
	eng := New[*testState](nil)

	require.NoError(t, eng.AddObject("h", motion(-1, 0)))
	require.NoError(t, eng.AddObject("j", motion(0, 1)))
	require.NoError(t, eng.AddObject("k", motion(0, -1)))
	require.NoError(t, eng.AddObject("l", motion(1, 0)))

	require.NoError(t, eng.AddVerb("s", true, func(_ dispatcher.Control, s *testState, p []selection.Point) {
		s.fired = append(s.fired, p)
	}))
	require.NoError(t, eng.AddVerb(":", false, func(c dispatcher.Control, _ *testState, _ []selection.Point) {
		c.SetMode(mode.Command)
	}))
	require.NoError(t, eng.AddVerb("v", false, func(c dispatcher.Control, _ *testState, _ []selection.Point) {
		c.SetPolicy(selection.Square)
		c.SetMode(mode.Visual)
	}))
	require.NoError(t, eng.AddVerb("V", false, func(c dispatcher.Control, _ *testState, _ []selection.Point) {
		c.SetPolicy(selection.Circle)
		c.SetMode(mode.Visual)
	}))
	require.NoError(t, eng.AddVerb("i", false, func(c dispatcher.Control, s *testState, _ []selection.Point) {
		if c.Mode() == mode.Visual {
			s.sel = c.Region().Points()
		}
		c.SetMode(mode.Insertion)
	}))
	require.NoError(t, eng.AddVerb("<Esc>", false, func(c dispatcher.Control, s *testState, _ []selection.Point) {
		s.sel = nil
		c.SetMode(mode.Normal)
	}, dispatcher.AllModes()))

	quit := dispatcher.CommandFunc[*testState](func(c dispatcher.Control, _ *testState, _ []string) error {
		c.Close()
		return nil
	})
	require.NoError(t, eng.AddCommand("q", quit))
	require.NoError(t, eng.AddCommand("quit", quit))

	eng.SetEditFunc(func(_ dispatcher.Control, s *testState, tok key.Token, p []selection.Point) {
		s.edits = append(s.edits, tok)
		s.editPos = append(s.editPos, p)
	})
	return eng
}

func feed(t *testing.T, eng *Engine[*testState], s *testState, text string) bool {
	t.Helper()
	events, err := Keys(text)
	require.NoError(t, err)
	return eng.Input(events, s)
}

func TestNewDefaults(t *testing.T) {
	eng := New[*testState](nil)
	assert.Equal(t, mode.Normal, eng.Mode())
	assert.Equal(t, selection.Point{}, eng.Cursor())
	assert.Equal(t, selection.Square, eng.Policy())
	assert.Empty(t, eng.Buffer())
	assert.False(t, eng.Closed())
	_, anchored := eng.Anchor()
	assert.False(t, anchored)
	assert.True(t, eng.Region().IsEmpty())
}

func TestWrappingMotionCycle(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		w := rapid.IntRange(1, 32).Draw(rt, "w")
		h := rapid.IntRange(1, 32).Draw(rt, "h")
		x := rapid.IntRange(0, w-1).Draw(rt, "x")
		y := rapid.IntRange(0, h-1).Draw(rt, "y")
		dir := rapid.SampledFrom([]string{"h", "j", "k", "l"}).Draw(rt, "dir")

		eng := newTestEngine(t)
		s := &testState{w: w, h: h}
		origin := selection.Point{X: x, Y: y}
		eng.SetCursor(origin)

		n := w
		if dir == "j" || dir == "k" {
			n = h
		}
		tok := key.MustParse(dir)
		for i := 0; i < n; i++ {
			eng.HandleKey(tok, s)
			c := eng.Cursor()
			if c.X < 0 || c.X >= w || c.Y < 0 || c.Y >= h {
				rt.Fatalf("cursor %v left the %dx%d grid", c, w, h)
			}
		}
		if eng.Cursor() != origin {
			rt.Fatalf("after %d x %s: cursor %v, want %v", n, dir, eng.Cursor(), origin)
		}
	})
}

func TestWrappingDisplaceNegative(t *testing.T) {
	eng := New[*testState](nil)
	eng.WrappingDisplace(-1, -1, 4, 3)
	assert.Equal(t, selection.Point{X: 3, Y: 2}, eng.Cursor())

	eng.WrappingDisplace(-9, 7, 4, 3)
	assert.Equal(t, selection.Point{X: 2, Y: 0}, eng.Cursor())

	eng.WrappingDisplace(1, 1, 0, 3)
	assert.Equal(t, selection.Point{X: 2, Y: 0}, eng.Cursor(), "empty grid leaves cursor alone")
}

func TestPendingVerbWaitsForObject(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}

	feed(t, eng, s, "s")
	assert.Empty(t, s.fired, "verb must not fire without an object")
	assert.Equal(t, selection.Point{}, eng.Cursor())
	pending, ok := eng.Pending()
	require.True(t, ok)
	assert.Equal(t, "s", pending.VimString())

	feed(t, eng, s, "l")
	require.Len(t, s.fired, 1)
	assert.Equal(t, []selection.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}, s.fired[0])
	assert.Equal(t, selection.Point{X: 1, Y: 0}, eng.Cursor())

	_, ok = eng.Pending()
	assert.False(t, ok)
}

func TestPendingVerbCancelledByUnrelatedKey(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}

	feed(t, eng, s, "sxl")
	assert.Empty(t, s.fired)
	assert.Equal(t, selection.Point{X: 1, Y: 0}, eng.Cursor(), "l is a plain motion after the cancel")
}

func TestPendingVerbReplacedByVerb(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}

	feed(t, eng, s, "s:")
	_, ok := eng.Pending()
	assert.False(t, ok)
	assert.Equal(t, mode.Command, eng.Mode())
}

func TestPendingVerbTraversalDeduplicated(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 1, h: 1}

	feed(t, eng, s, "sl")
	require.Len(t, s.fired, 1)
	assert.Equal(t, []selection.Point{{X: 0, Y: 0}}, s.fired[0], "a 1x1 wrap visits one point")
}

func TestRemapToMotions(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}
	require.NoError(t, eng.BindKey("a", mode.Normal, "ll"))

	assert.True(t, feed(t, eng, s, "a"))
	assert.Equal(t, selection.Point{X: 2, Y: 0}, eng.Cursor())
}

func TestRemapChain(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}
	require.NoError(t, eng.BindKey("a", mode.Normal, "bb"))
	require.NoError(t, eng.BindKey("b", mode.Normal, "j"))

	feed(t, eng, s, "a")
	assert.Equal(t, selection.Point{X: 0, Y: 2}, eng.Cursor())
	assert.Empty(t, eng.Status())
}

func TestSelfReferentialRemapTerminates(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}
	require.NoError(t, eng.BindKey("x", mode.Normal, "x"))

	assert.True(t, feed(t, eng, s, "x"))
	assert.Equal(t, keymap.ErrRemapCycle.Error(), eng.Status())

	// The engine keeps working afterwards.
	feed(t, eng, s, "l")
	assert.Equal(t, selection.Point{X: 1, Y: 0}, eng.Cursor())
}

func TestGrowingRemapTerminates(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}
	require.NoError(t, eng.BindKey("a", mode.Normal, "aa"))
	require.NoError(t, eng.BindKey("b", mode.Normal, "c"))
	require.NoError(t, eng.BindKey("c", mode.Normal, "b"))

	feed(t, eng, s, "a")
	assert.Equal(t, keymap.ErrRemapCycle.Error(), eng.Status())

	eng.SetStatus("")
	feed(t, eng, s, "b")
	assert.Equal(t, keymap.ErrRemapCycle.Error(), eng.Status())
}

func TestRemapDepthOption(t *testing.T) {
	table := keymap.NewTable()
	eng := New[*testState](nil, WithKeymap(table), WithMaxDepth(2))
	require.NoError(t, eng.AddObject("l", motion(1, 0)))
	require.NoError(t, table.BindText(mode.Normal, "a", "b"))
	require.NoError(t, table.BindText(mode.Normal, "b", "l"))
	require.NoError(t, table.BindText(mode.Normal, "c", "a"))

	s := &testState{w: 8, h: 8}
	feed(t, eng, s, "a")
	assert.Equal(t, selection.Point{X: 1, Y: 0}, eng.Cursor(), "two levels fit")
	assert.Empty(t, eng.Status())

	feed(t, eng, s, "c")
	assert.Equal(t, selection.Point{X: 1, Y: 0}, eng.Cursor(), "three levels are cut off")
	assert.Equal(t, keymap.ErrRemapCycle.Error(), eng.Status())
}

func TestRemapPrefixWaits(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}
	require.NoError(t, eng.BindKey("gl", mode.Normal, "lll"))

	feed(t, eng, s, "g")
	assert.Equal(t, selection.Point{}, eng.Cursor(), "prefix is held")

	feed(t, eng, s, "l")
	assert.Equal(t, selection.Point{X: 3, Y: 0}, eng.Cursor())

	// A prefix followed by a non-matching key releases both keys.
	feed(t, eng, s, "gj")
	assert.Equal(t, selection.Point{X: 3, Y: 1}, eng.Cursor())
}

func TestRemapExactMatchWins(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}
	require.NoError(t, eng.BindKey("g", mode.Normal, "l"))
	require.NoError(t, eng.BindKey("gg", mode.Normal, "jj"))

	feed(t, eng, s, "g")
	assert.Equal(t, selection.Point{X: 1, Y: 0}, eng.Cursor())
}

func TestRemapIsPerMode(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}
	require.NoError(t, eng.BindKey("<Left>", mode.Insertion, "<Esc>hi"))

	feed(t, eng, s, "ll<Left>")
	assert.Equal(t, selection.Point{X: 2, Y: 0}, eng.Cursor(), "no Normal binding for <Left>")

	feed(t, eng, s, "i<Left>")
	assert.Equal(t, selection.Point{X: 1, Y: 0}, eng.Cursor())
	assert.Equal(t, mode.Insertion, eng.Mode())
	assert.Empty(t, s.edits)
}

func TestCommandQuit(t *testing.T) {
	for _, line := range []string{":quit<CR>", ":q<CR>", ":  quit  <CR>"} {
		t.Run(line, func(t *testing.T) {
			eng := newTestEngine(t)
			s := &testState{w: 4, h: 4}

			assert.False(t, feed(t, eng, s, line))
			assert.True(t, eng.Closed())
			assert.False(t, feed(t, eng, s, "l"), "closed stays closed")
			assert.Equal(t, selection.Point{}, eng.Cursor())
		})
	}
}

func TestCommandQuitStopsBatch(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 4, h: 4}

	assert.False(t, feed(t, eng, s, ":q<CR>ll"))
	assert.Equal(t, selection.Point{}, eng.Cursor())
}

func TestCommandEcho(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 4, h: 4}

	feed(t, eng, s, ":qu<Space>x")
	assert.Equal(t, mode.Command, eng.Mode())
	assert.Equal(t, "qu x", eng.Buffer())

	feed(t, eng, s, "<BS><BS>")
	assert.Equal(t, "qu", eng.Buffer())

	feed(t, eng, s, "<Esc>")
	assert.Equal(t, mode.Normal, eng.Mode())
	assert.Empty(t, eng.Buffer())
	assert.False(t, eng.Closed())
}

func TestCommandBackspaceOnEmptyAborts(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 4, h: 4}

	feed(t, eng, s, ":<BS>")
	assert.Equal(t, mode.Normal, eng.Mode())
}

func TestCommandUnknown(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 4, h: 4}

	assert.True(t, feed(t, eng, s, ":nope arg<CR>"))
	assert.Equal(t, "unknown command: nope", eng.Status())
	assert.Equal(t, mode.Normal, eng.Mode())
	assert.Empty(t, eng.Buffer())
}

func TestCommandEmptyLine(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 4, h: 4}

	feed(t, eng, s, ":<CR>")
	assert.Equal(t, mode.Normal, eng.Mode())
	assert.Empty(t, eng.Status())
}

func TestCommandArgsAndErrors(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 4, h: 4}

	var got []string
	require.NoError(t, eng.AddCommand("echo", dispatcher.CommandFunc[*testState](func(_ dispatcher.Control, _ *testState, args []string) error {
		got = args
		if len(args) == 0 {
			return dispatcher.Usagef("echo <words>")
		}
		return nil
	})))

	feed(t, eng, s, ":echo a b<CR>")
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Empty(t, eng.Status())

	feed(t, eng, s, ":echo<CR>")
	assert.Equal(t, "usage: echo <words>", eng.Status())
	assert.Equal(t, mode.Normal, eng.Mode())
}

func TestCommandKeepsModeItSets(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 4, h: 4}
	require.NoError(t, eng.AddCommand("insert", dispatcher.CommandFunc[*testState](func(c dispatcher.Control, _ *testState, _ []string) error {
		c.SetMode(mode.Insertion)
		return nil
	})))

	feed(t, eng, s, ":insert<CR>")
	assert.Equal(t, mode.Insertion, eng.Mode())
}

func TestCommandBindsKey(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}
	require.NoError(t, eng.AddCommand("nmap", dispatcher.CommandFunc[*testState](func(c dispatcher.Control, _ *testState, args []string) error {
		if len(args) != 2 {
			return dispatcher.Usagef("nmap <trigger> <expansion>")
		}
		return c.BindKey(args[0], mode.Normal, args[1])
	})))

	feed(t, eng, s, ":nmap z jj<CR>z")
	assert.Equal(t, selection.Point{X: 0, Y: 2}, eng.Cursor())
	require.Len(t, eng.Bindings(mode.Normal), 1)

	feed(t, eng, s, ":nmap y <lt>Nope><CR>")
	assert.Contains(t, eng.Status(), "malformed key token")
}

func TestVisualSquareThenInsert(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}
	eng.SetCursor(selection.Point{X: 1, Y: 1})

	feed(t, eng, s, "v")
	assert.Equal(t, mode.Visual, eng.Mode())
	anchor, ok := eng.Anchor()
	require.True(t, ok)
	assert.Equal(t, selection.Point{X: 1, Y: 1}, anchor)

	feed(t, eng, s, "lljj")
	assert.Equal(t, 9, eng.Region().Len())

	feed(t, eng, s, "i")
	assert.Equal(t, mode.Insertion, eng.Mode())
	want := selection.Select(selection.Square, selection.Point{X: 1, Y: 1}, selection.Point{X: 3, Y: 3}).Points()
	assert.Equal(t, want, s.sel)

	_, ok = eng.Anchor()
	assert.False(t, ok, "leaving Visual clears the anchor")
}

func TestVisualCircleThenInsert(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}

	feed(t, eng, s, "Vlllljjjji")
	want := selection.Select(selection.Circle, selection.Point{}, selection.Point{X: 4, Y: 4}).Points()
	assert.Equal(t, want, s.sel)
	assert.Len(t, s.sel, 16)
}

func TestVisualRegionIsNormalized(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}
	eng.SetCursor(selection.Point{X: 3, Y: 3})

	feed(t, eng, s, "vhhkk")
	want := selection.Select(selection.Square, selection.Point{X: 1, Y: 1}, selection.Point{X: 3, Y: 3})
	assert.Equal(t, want, eng.Region())
}

func TestInsertionEditTargets(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}

	feed(t, eng, s, "lia")
	require.Len(t, s.edits, 1)
	assert.Equal(t, "a", s.edits[0].VimString())
	assert.Equal(t, []selection.Point{{X: 1, Y: 0}}, s.editPos[0])

	s.sel = []selection.Point{{X: 5, Y: 5}, {X: 6, Y: 6}}
	feed(t, eng, s, "<C-z>")
	require.Len(t, s.edits, 2)
	assert.Equal(t, "<C-z>", s.edits[1].VimString())
	assert.Equal(t, s.sel, s.editPos[1])
}

func TestInsertionIgnoresNormalVerbs(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}

	feed(t, eng, s, "i:sl")
	assert.Equal(t, mode.Insertion, eng.Mode())
	assert.Len(t, s.edits, 3)
	assert.Empty(t, s.fired)
	assert.Equal(t, selection.Point{}, eng.Cursor())
}

func TestEscapeClearsSelection(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}

	feed(t, eng, s, "vlli")
	require.NotEmpty(t, s.sel)

	feed(t, eng, s, "<Esc>")
	assert.Equal(t, mode.Normal, eng.Mode())
	assert.Empty(t, s.sel)
	assert.Equal(t, selection.Point{X: 2, Y: 0}, eng.Cursor(), "escape keeps the cursor")
}

func TestUnmatchedKeysAreNoOps(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}

	assert.True(t, feed(t, eng, s, "xyz<F5><C-q>"))
	assert.Equal(t, mode.Normal, eng.Mode())
	assert.Equal(t, selection.Point{}, eng.Cursor())
	assert.Empty(t, eng.Status())
}

func TestSetModeTransitions(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}

	var seen [][2]mode.Mode
	eng.OnModeChange(func(from, to mode.Mode) {
		seen = append(seen, [2]mode.Mode{from, to})
	})

	feed(t, eng, s, "s")
	eng.SetMode(mode.Visual)
	_, ok := eng.Pending()
	assert.False(t, ok, "mode change cancels the pending verb")

	eng.SetMode(mode.Visual)
	eng.SetMode(mode.Command)
	eng.SetMode(mode.Normal)

	assert.Equal(t, [][2]mode.Mode{
		{mode.Normal, mode.Visual},
		{mode.Visual, mode.Command},
		{mode.Command, mode.Normal},
	}, seen)
}

func TestWindowEventsBeforeKeys(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}

	var order []string
	eng.SetWindowEventListener(func(s *testState, ev Event) {
		order = append(order, ev.Kind.String())
		if ev.Kind == EventResize {
			s.w, s.h = ev.Width, ev.Height
		}
	})
	require.NoError(t, eng.AddObject(".", dispatcher.ObjectFunc[*testState](func(c dispatcher.Control, s *testState) []selection.Point {
		order = append(order, "key")
		return []selection.Point{c.Cursor()}
	})))

	events := Events{KeyEvent(key.MustParse(".")), ResizeEvent(2, 2), KeyEvent(key.MustParse("l")), KeyEvent(key.MustParse("l"))}
	assert.True(t, eng.Input(&events, s))
	assert.Equal(t, []string{"resize", "key"}, order)
	assert.Equal(t, selection.Point{}, eng.Cursor(), "motions see the resized grid")
}

func TestCloseEvent(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}

	events := Events{KeyEvent(key.MustParse("l")), CloseEvent()}
	assert.False(t, eng.Input(&events, s))
	assert.Equal(t, selection.Point{}, eng.Cursor(), "keys after a close request are dropped")

	empty := Events{}
	assert.False(t, eng.Input(&empty, s))
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}
	require.NoError(t, eng.AddVerb("!", false, func(dispatcher.Control, *testState, []selection.Point) {
		panic(errors.New("boom"))
	}))

	assert.NotPanics(t, func() { feed(t, eng, s, "!l") })
	assert.Contains(t, eng.Status(), "boom")
	assert.Equal(t, selection.Point{X: 1, Y: 0}, eng.Cursor())
}

func TestShiftedTokensMatchCanonicalNames(t *testing.T) {
	eng := newTestEngine(t)
	s := &testState{w: 8, h: 8}
	hits := 0
	require.NoError(t, eng.AddVerb("<S-+>", false, func(dispatcher.Control, *testState, []selection.Point) {
		hits++
	}))

	eng.HandleKey(key.NewRune('+', key.ModShift), s)
	eng.HandleKey(key.NewRune('+', key.ModNone), s)
	assert.Equal(t, 2, hits)
}

func TestKeysRejectsMalformed(t *testing.T) {
	_, err := Keys("<Esc")
	assert.ErrorIs(t, err, key.ErrMalformedToken)
}
