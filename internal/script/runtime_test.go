package script

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vipix/internal/dispatcher"
	"github.com/dshills/vipix/internal/engine"
	"github.com/dshills/vipix/internal/input/mode"
	"github.com/dshills/vipix/internal/selection"
)

type host struct{}

type recordingLogger struct {
	infos []string
}

func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(msg string, args ...any) {
	l.infos = append(l.infos, msg)
}

func newHarness(t *testing.T, opts ...Option) (*Runtime, *engine.Engine[*host]) {
	t.Helper()
	eng := engine.New[*host](nil)
	require.NoError(t, eng.AddObject("l", dispatcher.ObjectFunc[*host](func(c dispatcher.Control, _ *host) []selection.Point {
		c.WrappingDisplace(1, 0, 8, 8)
		return []selection.Point{c.Cursor()}
	})))
	require.NoError(t, eng.AddVerb(":", false, func(c dispatcher.Control, _ *host, _ []selection.Point) {
		c.SetMode(mode.Command)
	}))

	reg := func(name string, run func(c dispatcher.Control, args []string) error) error {
		return eng.AddCommand(name, dispatcher.CommandFunc[*host](func(c dispatcher.Control, _ *host, args []string) error {
			return run(c, args)
		}))
	}
	rt := New(append([]Option{WithRegistrar(reg)}, opts...)...)
	t.Cleanup(func() { _ = rt.Close() })
	return rt, eng
}

func feed(t *testing.T, eng *engine.Engine[*host], text string) {
	t.Helper()
	events, err := engine.Keys(text)
	require.NoError(t, err)
	eng.Input(events, &host{})
}

func TestSandboxRemovesLoaders(t *testing.T) {
	rt, eng := newHarness(t)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "io", "os", "debug"} {
		err := rt.LoadString(eng, `assert(`+name+` == nil, "`+name+` is reachable")`)
		assert.NoError(t, err, name)
	}

	require.NoError(t, rt.LoadString(eng, `x = math.floor(2.5) .. string.upper("a") .. table.concat({1, 2}, ",")`))
	assert.Equal(t, "2A1,2", rt.L.GetGlobal("x").String())
}

func TestPrintGoesToLogger(t *testing.T) {
	log := &recordingLogger{}
	rt, eng := newHarness(t, WithLogger(log))

	require.NoError(t, rt.LoadString(eng, `print("hi", 1)`))
	assert.Len(t, log.infos, 1)
}

func TestBindFromScript(t *testing.T) {
	rt, eng := newHarness(t)

	require.NoError(t, rt.LoadString(eng, `vipix.bind("normal", "w", "lll")`))
	feed(t, eng, "w")
	assert.Equal(t, selection.Point{X: 3, Y: 0}, eng.Cursor())

	err := rt.LoadString(eng, `vipix.bind("normal", "y", "<Nope>")`)
	assert.ErrorIs(t, err, ErrScript)
	assert.Contains(t, err.Error(), "malformed key token")

	err = rt.LoadString(eng, `vipix.bind("sideways", "y", "l")`)
	assert.ErrorIs(t, err, ErrScript)
}

func TestCommandFromScript(t *testing.T) {
	rt, eng := newHarness(t)

	require.NoError(t, rt.LoadString(eng, `
		vipix.command("hello", function(args)
			vipix.status("hello " .. (args[1] or "world"))
		end)
		vipix.command("where", function(args)
			local x, y = vipix.cursor()
			return x .. "," .. y .. " " .. vipix.mode()
		end)
	`))
	assert.Equal(t, []string{"hello", "where"}, rt.Commands())

	feed(t, eng, ":hello<CR>")
	assert.Equal(t, "hello world", eng.Status())

	feed(t, eng, ":hello there<CR>")
	assert.Equal(t, "hello there", eng.Status())

	feed(t, eng, "ll:where<CR>")
	assert.Equal(t, "2,0 Command", eng.Status())
}

func TestCommandErrorsReachStatus(t *testing.T) {
	rt, eng := newHarness(t)

	require.NoError(t, rt.LoadString(eng, `vipix.command("boom", function() error("kaboom") end)`))
	feed(t, eng, ":boom<CR>")
	assert.Contains(t, eng.Status(), "kaboom")
	assert.Equal(t, mode.Normal, eng.Mode())
}

func TestSetModeFromCommand(t *testing.T) {
	rt, eng := newHarness(t)

	require.NoError(t, rt.LoadString(eng, `vipix.command("ins", function() vipix.setmode("insertion") end)`))
	feed(t, eng, ":ins<CR>")
	assert.Equal(t, mode.Insertion, eng.Mode())
}

func TestAPIRequiresControl(t *testing.T) {
	rt, _ := newHarness(t)

	err := rt.LoadString(nil, `vipix.status("x")`)
	assert.ErrorIs(t, err, ErrScript)
	assert.Contains(t, err.Error(), ErrNoControl.Error())

	// Plain Lua needs no control.
	assert.NoError(t, rt.LoadString(nil, `y = 1 + 1`))
}

func TestCommandWithoutRegistrar(t *testing.T) {
	rt := New()
	defer rt.Close()

	err := rt.LoadString(nil, `vipix.command("x", function() end)`)
	assert.ErrorIs(t, err, ErrScript)
}

func TestSourceFile(t *testing.T) {
	rt, eng := newHarness(t)

	path := filepath.Join(t.TempDir(), "init.lua")
	require.NoError(t, os.WriteFile(path, []byte(`vipix.bind("n", "e", "l")`), 0o644))

	require.NoError(t, rt.Source(eng, path))
	feed(t, eng, "e")
	assert.Equal(t, selection.Point{X: 1, Y: 0}, eng.Cursor())

	err := rt.Source(eng, filepath.Join(t.TempDir(), "missing.lua"))
	assert.ErrorIs(t, err, ErrScript)
}

func TestTimeout(t *testing.T) {
	rt, eng := newHarness(t, WithTimeout(50*time.Millisecond))

	err := rt.LoadString(eng, `while true do end`)
	assert.ErrorIs(t, err, ErrScript)

	// The state is usable after a timeout.
	assert.NoError(t, rt.LoadString(eng, `z = 3`))
}

func TestClosed(t *testing.T) {
	rt, eng := newHarness(t)
	require.NoError(t, rt.Close())
	require.NoError(t, rt.Close())

	assert.ErrorIs(t, rt.LoadString(eng, `x = 1`), ErrClosed)
	assert.ErrorIs(t, rt.Source(eng, "init.lua"), ErrClosed)
}
