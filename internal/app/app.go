package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/vipix/internal/canvas"
	"github.com/dshills/vipix/internal/config"
	"github.com/dshills/vipix/internal/config/loader"
	"github.com/dshills/vipix/internal/config/watcher"
	"github.com/dshills/vipix/internal/editor"
	"github.com/dshills/vipix/internal/engine"
	"github.com/dshills/vipix/internal/script"
)

// DefaultTickRate is the interval between host polls.
const DefaultTickRate = 16 * time.Millisecond

// KeymapSource tags bindings loaded from the keymap file.
const KeymapSource = "keymap"

// Host is the window the editor runs in. It supplies input and draws
// frames. Poll must not block.
type Host interface {
	engine.EventSource
	Draw(eng *editor.Engine, s *editor.State)
}

// Option configures an App.
type Option func(*App)

// WithLogOutput overrides the log destination chosen by the config.
func WithLogOutput(w io.Writer) Option {
	return func(a *App) {
		a.logOutput = w
	}
}

// WithTickRate sets the interval between host polls.
func WithTickRate(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.tickRate = d
		}
	}
}

// App owns one editing session.
type App struct {
	cfg       config.Config
	logger    *Logger
	logOutput io.Writer
	logFile   *os.File
	session   string
	tickRate  time.Duration

	engine  *editor.Engine
	state   *editor.State
	scripts *script.Runtime

	watcher     *watcher.Watcher
	reloads     <-chan watcher.Event
	watchErrors <-chan error
}

// New builds a session from cfg: canvas, palette, engine, built-ins,
// keymap file, startup script and keymap watcher, in that order.
// Any failure is an ErrInitialization.
func New(cfg config.Config, opts ...Option) (*App, error) {
	a := &App{
		cfg:      cfg,
		session:  uuid.NewString(),
		tickRate: DefaultTickRate,
	}
	for _, opt := range opts {
		opt(a)
	}

	if err := a.initLogger(); err != nil {
		return nil, err
	}
	if err := a.init(); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) initLogger() error {
	out := a.logOutput
	if out == nil && a.cfg.Log.File != "" {
		f, err := os.OpenFile(a.cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return initError("open log", a.cfg.Log.File, err)
		}
		a.logFile = f
		out = f
	}
	if out == nil {
		out = io.Discard
	}

	lc := DefaultLoggerConfig()
	lc.Level = ParseLogLevel(a.cfg.Log.Level)
	lc.Output = out
	a.logger = NewLogger(lc).WithField("session", a.session)
	return nil
}

func (a *App) init() error {
	if err := a.cfg.Validate(); err != nil {
		return initError("validate", "config", err)
	}

	palette := canvas.DefaultPalette()
	for tok, hex := range a.cfg.Palette {
		if err := palette.SetHex(tok, hex); err != nil {
			return initError("palette", tok, err)
		}
	}

	a.engine = engine.New[*editor.State](nil, engine.WithLogger(a.logger.WithComponent("engine")))
	if err := editor.Install(a.engine); err != nil {
		return initError("install", "builtins", err)
	}
	a.state = editor.NewState(canvas.New(a.cfg.Canvas.Width, a.cfg.Canvas.Height), palette)

	a.scripts = script.New(
		script.WithLogger(a.logger.WithComponent("script")),
		script.WithRegistrar(editor.CommandAdder(a.engine)),
	)
	a.state.Scripts = a.scripts

	if a.cfg.Keymap != "" {
		if err := a.loadKeymap(); err != nil {
			return initError("load keymap", a.cfg.Keymap, err)
		}
	}

	if a.cfg.Script != "" {
		if err := a.scripts.Source(a.engine, a.cfg.Script); err != nil {
			return initError("source", a.cfg.Script, err)
		}
	}

	if a.cfg.Watch && a.cfg.Keymap != "" {
		w, err := watcher.New(a.cfg.Keymap)
		if err != nil {
			return initError("watch", a.cfg.Keymap, err)
		}
		ch, err := w.Start()
		if err != nil {
			_ = w.Stop()
			return initError("watch", a.cfg.Keymap, err)
		}
		a.watcher = w
		a.reloads = ch
		a.watchErrors = w.Errors()
	}

	a.logger.Info("session started: canvas %dx%d", a.cfg.Canvas.Width, a.cfg.Canvas.Height)
	return nil
}

// loadKeymap reads the keymap file and applies it to the engine and palette.
func (a *App) loadKeymap() error {
	km, err := loader.LoadKeymap(a.cfg.Keymap)
	if err != nil {
		return err
	}
	if err := loader.Apply(km, KeymapSource, a.engine.Keymap(), a.state.Palette); err != nil {
		return err
	}
	a.logger.Debug("keymap %s: %d bindings, %d colors", filepath.Base(a.cfg.Keymap), len(km.Bindings), len(km.Palette))
	return nil
}

// Run drives the editor until it quits, the host closes or ctx is
// cancelled. A quit from inside the editor returns ErrQuit.
func (a *App) Run(ctx context.Context, host Host) error {
	if host == nil {
		return ErrNoHost
	}

	ticker := time.NewTicker(a.tickRate)
	defer ticker.Stop()

	host.Draw(a.engine, a.state)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-a.reloads:
			if !ok {
				a.reloads = nil
				continue
			}
			a.reload(ev)

		case err, ok := <-a.watchErrors:
			if !ok {
				a.watchErrors = nil
				continue
			}
			a.logger.Warn("keymap watch: %v", err)

		case <-ticker.C:
			if !a.Step(host) {
				a.logger.Info("session ended")
				return ErrQuit
			}
		}
	}
}

// Step processes one batch of host input and draws a frame. It reports
// false once the editor has closed.
func (a *App) Step(host Host) bool {
	alive := a.engine.Input(host, a.state)
	if !alive {
		return false
	}
	host.Draw(a.engine, a.state)
	a.state.MustResize = false
	return true
}

func (a *App) reload(ev watcher.Event) {
	if err := a.loadKeymap(); err != nil {
		a.logger.Warn("keymap reload: %v", err)
		a.engine.SetStatus(NewOperationError("reload", filepath.Base(ev.Path), err).Error())
		return
	}
	a.logger.Info("keymap reloaded")
	a.engine.SetStatus("keymap reloaded")
}

// Close releases the watcher, script runtime and log file.
// It is safe to call more than once.
func (a *App) Close() error {
	var errs []error
	if a.watcher != nil {
		if err := a.watcher.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop watcher: %w", err))
		}
		a.watcher = nil
		a.reloads = nil
		a.watchErrors = nil
	}
	if a.scripts != nil {
		if err := a.scripts.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close scripts: %w", err))
		}
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close log: %w", err))
		}
		a.logFile = nil
	}
	return errors.Join(errs...)
}

// Engine returns the dispatch engine.
func (a *App) Engine() *editor.Engine {
	return a.engine
}

// State returns the editor state.
func (a *App) State() *editor.State {
	return a.state
}

// Logger returns the session logger.
func (a *App) Logger() *Logger {
	return a.logger
}

// Session returns the session id.
func (a *App) Session() string {
	return a.session
}
