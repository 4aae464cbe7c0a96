package script

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vipix/internal/dispatcher"
)

// DefaultTimeout bounds a single script call.
const DefaultTimeout = 2 * time.Second

// Logger is the logging surface the runtime needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}

// Registrar adds a command to the editor. The command's run function is
// called with the engine's Control each time the command executes.
type Registrar func(name string, run func(c dispatcher.Control, args []string) error) error

// Runtime is a sandboxed Lua interpreter bound to one editor.
//
// gopher-lua states are not goroutine-safe; the mutex serializes Go-side
// access, and the engine only calls in from its dispatch loop.
type Runtime struct {
	L *lua.LState

	mu       sync.Mutex
	timeout  time.Duration
	log      Logger
	register Registrar

	// control is set only while Lua is running on behalf of a command.
	control dispatcher.Control

	commands []string
	closed   bool
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithTimeout sets the per-call execution timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		r.timeout = d
	}
}

// WithLogger sets the logger used for print and diagnostics.
func WithLogger(l Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.log = l
		}
	}
}

// WithRegistrar lets scripts add :commands through vipix.command.
func WithRegistrar(reg Registrar) Option {
	return func(r *Runtime) {
		r.register = reg
	}
}

// New creates a sandboxed runtime with the vipix API installed.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		timeout: DefaultTimeout,
		log:     nopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(r.L)
	installSandbox(r.L, r.log)
	r.installAPI()
	return r
}

// Source runs the Lua file at path with c as the active control.
// It implements the editor's :source hook.
func (r *Runtime) Source(c dispatcher.Control, path string) error {
	r.log.Debug("source %s", path)
	return r.run(c, path, func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

// LoadString runs a chunk of Lua with c as the active control.
// c may be nil for code that does not touch the vipix API.
func (r *Runtime) LoadString(c dispatcher.Control, code string) error {
	return r.run(c, "<string>", func(L *lua.LState) error {
		return L.DoString(code)
	})
}

// Commands returns the names registered by scripts, in order.
func (r *Runtime) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.commands))
	copy(out, r.commands)
	return out
}

// Close releases the Lua state. Further calls fail with ErrClosed.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.L.Close()
	r.closed = true
	return nil
}

// run executes fn with the control installed, a timeout context and
// panic recovery. Errors are wrapped in ErrScript.
func (r *Runtime) run(c dispatcher.Control, what string, fn func(L *lua.LState) error) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}

	r.control = c
	defer func() { r.control = nil }()

	if r.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		r.L.SetContext(ctx)
		defer r.L.RemoveContext()
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %s: panic: %v", ErrScript, what, rec)
		}
	}()

	if err := fn(r.L); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrScript, what, err)
	}
	return nil
}
