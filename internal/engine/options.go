package engine

import (
	"github.com/dshills/vipix/internal/input/keymap"
)

// Option configures an Engine.
type Option func(*options)

type options struct {
	logger   Logger
	maxDepth int
	keymap   *keymap.Table
}

func defaultOptions() options {
	return options{
		logger:   nopLogger{},
		maxDepth: keymap.MaxDepth,
	}
}

// WithLogger sets the logger for remap and handler diagnostics.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxDepth sets the bound on nested remap expansion.
// Values below 1 keep the default.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithKeymap makes the engine use an existing binding table.
func WithKeymap(t *keymap.Table) Option {
	return func(o *options) {
		if t != nil {
			o.keymap = t
		}
	}
}

// Logger is the logging surface the engine needs.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
