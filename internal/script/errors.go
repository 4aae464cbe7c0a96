package script

import "errors"

var (
	// ErrScript wraps every failure raised while loading or running Lua.
	ErrScript = errors.New("script error")

	// ErrClosed is returned when using a closed runtime.
	ErrClosed = errors.New("script runtime is closed")

	// ErrNoControl is raised when the vipix API is used outside a command.
	ErrNoControl = errors.New("no active command")
)
