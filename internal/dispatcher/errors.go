package dispatcher

import (
	"errors"
	"fmt"
)

// Dispatcher errors.
var (
	// ErrUnknownCommand indicates a command line naming no registered command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrEmptyName indicates a registration without a name.
	ErrEmptyName = errors.New("dispatcher: empty handler name")

	// ErrNilHandler indicates a registration without a handler.
	ErrNilHandler = errors.New("dispatcher: nil handler")

	// ErrUsage indicates a command invoked with the wrong arguments.
	ErrUsage = errors.New("usage")
)

// Usagef returns an ErrUsage error with a usage message.
func Usagef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}
