package dispatcher

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/vipix/internal/input/key"
	"github.com/dshills/vipix/internal/input/mode"
)

// modeSet is a bit set of modes.
type modeSet uint8

func (s modeSet) has(m mode.Mode) bool {
	return s&(1<<m) != 0
}

func setOf(modes ...mode.Mode) modeSet {
	var s modeSet
	for _, m := range modes {
		s |= 1 << m
	}
	return s
}

// defaultVerbModes are the modes whose grammar consults verbs by default.
var defaultVerbModes = setOf(mode.Normal, mode.Visual)

// VerbOption configures a verb registration.
type VerbOption func(*verbEntryOptions)

type verbEntryOptions struct {
	modes modeSet
}

// InModes restricts a verb to the given modes instead of Normal and Visual.
func InModes(modes ...mode.Mode) VerbOption {
	return func(o *verbEntryOptions) {
		o.modes = setOf(modes...)
	}
}

// AllModes makes a verb fire in every mode that consults verbs,
// including Insertion. The global Escape verb uses this.
func AllModes() VerbOption {
	return InModes(mode.All()...)
}

type verbEntry[S any] struct {
	verb  Verb[S]
	modes modeSet
}

// Registry holds the objects, verbs and commands of one engine.
//
// A Registry is populated during setup and read by the engine's single
// dispatch thread afterwards; it is not safe for concurrent mutation.
type Registry[S any] struct {
	objects  map[key.Token]Object[S]
	verbs    map[key.Token]verbEntry[S]
	commands map[string]Command[S]
}

// NewRegistry creates an empty registry.
func NewRegistry[S any]() *Registry[S] {
	return &Registry[S]{
		objects:  make(map[key.Token]Object[S]),
		verbs:    make(map[key.Token]verbEntry[S]),
		commands: make(map[string]Command[S]),
	}
}

// parseName parses an object or verb name written in key notation.
func parseName(name string) (key.Token, error) {
	if name == "" {
		return key.Token{}, ErrEmptyName
	}
	tok, err := key.Parse(name)
	if err != nil {
		return key.Token{}, fmt.Errorf("handler name %q: %w", name, err)
	}
	return tok, nil
}

// AddObject registers a motion under a single key, e.g. "h" or "<Left>".
func (r *Registry[S]) AddObject(name string, obj Object[S]) error {
	if obj == nil {
		return ErrNilHandler
	}
	tok, err := parseName(name)
	if err != nil {
		return err
	}
	r.objects[tok] = obj
	return nil
}

// AddVerb registers a verb function under a single key, e.g. "s" or "<S-+>".
func (r *Registry[S]) AddVerb(name string, needsPositions bool, fn VerbFunc[S], opts ...VerbOption) error {
	if fn == nil {
		return ErrNilHandler
	}
	return r.AddVerbHandler(name, NewVerb(needsPositions, fn), opts...)
}

// AddVerbHandler registers a Verb implementation.
func (r *Registry[S]) AddVerbHandler(name string, verb Verb[S], opts ...VerbOption) error {
	if verb == nil {
		return ErrNilHandler
	}
	tok, err := parseName(name)
	if err != nil {
		return err
	}

	o := verbEntryOptions{modes: defaultVerbModes}
	for _, opt := range opts {
		opt(&o)
	}
	r.verbs[tok] = verbEntry[S]{verb: verb, modes: o.modes}
	return nil
}

// AddCommand registers a command-line handler.
func (r *Registry[S]) AddCommand(name string, cmd Command[S]) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if cmd == nil {
		return ErrNilHandler
	}
	r.commands[name] = cmd
	return nil
}

// Object returns the motion bound to tok.
func (r *Registry[S]) Object(tok key.Token) (Object[S], bool) {
	obj, ok := r.objects[tok.Canonical()]
	return obj, ok
}

// Verb returns the verb bound to tok if it is active in mode m.
func (r *Registry[S]) Verb(tok key.Token, m mode.Mode) (Verb[S], bool) {
	entry, ok := r.verbs[tok.Canonical()]
	if !ok || !entry.modes.has(m) {
		return nil, false
	}
	return entry.verb, true
}

// Command returns the command registered under name.
func (r *Registry[S]) Command(name string) (Command[S], bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Commands returns the registered command names, sorted.
func (r *Registry[S]) Commands() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
