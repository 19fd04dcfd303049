package core

import (
	"errors"
	"sync"
)

var (
	ErrMissingDriver   = errors.New("driver not configured")
	ErrCommandNotFound = errors.New("command not found")
	ErrMelodyNotFound  = errors.New("melody not found")
	ErrLibraryFull     = errors.New("melody library full")
	ErrNoIntroMelody   = errors.New("melody slot 0 is empty")
)

// CommandHandler runs one text command. param is empty when the line had
// no parameter.
type CommandHandler func(param string) error

// Command is one entry of the command table.
type Command struct {
	Name    string
	Format  string // parameter description for the dictionary, e.g. "<index>"
	Handler CommandHandler
}

// CommandRegistry maps command names to handlers. The dictionary lists
// commands in registration order.
type CommandRegistry struct {
	mu         sync.RWMutex
	ordered    []*Command
	byName     map[string]*Command
	dictionary string
}

// NewCommandRegistry creates an empty registry.
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		byName: make(map[string]*Command),
	}
}

// Register adds a command. Registering a name twice keeps the first
// handler and returns false.
func (r *CommandRegistry) Register(name string, format string, handler CommandHandler) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return false
	}

	cmd := &Command{
		Name:    name,
		Format:  format,
		Handler: handler,
	}
	r.ordered = append(r.ordered, cmd)
	r.byName[name] = cmd

	r.rebuildDictionary()
	return true
}

// Lookup finds a command by its exact, case-sensitive name.
func (r *CommandRegistry) Lookup(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.byName[name]
	return cmd, ok
}

// Count returns the number of registered commands.
func (r *CommandRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ordered)
}

// Dispatch runs the handler registered under name.
func (r *CommandRegistry) Dispatch(name string, param string) error {
	cmd, ok := r.Lookup(name)
	if !ok {
		return ErrCommandNotFound
	}
	return cmd.Handler(param)
}

// GetDictionary returns one "name format" line per command in
// registration order.
func (r *CommandRegistry) GetDictionary() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dictionary
}

// Must be called with lock held.
func (r *CommandRegistry) rebuildDictionary() {
	dict := ""
	for _, cmd := range r.ordered {
		if cmd.Format != "" {
			dict += cmd.Name + " " + cmd.Format + "\n"
		} else {
			dict += cmd.Name + "\n"
		}
	}
	r.dictionary = dict
}
