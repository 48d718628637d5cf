// Package hostenv provides the host environment the runtime loader requires:
// a process-wide registry of named bindings, standing in for the global
// namespace the injected runtime module discovers its configuration through.
package hostenv

import (
	"sync"
	"sync/atomic"
)

// Environment is a concurrency-safe table of named bindings.
type Environment struct {
	mu       sync.RWMutex
	bindings map[string]any
}

// New returns an empty Environment.
func New() *Environment {
	return &Environment{bindings: make(map[string]any)}
}

// Bind installs or replaces a named binding.
func (e *Environment) Bind(name string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bindings[name] = value
}

// Lookup returns the binding for name, if present.
func (e *Environment) Lookup(name string) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.bindings[name]
	return v, ok
}

// Unbind removes a named binding.
func (e *Environment) Unbind(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.bindings, name)
}

// Names returns the currently bound names in unspecified order.
func (e *Environment) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.bindings))
	for name := range e.bindings {
		names = append(names, name)
	}
	return names
}

var defaultEnv atomic.Pointer[Environment]

// Default returns the process-wide environment, or nil if none has been
// installed. A nil environment means there is no host context to load the
// runtime into.
func Default() *Environment {
	return defaultEnv.Load()
}

// SetDefault installs env as the process-wide environment. Passing nil
// uninstalls it.
func SetDefault(env *Environment) {
	defaultEnv.Store(env)
}
