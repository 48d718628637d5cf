package loader

import (
	"errors"
	"fmt"
)

// ErrNoEnvironment is returned by Acquire when no host environment is
// installed. The bridge needs a host context to register the runtime's
// global bindings in; without one there is nothing to load into.
var ErrNoEnvironment = errors.New("luau: no host environment installed")

// errInvalidBinding means something other than a *Handle sits under the
// well-known module binding name. The loader refuses to clobber it.
var errInvalidBinding = errors.New("module binding is not a runtime handle")

// LoadError reports that the runtime module could not be fetched or
// instantiated. It rejects the shared load future: every current and future
// Acquire observes it until an explicit Loader.Reset.
type LoadError struct {
	URL string
	Err error
}

func (e *LoadError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("luau: load runtime from %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("luau: load runtime: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
