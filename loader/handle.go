package loader

import (
	"context"
	"sync"

	"github.com/voxscene/luaubridge/internal/hostlog"
	"go.uber.org/zap"
)

// RawFunc is a typed adapter over an exported native entry point:
// (source text, chunk name) -> status code.
type RawFunc func(ctx context.Context, source, chunkName string) (int32, error)

// Handle is the live reference to the loaded Luau runtime module. It is
// created at most once per process, owned by the Loader, and never
// destroyed.
//
// OnLine and OnErrorLine are the runtime's only observable output channel.
// They are deliberately plain mutable fields: the call bridge swaps them
// for the duration of one call and restores them afterward. At most one
// call may be in flight at a time; concurrent callers must serialize.
type Handle struct {
	OnLine      func(line string)
	OnErrorLine func(line string)

	mu        sync.Mutex
	started   bool
	onStartup func()
	exports   map[string]RawFunc
}

// NewHandle returns a handle whose sinks forward to the diagnostic logger,
// so runtime output emitted before the first real call is not dropped.
func NewHandle() *Handle {
	return &Handle{
		OnLine: func(line string) {
			hostlog.Logger().Info("luau output", zap.String("line", line))
		},
		OnErrorLine: func(line string) {
			hostlog.Logger().Warn("luau stderr", zap.String("line", line))
		},
		exports: make(map[string]RawFunc),
	}
}

// Started reports whether the runtime has finished its startup sequence.
func (h *Handle) Started() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.started
}

// Register installs a native entry point under the given export name.
func (h *Handle) Register(name string, fn RawFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.exports[name] = fn
}

// Exported returns the native entry point registered under name.
func (h *Handle) Exported(name string) (RawFunc, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn, ok := h.exports[name]
	return fn, ok
}

// ChainStartup attaches fn to the startup-completion signal, preserving any
// previously attached handler. The prior handler runs first; if it panics,
// the panic is logged and fn still runs, so an earlier listener cannot
// block resolution. If startup already completed, fn runs immediately.
func (h *Handle) ChainStartup(fn func()) {
	h.mu.Lock()
	if h.started {
		h.mu.Unlock()
		fn()
		return
	}
	prev := h.onStartup
	h.onStartup = func() {
		if prev != nil {
			runStartupHandler(prev)
		}
		fn()
	}
	h.mu.Unlock()
}

// CompleteStartup marks the startup sequence finished and fires the chained
// startup handlers. Calling it again is a no-op.
func (h *Handle) CompleteStartup() {
	h.mu.Lock()
	if h.started {
		h.mu.Unlock()
		return
	}
	h.started = true
	cb := h.onStartup
	h.onStartup = nil
	h.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// Emit feeds one normal output line into the handle's current sink.
func (h *Handle) Emit(line string) {
	if cb := h.OnLine; cb != nil {
		cb(line)
	}
}

// EmitError feeds one error output line into the handle's current sink.
func (h *Handle) EmitError(line string) {
	if cb := h.OnErrorLine; cb != nil {
		cb(line)
	}
}

func runStartupHandler(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			hostlog.Logger().Warn("startup handler panicked", zap.Any("panic", r))
		}
	}()
	fn()
}
