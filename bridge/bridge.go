// Package bridge executes Luau source units against the shared runtime
// handle and turns the runtime's captured output into a structured result
// payload.
package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/voxscene/luaubridge/internal/hostlog"
	"github.com/voxscene/luaubridge/loader"
	"github.com/voxscene/luaubridge/luau"
	"go.uber.org/zap"
)

// Bridge wraps the runtime's exported entry point behind a single-flight
// call protocol. The handle's output sinks are global mutable state, so
// Execute serializes all in-flight calls through one lock rather than
// letting their sink swaps interleave.
type Bridge struct {
	loader *loader.Loader

	mu   sync.Mutex
	call loader.RawFunc
}

// New creates a Bridge over l.
func New(l *loader.Loader) *Bridge {
	return &Bridge{loader: l}
}

// Execute runs source as one chunk under the Luau runtime and returns the
// result payload decoded from the run's captured output. An empty chunkName
// defaults to "script". A non-zero status from the runtime is reported as
// *ExecutionError; runtime diagnostics are forwarded to the host logger,
// never swallowed.
func (b *Bridge) Execute(ctx context.Context, source, chunkName string) (string, error) {
	if chunkName == "" {
		chunkName = luau.DefaultChunkName
	}

	h, err := b.loader.Acquire(ctx)
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	call, err := b.bind(h)
	if err != nil {
		return "", err
	}

	log := hostlog.Logger().With(
		zap.String("chunk", chunkName),
		zap.String("call_id", uuid.NewString()),
	)

	var captured []string
	prevLine, prevErrorLine := h.OnLine, h.OnErrorLine
	h.OnLine = func(line string) {
		captured = append(captured, line)
	}
	h.OnErrorLine = func(line string) {
		log.Warn("luau stderr", zap.String("line", line))
	}
	defer func() {
		h.OnLine, h.OnErrorLine = prevLine, prevErrorLine
	}()

	status, err := call(ctx, source, chunkName)
	if err != nil {
		return "", fmt.Errorf("luau: invoke %s: %w", luau.EntryPoint, err)
	}
	if status != 0 {
		return "", &ExecutionError{Status: status, ChunkName: chunkName}
	}

	payload, diagnostics := decodePayload(captured)
	for _, line := range diagnostics {
		log.Info("luau output", zap.String("line", line))
	}
	return payload, nil
}

// bind resolves the entry point once per process and reuses it thereafter.
// Callers hold b.mu.
func (b *Bridge) bind(h *loader.Handle) (loader.RawFunc, error) {
	if b.call != nil {
		return b.call, nil
	}
	fn, ok := h.Exported(luau.EntryPoint)
	if !ok {
		return nil, fmt.Errorf("luau: runtime does not export %q", luau.EntryPoint)
	}
	b.call = fn
	return fn, nil
}
