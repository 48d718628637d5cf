package loader

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/voxscene/luaubridge/luau"
)

// wasmInstantiate brings the runtime module up under wazero: wires its
// stdout/stderr to the handle's sinks, runs its startup sequence, wraps the
// exported entry point, and signals startup completion.
func wasmInstantiate(ctx context.Context, h *Handle, wasm []byte) error {
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithCloseOnContextDone(true))
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)

	cfg := wazero.NewModuleConfig().
		WithStdout(newLineWriter(h.Emit)).
		WithStderr(newLineWriter(h.EmitError)).
		WithName("luau")

	mod, err := rt.InstantiateWithConfig(ctx, wasm, cfg)
	if err != nil {
		rt.Close(ctx)
		return fmt.Errorf("instantiate module: %w", err)
	}

	call, err := wrapEntryPoint(mod)
	if err != nil {
		rt.Close(ctx)
		return err
	}

	h.Register(luau.EntryPoint, call)
	h.CompleteStartup()
	return nil
}

// wrapEntryPoint binds the exported executeScript symbol as a typed
// (source, chunk name) -> status adapter, marshaling both strings as
// NUL-terminated C strings through the module's own allocator.
func wrapEntryPoint(mod api.Module) (RawFunc, error) {
	fn := mod.ExportedFunction(luau.EntryPoint)
	if fn == nil {
		return nil, fmt.Errorf("module does not export %q", luau.EntryPoint)
	}
	alloc := mod.ExportedFunction(luau.AllocExport)
	free := mod.ExportedFunction(luau.FreeExport)
	if alloc == nil || free == nil {
		return nil, fmt.Errorf("module does not export %q/%q", luau.AllocExport, luau.FreeExport)
	}

	return func(ctx context.Context, source, chunkName string) (int32, error) {
		srcPtr, err := writeCString(ctx, mod, alloc, source)
		if err != nil {
			return 0, err
		}
		defer free.Call(ctx, srcPtr)

		chunkPtr, err := writeCString(ctx, mod, alloc, chunkName)
		if err != nil {
			return 0, err
		}
		defer free.Call(ctx, chunkPtr)

		results, err := fn.Call(ctx, srcPtr, chunkPtr)
		if err != nil {
			return 0, fmt.Errorf("call %s: %w", luau.EntryPoint, err)
		}
		return int32(uint32(results[0])), nil
	}, nil
}

func writeCString(ctx context.Context, mod api.Module, alloc api.Function, s string) (uint64, error) {
	results, err := alloc.Call(ctx, uint64(len(s)+1))
	if err != nil {
		return 0, fmt.Errorf("alloc %d bytes: %w", len(s)+1, err)
	}
	ptr := results[0]
	if !mod.Memory().Write(uint32(ptr), append([]byte(s), 0)) {
		return 0, fmt.Errorf("write %d bytes at %d: out of range", len(s)+1, ptr)
	}
	return ptr, nil
}

// lineWriter buffers writes and emits complete lines, without the trailing
// newline, to the sink. The runtime's output is line-oriented but arrives
// in arbitrary write sizes.
type lineWriter struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	emit func(string)
}

func newLineWriter(emit func(string)) *lineWriter {
	return &lineWriter{emit: emit}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		idx := bytes.IndexByte(w.buf.Bytes(), '\n')
		if idx == -1 {
			return len(p), nil
		}
		line := string(w.buf.Next(idx + 1)[:idx])
		w.emit(line)
	}
}
