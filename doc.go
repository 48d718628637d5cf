// Package luaubridge lazily loads the Luau runtime, distributed as a single
// WASM module, and exposes one call: run this source text under this chunk
// name, return a structured result payload.
//
// # Overview
//
// Two components collaborate. The [loader] package owns the one-time,
// process-wide initialization of the runtime module and hands out the
// shared runtime handle. The [bridge] package wraps the runtime's exported
// entry point: it redirects the module's output sinks for the duration of
// one call, executes the chunk, and decodes the sentinel-line protocol into
// a payload string.
//
// # Basic Usage
//
//	hostenv.SetDefault(hostenv.New())
//
//	payload, err := luaubridge.ExecuteLuau(ctx, `print("hi")`, "boot")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(payload)
//
// Any output line prefixed with "__HOST_RESULT__:" carries the result; the
// last one wins. Runs that emit no sentinel line resolve to the fixed
// fallback payload {"changes":[],"wait":0,"finished":true}.
//
// # Concurrency
//
// The handle's output sinks are shared mutable state, so the bridge allows
// at most one call in flight and serializes the rest. The first load is
// idempotent: concurrent acquisitions share a single load future, and a
// failed load stays failed until an explicit [loader.Loader.Reset].
//
// See the [loader], [bridge], [script], and [luau] packages for detailed
// API documentation.
package luaubridge
