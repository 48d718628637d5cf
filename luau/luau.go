// Package luau describes the external Luau runtime release this module
// bridges to: where its WASM asset lives, which symbols it exports, and the
// line-oriented wire conventions it speaks.
package luau

// Release asset of the Luau runtime, compiled to a single WASM module.
// The URL is versioned; bumping the runtime means bumping this constant.
const (
	Version    = "0.3.1"
	ReleaseURL = "https://github.com/voxscene/luau-wasm/releases/download/v" + Version + "/luau-runtime.wasm"
)

// EntryPoint is the exported native function the bridge wraps.
// Signature on the wire: (source C string, chunk name C string) -> i32 status.
const EntryPoint = "executeScript"

// Allocator exports used to marshal C strings into module memory.
const (
	AllocExport = "malloc"
	FreeExport  = "free"
)

// Well-known host-environment binding names. The runtime glue discovers its
// configuration through these at load time, not through a passed argument,
// so the loader must install both before injecting the module.
const (
	ModuleBinding = "LuauModule"
	ModuleAlias   = "Module"
)

// SentinelPrefix marks an output line that carries the structured result
// instead of diagnostic text. The remainder of the line is the payload.
const SentinelPrefix = "__HOST_RESULT__:"

// DefaultPayload is returned when a run emits no sentinel line. Downstream
// parsers depend on the exact byte sequence, field order and spacing
// included. Do not reformat.
const DefaultPayload = `{"changes":[],"wait":0,"finished":true}`

// DefaultChunkName labels source units that were submitted without a name.
const DefaultChunkName = "script"
