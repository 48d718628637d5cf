package luaubridge

import (
	"context"
	"sync"

	"github.com/voxscene/luaubridge/bridge"
	"github.com/voxscene/luaubridge/loader"
)

var (
	defaultOnce   sync.Once
	defaultBridge *bridge.Bridge
)

// Default returns the process-wide bridge, creating it (and its loader) on
// first use. It relies on the default host environment from [hostenv].
func Default() *bridge.Bridge {
	defaultOnce.Do(func() {
		defaultBridge = bridge.New(loader.New())
	})
	return defaultBridge
}

// ExecuteLuau runs source as one chunk under the shared runtime and returns
// the decoded result payload. An empty chunkName defaults to "script". The
// first call triggers the runtime load; later calls reuse the handle.
func ExecuteLuau(ctx context.Context, source, chunkName string) (string, error) {
	return Default().Execute(ctx, source, chunkName)
}
