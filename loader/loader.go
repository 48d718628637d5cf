// Package loader owns process-wide lazy initialization of the Luau runtime
// module. Acquire returns the one shared runtime handle, loading the module
// on first use: fetching the release asset, instantiating it under wazero,
// and waiting for its startup sequence, however the module chooses to
// signal readiness.
package loader

import (
	"context"
	"net/http"
	"sync"

	"github.com/voxscene/luaubridge/hostenv"
	"github.com/voxscene/luaubridge/internal/hostlog"
	"github.com/voxscene/luaubridge/luau"
	"go.uber.org/zap"
)

// Loader provides exactly one shared, eventually-ready runtime Handle.
type Loader struct {
	env         *hostenv.Environment
	url         string
	client      *http.Client
	cacheDir    string
	instantiate func(ctx context.Context, h *Handle, wasm []byte) error

	mu  sync.Mutex
	fut *future
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvironment uses env instead of the process-wide default environment.
func WithEnvironment(env *hostenv.Environment) Option {
	return func(l *Loader) { l.env = env }
}

// WithReleaseURL overrides the runtime module download URL.
func WithReleaseURL(url string) Option {
	return func(l *Loader) { l.url = url }
}

// WithHTTPClient sets the client used to fetch the runtime module.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) { l.client = client }
}

// WithCacheDir sets the directory the downloaded module is cached in.
// Defaults to ~/.cache/luaubridge or XDG_CACHE_HOME/luaubridge.
func WithCacheDir(dir string) Option {
	return func(l *Loader) { l.cacheDir = dir }
}

// New creates a Loader. Loading does not start until the first Acquire.
func New(opts ...Option) *Loader {
	l := &Loader{
		url:         luau.ReleaseURL,
		client:      http.DefaultClient,
		instantiate: wasmInstantiate,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// future is the single shared pending/resolved/rejected load computation.
// It is resolved exactly once; every waiter observes the same handle or the
// same error.
type future struct {
	once   sync.Once
	done   chan struct{}
	handle *Handle
	err    error
}

func newFuture() *future {
	return &future{done: make(chan struct{})}
}

func (f *future) resolve(h *Handle, err error) {
	f.once.Do(func() {
		f.handle = h
		f.err = err
		close(f.done)
	})
}

// Acquire returns the shared runtime handle, initiating the load on first
// use. All concurrent and later callers observe the same handle or the
// same failure. ctx bounds only this caller's wait, not the load itself.
func (l *Loader) Acquire(ctx context.Context) (*Handle, error) {
	l.mu.Lock()
	fut := l.fut
	if fut == nil {
		fut = newFuture()
		l.fut = fut
		go l.load(fut)
	}
	l.mu.Unlock()

	select {
	case <-fut.done:
		return fut.handle, fut.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Reset discards a rejected load future so the next Acquire retries the
// load. A pending or successfully resolved future is left untouched; the
// success path stays cached for the process lifetime.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fut == nil {
		return
	}
	select {
	case <-l.fut.done:
		if l.fut.err != nil {
			l.fut = nil
		}
	default:
	}
}

func (l *Loader) environment() *hostenv.Environment {
	if l.env != nil {
		return l.env
	}
	return hostenv.Default()
}

// load resolves the shared future. Readiness has three shapes:
//
//  1. a handle is already bound and already started: resolve immediately;
//  2. a handle is bound but still starting: chain onto its startup signal;
//  3. no handle exists: bind a fresh one under the well-known names, fetch
//     the release asset, and instantiate it.
func (l *Loader) load(fut *future) {
	env := l.environment()
	if env == nil {
		fut.resolve(nil, ErrNoEnvironment)
		return
	}

	if bound, ok := env.Lookup(luau.ModuleBinding); ok {
		h, ok := bound.(*Handle)
		if !ok {
			fut.resolve(nil, &LoadError{Err: errInvalidBinding})
			return
		}
		if h.Started() {
			fut.resolve(h, nil)
			return
		}
		h.ChainStartup(func() { fut.resolve(h, nil) })
		return
	}

	h := NewHandle()
	// The runtime glue discovers its configuration through these names at
	// load time, so both must exist before the module is injected.
	env.Bind(luau.ModuleBinding, h)
	env.Bind(luau.ModuleAlias, h)
	h.ChainStartup(func() { fut.resolve(h, nil) })

	// On injection failure the dead handle must not stay bound, or a retry
	// after Reset would chain onto a startup signal that never fires.
	fail := func(err error) {
		env.Unbind(luau.ModuleBinding)
		env.Unbind(luau.ModuleAlias)
		fut.resolve(nil, &LoadError{URL: l.url, Err: err})
	}

	wasm, err := l.fetch()
	if err != nil {
		fail(err)
		return
	}

	hostlog.Logger().Info("instantiating luau runtime",
		zap.String("url", l.url), zap.Int("size", len(wasm)))

	// The module lives for the process lifetime; its own context must not
	// be tied to any single caller.
	if err := l.instantiate(context.Background(), h, wasm); err != nil {
		fail(err)
		return
	}
}
