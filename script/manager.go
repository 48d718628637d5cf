package script

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/voxscene/luaubridge/internal/hostlog"
	"go.uber.org/zap"
)

// Runner executes one source unit and returns its result payload.
// *bridge.Bridge satisfies this.
type Runner interface {
	Execute(ctx context.Context, source, chunkName string) (string, error)
}

// Source is one script to run, named for diagnostics.
type Source struct {
	Name string
	Body string
}

// ApplyFunc receives each change a script requests, in emission order.
type ApplyFunc func(Change) error

// Manager runs a set of scripts concurrently, one goroutine per script.
// Individual executions are still serialized by the bridge; the manager
// only interleaves their scheduling waits.
type Manager struct {
	runner Runner
	apply  ApplyFunc

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager creates a Manager. apply may be nil, in which case requested
// changes are dropped.
func NewManager(runner Runner, apply ApplyFunc) *Manager {
	return &Manager{runner: runner, apply: apply}
}

// Start stops any previous run and launches one task per script. It returns
// the number of tasks launched.
func (m *Manager) Start(ctx context.Context, scripts []Source) int {
	m.Stop()

	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, m.cancel = context.WithCancel(ctx)
	for _, src := range scripts {
		m.wg.Add(1)
		go func(src Source) {
			defer m.wg.Done()
			m.run(ctx, src)
		}(src)
	}
	return len(scripts)
}

// Stop aborts all running tasks and waits for them to exit.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

// run loops one script until it reports finished, fails, or ctx is done.
func (m *Manager) run(ctx context.Context, src Source) {
	log := hostlog.Logger().With(
		zap.String("script", src.Name),
		zap.String("task_id", uuid.NewString()),
	)

	for {
		payload, err := m.runner.Execute(ctx, src.Body, src.Name)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Error("script execution failed", zap.Error(err))
			}
			return
		}

		res, err := ParseResult(payload)
		if err != nil {
			log.Error("script returned malformed result", zap.Error(err))
			return
		}

		for _, change := range res.Changes {
			if m.apply == nil {
				continue
			}
			if err := m.apply(change); err != nil {
				log.Error("apply change failed",
					zap.String("object", change.Object),
					zap.String("field", change.Field),
					zap.Error(err))
				return
			}
		}

		if res.Finished {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(res.Wait):
		}
	}
}
