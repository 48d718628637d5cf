package script

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRunner returns queued payloads per chunk name, then keeps
// repeating the last one.
type scriptedRunner struct {
	mu       sync.Mutex
	payloads map[string][]string
	calls    map[string]int
}

func newScriptedRunner() *scriptedRunner {
	return &scriptedRunner{
		payloads: make(map[string][]string),
		calls:    make(map[string]int),
	}
}

func (r *scriptedRunner) queue(chunk string, payloads ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads[chunk] = append(r.payloads[chunk], payloads...)
}

func (r *scriptedRunner) Execute(ctx context.Context, source, chunkName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[chunkName]++
	queue := r.payloads[chunkName]
	if len(queue) == 0 {
		return "", context.Canceled
	}
	payload := queue[0]
	if len(queue) > 1 {
		r.payloads[chunkName] = queue[1:]
	}
	return payload, nil
}

func (r *scriptedRunner) callCount(chunk string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[chunk]
}

func TestManagerRunsUntilFinished(t *testing.T) {
	runner := newScriptedRunner()
	runner.queue("scripts/spin.luau",
		`{"changes":[{"object":"part","field":"angle","value":90}],"wait":0,"finished":false}`,
		`{"changes":[],"wait":0,"finished":true}`,
	)

	var applied atomic.Int32
	m := NewManager(runner, func(ch Change) error {
		applied.Add(1)
		assert.Equal(t, "part", ch.Object)
		return nil
	})

	launched := m.Start(context.Background(), []Source{{Name: "scripts/spin.luau", Body: "..."}})
	assert.Equal(t, 1, launched)
	m.wg.Wait()

	assert.Equal(t, int32(1), applied.Load())
	assert.Equal(t, 2, runner.callCount("scripts/spin.luau"))
}

func TestManagerStopAbortsLoop(t *testing.T) {
	runner := newScriptedRunner()
	runner.queue("scripts/loop.luau", `{"changes":[],"wait":1,"finished":false}`)

	m := NewManager(runner, nil)
	m.Start(context.Background(), []Source{{Name: "scripts/loop.luau", Body: "..."}})

	require.Eventually(t, func() bool {
		return runner.callCount("scripts/loop.luau") >= 2
	}, time.Second, time.Millisecond, "script should keep looping until stopped")

	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not abort the running script")
	}
}

func TestManagerApplyErrorStopsScript(t *testing.T) {
	runner := newScriptedRunner()
	runner.queue("scripts/bad.luau",
		`{"changes":[{"object":"x","field":"y","value":1}],"wait":0,"finished":false}`,
	)

	m := NewManager(runner, func(Change) error {
		return assert.AnError
	})

	m.Start(context.Background(), []Source{{Name: "scripts/bad.luau", Body: "..."}})
	m.wg.Wait()

	assert.Equal(t, 1, runner.callCount("scripts/bad.luau"),
		"a failing apply must end the script's loop")
}

func TestManagerStartStopsPreviousRun(t *testing.T) {
	runner := newScriptedRunner()
	runner.queue("scripts/a.luau", `{"changes":[],"wait":1,"finished":false}`)
	runner.queue("scripts/b.luau", `{"changes":[],"wait":0,"finished":true}`)

	m := NewManager(runner, nil)
	m.Start(context.Background(), []Source{{Name: "scripts/a.luau", Body: "..."}})
	require.Eventually(t, func() bool {
		return runner.callCount("scripts/a.luau") >= 1
	}, time.Second, time.Millisecond)

	m.Start(context.Background(), []Source{{Name: "scripts/b.luau", Body: "..."}})
	m.wg.Wait()

	assert.GreaterOrEqual(t, runner.callCount("scripts/b.luau"), 1)
	m.Stop()
}
