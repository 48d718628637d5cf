// Package hostlog holds the diagnostic logger shared by the loader and the
// call bridge. Runtime output that is not part of a structured result is
// forwarded here rather than dropped.
package hostlog

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// Logger returns the current diagnostic logger. It is a no-op logger until
// SetLogger is called.
func Logger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetLogger replaces the diagnostic logger. A nil logger restores the no-op
// default.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
