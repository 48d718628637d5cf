package bridge

import "fmt"

// ExecutionError reports a non-zero status from the runtime's entry point.
// It is local to one call: the shared handle stays usable and the caller
// may retry with a fresh Execute.
type ExecutionError struct {
	Status    int32
	ChunkName string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("luau: %s: execution failed with status %d", e.ChunkName, e.Status)
}
