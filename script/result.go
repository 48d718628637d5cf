// Package script drives Luau scripts through the bridge: each script runs
// in a loop, its result payload is parsed into data-model changes plus
// scheduling hints, and the loop repeats until the script declares itself
// finished or the manager is stopped.
package script

import (
	"encoding/json"
	"fmt"
	"time"
)

// Change is one requested mutation of a host-side object.
type Change struct {
	Object string          `json:"object"`
	Field  string          `json:"field"`
	Value  json.RawMessage `json:"value"`
}

// Result is one decoded bridge payload.
type Result struct {
	Changes  []Change
	Wait     time.Duration
	Finished bool
}

// ParseResult decodes a bridge payload. The wire format is the runtime's
// host-call convention: changes, an optional wait in milliseconds, and an
// optional finished flag, both absent fields defaulting to zero values.
func ParseResult(payload string) (Result, error) {
	var raw struct {
		Changes  []Change `json:"changes"`
		Wait     *float64 `json:"wait"`
		Finished *bool    `json:"finished"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return Result{}, fmt.Errorf("parse script result: %w", err)
	}

	res := Result{Changes: raw.Changes}
	if raw.Wait != nil && *raw.Wait > 0 {
		res.Wait = time.Duration(*raw.Wait * float64(time.Millisecond))
	}
	if raw.Finished != nil {
		res.Finished = *raw.Finished
	}
	return res, nil
}
