// Package export compiles a topology snapshot into an executable network
// emulation script: instance extraction, spatial association, link
// rewriting and deterministic script emission.
package export

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTopology is returned when the snapshot has no nodes.
	// Nothing is written in that case.
	ErrEmptyTopology = errors.New("nothing to export: topology has no nodes")

	// ErrOutputNotWritable wraps failures to create or write the output
	// artifact. Unlike structural problems this aborts the whole compile.
	ErrOutputNotWritable = errors.New("output path not writable")
)

// CompileError carries the failing operation and entity so callers can log
// a useful diagnostic without string-parsing.
type CompileError struct {
	Op     string // operation that failed, e.g. "write-script"
	Entity string // kind of thing involved, e.g. "artifact"
	ID     string // specific id, may be empty
	Cause  error
}

func (e *CompileError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s '%s': %v", e.Op, e.Entity, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

func (e *CompileError) Unwrap() error {
	return e.Cause
}
