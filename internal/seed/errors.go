package seed

import (
	"fmt"

	"github.com/hungpv1995/blog-seeder/internal/models"
)

// FileAccessError means the fixture could not be opened or read.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("failed to read fixture %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// ParseError means the fixture is not a JSON array.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse fixture %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError points at the first fixture element with a missing or
// mistyped field.
type ValidationError struct {
	Index int
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("record %d: invalid %s: %v", e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("record %d: missing %s", e.Index, e.Field)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// PersistenceError wraps a failed insert. Rows written before it stay
// committed unless the seeder runs in atomic mode.
type PersistenceError struct {
	Index  int
	Record models.PostRecord
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("record %d (user_id=%d): %v", e.Index, e.Record.UserID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
