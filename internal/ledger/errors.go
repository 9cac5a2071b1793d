package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrLocked   = errors.New("record is locked")
	ErrInvalid  = errors.New("invalid record")

	// ErrConflict means the store refused a record because of the data it
	// already holds, such as a duplicate key or a missing reference. It is
	// specific to that record; the store itself is healthy.
	ErrConflict = errors.New("record conflicts with stored data")
)

// LockedError lists the locked records that blocked a mutation.
type LockedError struct {
	IDs []uuid.UUID
}

func (e *LockedError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = id.String()
	}

	return fmt.Sprintf("%d locked record(s) cannot be modified: %s", len(e.IDs), strings.Join(ids, ", "))
}

func (e *LockedError) Unwrap() error {
	return ErrLocked
}
