package repos

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrConcurrentModification is the sentinel matched by errors.Is when a
// version-guarded write loses the race.
var ErrConcurrentModification = errors.New("concurrent modification")

// ConcurrentModificationError reports a write that was validated against
// a version the store no longer holds. The caller should re-fetch and
// retry at the application layer; repos never retry on their own.
type ConcurrentModificationError struct {
	Entity          string
	ID              uuid.UUID
	ExpectedVersion int
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("%s %s changed since version %d was read", e.Entity, e.ID, e.ExpectedVersion)
}

func (e *ConcurrentModificationError) Is(target error) bool {
	return target == ErrConcurrentModification
}
