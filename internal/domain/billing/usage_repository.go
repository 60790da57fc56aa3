package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UsageCounterRepository defines the interface for usage counter
// persistence. Increment and Decrement must each be a single atomic
// statement so concurrent updates never lose writes; the surrounding
// check-then-increment pair is deliberately not atomic as a unit.
type UsageCounterRepository interface {
	// FindOrCreate returns the user's counter, creating a zeroed row
	// if none exists. The create is idempotent under concurrency.
	FindOrCreate(ctx context.Context, userID uuid.UUID) (*UsageCounter, error)

	// Increment atomically adds 1 to the named counter field,
	// creating the row with that field at 1 if none exists.
	Increment(ctx context.Context, userID uuid.UUID, resourceType ResourceType) error

	// Decrement atomically subtracts 1 from the named counter field.
	// Calling it without a prior increment is a caller precondition
	// violation; no row is created.
	Decrement(ctx context.Context, userID uuid.UUID, resourceType ResourceType) error

	// ResetDaily zeroes the AI-helper daily field and stamps the
	// reset time. Used by the lazy calendar-day reset.
	ResetDaily(ctx context.Context, userID uuid.UUID, resetAt time.Time) error
}
