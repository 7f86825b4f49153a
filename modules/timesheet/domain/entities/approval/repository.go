package approval

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// ListByEntry returns every approval record for the entry ordered by
	// creation time ascending, superseded and rejected rows included.
	ListByEntry(ctx context.Context, timeEntryID uuid.UUID) ([]Approval, error)
	// ActiveForLevel returns the most recent record at the given level when
	// it is still pending.
	ActiveForLevel(ctx context.Context, timeEntryID uuid.UUID, level Level) (Approval, error)
	CountByEntry(ctx context.Context, timeEntryID uuid.UUID) (int64, error)
	Create(ctx context.Context, data Approval) (Approval, error)
	Update(ctx context.Context, data Approval) error
}
