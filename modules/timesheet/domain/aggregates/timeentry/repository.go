package timeentry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/timesheet/pkg/serrors"
)

// ErrStaleVersion is returned by Update when the optimistic version check
// fails: another transition committed first. Services surface it as an
// invalid-state failure, never as a silent overwrite.
var ErrStaleVersion = serrors.InvalidState("time entry was modified concurrently")

type DateRange struct {
	From time.Time
	To   time.Time
}

type FindParams struct {
	OwnerID    *uuid.UUID
	ProjectID  *uuid.UUID
	ProjectIDs []uuid.UUID
	Status     *Status
	Range      *DateRange
	Limit      int
	Offset     int
}

type Repository interface {
	Count(ctx context.Context, params *FindParams) (int64, error)
	List(ctx context.Context, params *FindParams) ([]TimeEntry, error)
	GetByID(ctx context.Context, id uuid.UUID) (TimeEntry, error)
	Create(ctx context.Context, data TimeEntry) (TimeEntry, error)
	// Update performs an atomic check-and-increment of the entry version;
	// it returns ErrStaleVersion when the stored row moved on.
	Update(ctx context.Context, data TimeEntry) (TimeEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// SumHours totals hours for an owner regardless of status, optionally
	// bounded by a date range.
	SumHours(ctx context.Context, ownerID uuid.UUID, dateRange *DateRange) (decimal.Decimal, error)
}
