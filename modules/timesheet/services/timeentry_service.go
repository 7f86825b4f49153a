package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/timesheet/modules/core/domain/aggregates/user"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/timeentry"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/entities/approval"
	"github.com/iota-uz/timesheet/pkg/composables"
	"github.com/iota-uz/timesheet/pkg/eventbus"
	"github.com/iota-uz/timesheet/pkg/serrors"
)

// TimeEntryService owns the entry lifecycle on the owner's side: create,
// edit, delete while draft, and hand-off into the approval flow.
type TimeEntryService struct {
	entries   timeentry.Repository
	approvals approval.Repository
	gate      Gate
	publisher eventbus.EventBus
}

func NewTimeEntryService(
	entries timeentry.Repository,
	approvals approval.Repository,
	gate Gate,
	publisher eventbus.EventBus,
) *TimeEntryService {
	return &TimeEntryService{
		entries:   entries,
		approvals: approvals,
		gate:      gate,
		publisher: publisher,
	}
}

func (s *TimeEntryService) GetByID(ctx context.Context, id uuid.UUID) (timeentry.TimeEntry, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (timeentry.TimeEntry, error) {
		return s.entries.GetByID(txCtx, id)
	})
}

func (s *TimeEntryService) List(ctx context.Context, params *timeentry.FindParams) ([]timeentry.TimeEntry, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) ([]timeentry.TimeEntry, error) {
		return s.entries.List(txCtx, params)
	})
}

func (s *TimeEntryService) Count(ctx context.Context, params *timeentry.FindParams) (int64, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.entries.Count(txCtx, params)
	})
}

func (s *TimeEntryService) Create(ctx context.Context, data *timeentry.CreateDTO) (timeentry.TimeEntry, error) {
	ownerID, err := composables.UseActor(ctx)
	if err != nil {
		return timeentry.TimeEntry{}, serrors.Forbidden("caller identity missing")
	}
	if fields, ok := data.Ok(); !ok {
		return timeentry.TimeEntry{}, serrors.FromFieldErrors(fields)
	}
	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (timeentry.TimeEntry, error) {
		assigned, err := s.gate.CanActOnProject(txCtx, ownerID, data.ProjectID, user.RoleDeveloper)
		if err != nil {
			return timeentry.TimeEntry{}, err
		}
		if !assigned {
			return timeentry.TimeEntry{}, serrors.Validation("project is not assigned to the owner")
		}
		entity, err := data.ToEntity(ownerID)
		if err != nil {
			return timeentry.TimeEntry{}, err
		}
		return s.entries.Create(txCtx, entity)
	})
	if err != nil {
		return timeentry.TimeEntry{}, err
	}
	s.publisher.Publish(timeentry.NewCreatedEvent(ctx, ownerID, created))
	return created, nil
}

func (s *TimeEntryService) Update(ctx context.Context, id uuid.UUID, data *timeentry.UpdateDTO) (timeentry.TimeEntry, error) {
	ownerID, err := composables.UseActor(ctx)
	if err != nil {
		return timeentry.TimeEntry{}, serrors.Forbidden("caller identity missing")
	}
	if fields, ok := data.Ok(); !ok {
		return timeentry.TimeEntry{}, serrors.FromFieldErrors(fields)
	}
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (timeentry.TimeEntry, error) {
		existing, err := s.entries.GetByID(txCtx, id)
		if err != nil {
			return timeentry.TimeEntry{}, err
		}
		if err := ownerMayMutate(existing, ownerID); err != nil {
			return timeentry.TimeEntry{}, err
		}
		if data.ProjectID != nil && *data.ProjectID != existing.ProjectID() {
			assigned, err := s.gate.CanActOnProject(txCtx, ownerID, *data.ProjectID, user.RoleDeveloper)
			if err != nil {
				return timeentry.TimeEntry{}, err
			}
			if !assigned {
				return timeentry.TimeEntry{}, serrors.Validation("project is not assigned to the owner")
			}
		}
		return s.entries.Update(txCtx, data.Apply(existing))
	})
	if err != nil {
		return timeentry.TimeEntry{}, err
	}
	s.publisher.Publish(timeentry.NewUpdatedEvent(ctx, ownerID, updated))
	return updated, nil
}

func (s *TimeEntryService) Delete(ctx context.Context, id uuid.UUID) error {
	ownerID, err := composables.UseActor(ctx)
	if err != nil {
		return serrors.Forbidden("caller identity missing")
	}
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.entries.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := ownerMayMutate(existing, ownerID); err != nil {
			return err
		}
		// The audit trail must not reference removed entries, so anything
		// that ever entered the approval flow stays.
		n, err := s.approvals.CountByEntry(txCtx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return serrors.Conflict("entry has approval records and cannot be deleted")
		}
		return s.entries.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}
	s.publisher.Publish(timeentry.NewDeletedEvent(ctx, ownerID, id))
	return nil
}

// Submit moves a draft into the approval flow, opening the level-1 pending
// approval. A project without assigned managers cannot accept submissions:
// silently auto-approving would defeat the workflow.
func (s *TimeEntryService) Submit(ctx context.Context, id uuid.UUID) (timeentry.TimeEntry, error) {
	ownerID, err := composables.UseActor(ctx)
	if err != nil {
		return timeentry.TimeEntry{}, serrors.Forbidden("caller identity missing")
	}
	submitted, err := s.submitOne(ctx, id, ownerID)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}
	s.publisher.Publish(timeentry.NewSubmittedEvent(ctx, ownerID, submitted))
	return submitted, nil
}

func (s *TimeEntryService) submitOne(ctx context.Context, id, ownerID uuid.UUID) (timeentry.TimeEntry, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (timeentry.TimeEntry, error) {
		existing, err := s.entries.GetByID(txCtx, id)
		if err != nil {
			return timeentry.TimeEntry{}, err
		}
		if existing.OwnerID() != ownerID {
			return timeentry.TimeEntry{}, serrors.Forbidden("only the owner may submit an entry")
		}
		entity, err := existing.Submit()
		if err != nil {
			return timeentry.TimeEntry{}, err
		}
		managers, err := s.gate.AssignedManagers(txCtx, entity.ProjectID())
		if err != nil {
			return timeentry.TimeEntry{}, err
		}
		if len(managers) == 0 {
			return timeentry.TimeEntry{}, serrors.Configuration("project has no assigned manager to approve the entry")
		}
		updated, err := s.entries.Update(txCtx, entity)
		if err != nil {
			return timeentry.TimeEntry{}, err
		}
		if _, err := s.approvals.Create(txCtx, approval.NewPending(updated.ID(), approval.LevelManager)); err != nil {
			return timeentry.TimeEntry{}, err
		}
		return updated, nil
	})
}

// SubmitBulk submits each entry in its own transaction; failures are
// reported per item and never abort the rest of the batch.
func (s *TimeEntryService) SubmitBulk(ctx context.Context, ids []uuid.UUID) (*BulkResult, error) {
	ownerID, err := composables.UseActor(ctx)
	if err != nil {
		return nil, serrors.Forbidden("caller identity missing")
	}
	if len(ids) == 0 {
		return nil, serrors.Validation("no entry ids provided")
	}
	result := &BulkResult{}
	for _, id := range ids {
		submitted, err := s.submitOne(ctx, id, ownerID)
		if err != nil {
			result.fail(id, err)
			continue
		}
		result.ok(id)
		s.publisher.Publish(timeentry.NewSubmittedEvent(ctx, ownerID, submitted))
	}
	return result, nil
}

// Reopen returns a rejected entry to its owner as a draft. Approval history
// from the finished cycle is retained.
func (s *TimeEntryService) Reopen(ctx context.Context, id uuid.UUID) (timeentry.TimeEntry, error) {
	ownerID, err := composables.UseActor(ctx)
	if err != nil {
		return timeentry.TimeEntry{}, serrors.Forbidden("caller identity missing")
	}
	reopened, err := composables.InTxResult(ctx, func(txCtx context.Context) (timeentry.TimeEntry, error) {
		existing, err := s.entries.GetByID(txCtx, id)
		if err != nil {
			return timeentry.TimeEntry{}, err
		}
		if existing.OwnerID() != ownerID {
			return timeentry.TimeEntry{}, serrors.Forbidden("only the owner may reopen an entry")
		}
		entity, err := existing.Reopen()
		if err != nil {
			return timeentry.TimeEntry{}, err
		}
		return s.entries.Update(txCtx, entity)
	})
	if err != nil {
		return timeentry.TimeEntry{}, err
	}
	s.publisher.Publish(timeentry.NewReopenedEvent(ctx, ownerID, reopened))
	return reopened, nil
}

// TotalHours sums hours across the owner's entries regardless of status.
func (s *TimeEntryService) TotalHours(ctx context.Context, ownerID uuid.UUID, dateRange *timeentry.DateRange) (decimal.Decimal, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (decimal.Decimal, error) {
		return s.entries.SumHours(txCtx, ownerID, dateRange)
	})
}

func ownerMayMutate(t timeentry.TimeEntry, callerID uuid.UUID) error {
	if t.OwnerID() != callerID {
		return serrors.Forbidden("only the owner may modify an entry")
	}
	if !t.Mutable() {
		return serrors.Forbidden("entry is no longer editable once submitted")
	}
	return nil
}
