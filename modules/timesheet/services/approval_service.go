package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/iota-uz/timesheet/modules/core/domain/aggregates/user"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/project"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/timeentry"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/entities/approval"
	"github.com/iota-uz/timesheet/pkg/composables"
	"github.com/iota-uz/timesheet/pkg/eventbus"
	"github.com/iota-uz/timesheet/pkg/serrors"
)

// ApprovalService owns the two-level approval state machine. Every
// transition runs as one transaction: entry status, approval row and the
// optimistic version check commit together or not at all.
type ApprovalService struct {
	entries   timeentry.Repository
	approvals approval.Repository
	projects  project.Repository
	gate      Gate
	publisher eventbus.EventBus
}

func NewApprovalService(
	entries timeentry.Repository,
	approvals approval.Repository,
	projects project.Repository,
	gate Gate,
	publisher eventbus.EventBus,
) *ApprovalService {
	return &ApprovalService{
		entries:   entries,
		approvals: approvals,
		projects:  projects,
		gate:      gate,
		publisher: publisher,
	}
}

// ManagerApprove resolves the level-1 decision and opens the level-2 pending
// approval for an admin.
func (s *ApprovalService) ManagerApprove(ctx context.Context, entryID uuid.UUID, comments string) (timeentry.TimeEntry, error) {
	managerID, err := composables.UseActor(ctx)
	if err != nil {
		return timeentry.TimeEntry{}, serrors.Forbidden("caller identity missing")
	}
	approved, err := s.managerApproveOne(ctx, entryID, managerID, comments)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}
	s.publisher.Publish(timeentry.NewManagerApprovedEvent(ctx, managerID, approved, comments))
	return approved, nil
}

func (s *ApprovalService) managerApproveOne(ctx context.Context, entryID, managerID uuid.UUID, comments string) (timeentry.TimeEntry, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (timeentry.TimeEntry, error) {
		existing, err := s.entries.GetByID(txCtx, entryID)
		if err != nil {
			return timeentry.TimeEntry{}, err
		}
		assigned, err := s.gate.CanActOnProject(txCtx, managerID, existing.ProjectID(), user.RoleManager)
		if err != nil {
			return timeentry.TimeEntry{}, err
		}
		if !assigned {
			return timeentry.TimeEntry{}, serrors.Forbidden("caller is not an assigned manager of the entry's project")
		}
		entity, err := existing.ManagerApprove()
		if err != nil {
			return timeentry.TimeEntry{}, err
		}
		if err := s.resolveActive(txCtx, entryID, approval.LevelManager, func(a approval.Approval) (approval.Approval, error) {
			return a.Approve(managerID, comments)
		}); err != nil {
			return timeentry.TimeEntry{}, err
		}
		updated, err := s.entries.Update(txCtx, entity)
		if err != nil {
			return timeentry.TimeEntry{}, err
		}
		// The level-2 slot is opened unassigned; whichever admin decides is
		// stamped on it then.
		if _, err := s.approvals.Create(txCtx, approval.NewPending(entryID, approval.LevelAdmin)); err != nil {
			return timeentry.TimeEntry{}, err
		}
		return updated, nil
	})
}

// AdminApprove resolves the final decision and marks the entry approved.
func (s *ApprovalService) AdminApprove(ctx context.Context, entryID uuid.UUID, comments string) (timeentry.TimeEntry, error) {
	adminID, err := composables.UseActor(ctx)
	if err != nil {
		return timeentry.TimeEntry{}, serrors.Forbidden("caller identity missing")
	}
	approved, err := s.adminApproveOne(ctx, entryID, adminID, comments)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}
	s.publisher.Publish(timeentry.NewAdminApprovedEvent(ctx, adminID, approved, comments))
	return approved, nil
}

func (s *ApprovalService) adminApproveOne(ctx context.Context, entryID, adminID uuid.UUID, comments string) (timeentry.TimeEntry, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (timeentry.TimeEntry, error) {
		existing, err := s.entries.GetByID(txCtx, entryID)
		if err != nil {
			return timeentry.TimeEntry{}, err
		}
		isAdmin, err := s.gate.IsAdmin(txCtx, adminID)
		if err != nil {
			return timeentry.TimeEntry{}, err
		}
		if !isAdmin {
			return timeentry.TimeEntry{}, serrors.Forbidden("administrator role required for final approval")
		}
		entity, err := existing.AdminApprove()
		if err != nil {
			return timeentry.TimeEntry{}, err
		}
		if err := s.resolveActive(txCtx, entryID, approval.LevelAdmin, func(a approval.Approval) (approval.Approval, error) {
			return a.Approve(adminID, comments)
		}); err != nil {
			return timeentry.TimeEntry{}, err
		}
		return s.entries.Update(txCtx, entity)
	})
}

// Reject ends the current approval cycle. The required role follows the
// entry's position in the flow: managers reject submitted entries, admins
// reject manager-approved ones. Comments are mandatory.
func (s *ApprovalService) Reject(ctx context.Context, entryID uuid.UUID, comments string) (timeentry.TimeEntry, error) {
	approverID, err := composables.UseActor(ctx)
	if err != nil {
		return timeentry.TimeEntry{}, serrors.Forbidden("caller identity missing")
	}
	if strings.TrimSpace(comments) == "" {
		return timeentry.TimeEntry{}, serrors.Validation("rejection requires a reason")
	}
	rejected, err := composables.InTxResult(ctx, func(txCtx context.Context) (timeentry.TimeEntry, error) {
		existing, err := s.entries.GetByID(txCtx, entryID)
		if err != nil {
			return timeentry.TimeEntry{}, err
		}

		var level approval.Level
		switch existing.Status() {
		case timeentry.StatusSubmitted:
			level = approval.LevelManager
			assigned, err := s.gate.CanActOnProject(txCtx, approverID, existing.ProjectID(), user.RoleManager)
			if err != nil {
				return timeentry.TimeEntry{}, err
			}
			if !assigned {
				return timeentry.TimeEntry{}, serrors.Forbidden("caller is not an assigned manager of the entry's project")
			}
		case timeentry.StatusManagerApproved:
			level = approval.LevelAdmin
			isAdmin, err := s.gate.IsAdmin(txCtx, approverID)
			if err != nil {
				return timeentry.TimeEntry{}, err
			}
			if !isAdmin {
				return timeentry.TimeEntry{}, serrors.Forbidden("administrator role required to reject at this stage")
			}
		default:
			return timeentry.TimeEntry{}, serrors.InvalidStatef("cannot reject entry in status %q", existing.Status())
		}

		entity, err := existing.Reject()
		if err != nil {
			return timeentry.TimeEntry{}, err
		}
		if err := s.resolveActive(txCtx, entryID, level, func(a approval.Approval) (approval.Approval, error) {
			return a.Reject(approverID, comments)
		}); err != nil {
			return timeentry.TimeEntry{}, err
		}
		return s.entries.Update(txCtx, entity)
	})
	if err != nil {
		return timeentry.TimeEntry{}, err
	}
	s.publisher.Publish(timeentry.NewRejectedEvent(ctx, approverID, rejected, comments))
	return rejected, nil
}

// BulkApprove applies the single-entry approval rules to each id in its own
// transaction. An entry in submitted goes through the manager path, one in
// manager_approved through the admin path; anything else is reported failed.
func (s *ApprovalService) BulkApprove(ctx context.Context, entryIDs []uuid.UUID, comments string) (*BulkResult, error) {
	approverID, err := composables.UseActor(ctx)
	if err != nil {
		return nil, serrors.Forbidden("caller identity missing")
	}
	if len(entryIDs) == 0 {
		return nil, serrors.Validation("no entry ids provided")
	}
	result := &BulkResult{}
	for _, id := range entryIDs {
		approved, level, err := s.approveOneByState(ctx, id, approverID, comments)
		if err != nil {
			result.fail(id, err)
			continue
		}
		result.ok(id)
		if level == approval.LevelManager {
			s.publisher.Publish(timeentry.NewManagerApprovedEvent(ctx, approverID, approved, comments))
		} else {
			s.publisher.Publish(timeentry.NewAdminApprovedEvent(ctx, approverID, approved, comments))
		}
	}
	return result, nil
}

func (s *ApprovalService) approveOneByState(ctx context.Context, entryID, approverID uuid.UUID, comments string) (timeentry.TimeEntry, approval.Level, error) {
	existing, err := composables.InTxResult(ctx, func(txCtx context.Context) (timeentry.TimeEntry, error) {
		return s.entries.GetByID(txCtx, entryID)
	})
	if err != nil {
		return timeentry.TimeEntry{}, 0, err
	}
	switch existing.Status() {
	case timeentry.StatusSubmitted:
		approved, err := s.managerApproveOne(ctx, entryID, approverID, comments)
		return approved, approval.LevelManager, err
	case timeentry.StatusManagerApproved:
		approved, err := s.adminApproveOne(ctx, entryID, approverID, comments)
		return approved, approval.LevelAdmin, err
	default:
		return timeentry.TimeEntry{}, 0, serrors.InvalidStatef("cannot approve entry in status %q", existing.Status())
	}
}

// ApprovalHistory returns every approval record for the entry oldest-first,
// rejected and superseded rows included.
func (s *ApprovalService) ApprovalHistory(ctx context.Context, entryID uuid.UUID) ([]approval.Approval, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) ([]approval.Approval, error) {
		if _, err := s.entries.GetByID(txCtx, entryID); err != nil {
			return nil, err
		}
		return s.approvals.ListByEntry(txCtx, entryID)
	})
}

// PendingApprovals lists the entries awaiting the caller's decision: for an
// admin, everything manager-approved; for a manager, submitted entries in
// the projects they manage, optionally narrowed to one project.
func (s *ApprovalService) PendingApprovals(ctx context.Context, projectID *uuid.UUID, limit, offset int) ([]timeentry.TimeEntry, error) {
	approverID, err := composables.UseActor(ctx)
	if err != nil {
		return nil, serrors.Forbidden("caller identity missing")
	}
	return composables.InTxResult(ctx, func(txCtx context.Context) ([]timeentry.TimeEntry, error) {
		isAdmin, err := s.gate.IsAdmin(txCtx, approverID)
		if err != nil {
			return nil, err
		}
		if isAdmin {
			status := timeentry.StatusManagerApproved
			return s.entries.List(txCtx, &timeentry.FindParams{
				ProjectID: projectID,
				Status:    &status,
				Limit:     limit,
				Offset:    offset,
			})
		}

		managed, err := s.projects.GetForManager(txCtx, approverID)
		if err != nil {
			return nil, err
		}
		projectIDs := make([]uuid.UUID, 0, len(managed))
		for _, p := range managed {
			if projectID != nil && p.ID() != *projectID {
				continue
			}
			projectIDs = append(projectIDs, p.ID())
		}
		if len(projectIDs) == 0 {
			return nil, nil
		}
		status := timeentry.StatusSubmitted
		return s.entries.List(txCtx, &timeentry.FindParams{
			ProjectIDs: projectIDs,
			Status:     &status,
			Limit:      limit,
			Offset:     offset,
		})
	})
}

// resolveActive loads the pending approval at the given level and applies
// the decision. A missing pending row means the entry is mid-race or was
// produced by an older flow; both surface as invalid state.
func (s *ApprovalService) resolveActive(ctx context.Context, entryID uuid.UUID, level approval.Level, decide func(approval.Approval) (approval.Approval, error)) error {
	active, err := s.approvals.ActiveForLevel(ctx, entryID, level)
	if err != nil {
		if errors.Is(err, approval.ErrNotFound) {
			return serrors.InvalidStatef("no pending level-%d approval for entry", level)
		}
		return err
	}
	decided, err := decide(active)
	if err != nil {
		return err
	}
	return s.approvals.Update(ctx, decided)
}
