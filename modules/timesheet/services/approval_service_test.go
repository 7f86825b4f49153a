package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/project"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/timeentry"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/entities/approval"
	"github.com/iota-uz/timesheet/modules/timesheet/services"
	"github.com/iota-uz/timesheet/pkg/eventbus"
	"github.com/iota-uz/timesheet/pkg/serrors"
)

type approvalFixture struct {
	service   *services.ApprovalService
	submitter *services.TimeEntryService
	entries   *memEntries
	approvals *memApprovals
	projects  *memProjects
	gate      *fakeGate

	ownerID   uuid.UUID
	managerID uuid.UUID
	adminID   uuid.UUID
	projectID uuid.UUID
}

func newApprovalFixture(t *testing.T) *approvalFixture {
	t.Helper()
	f := &approvalFixture{
		entries:   newMemEntries(),
		approvals: newMemApprovals(),
		projects:  newMemProjects(),
		gate:      newFakeGate(),
		ownerID:   uuid.New(),
		managerID: uuid.New(),
		adminID:   uuid.New(),
	}
	p := project.New("Billing Revamp", "", "Acme", project.StatusActive, nil, f.adminID)
	f.projectID = p.ID()
	f.projects.add(p)
	f.projects.managers[uuid.New()] = project.NewManagerAssignment(f.projectID, f.managerID, f.adminID)

	f.gate.developers[f.projectID] = []uuid.UUID{f.ownerID}
	f.gate.managers[f.projectID] = []uuid.UUID{f.managerID}
	f.gate.admins[f.adminID] = true

	bus := eventbus.NewEventPublisher(logrus.New())
	f.service = services.NewApprovalService(f.entries, f.approvals, f.projects, f.gate, bus)
	f.submitter = services.NewTimeEntryService(f.entries, f.approvals, f.gate, bus)
	return f
}

// submittedEntry creates a draft and submits it through the service so the
// level-1 pending approval exists, as it would in production.
func (f *approvalFixture) submittedEntry(t *testing.T) timeentry.TimeEntry {
	t.Helper()
	entry, err := timeentry.New(
		f.ownerID,
		f.projectID,
		"quarterly reporting pipeline",
		"development",
		decimal.NewFromInt(4),
		time.Date(2025, 4, 8, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	f.entries.add(entry)
	submitted, err := f.submitter.Submit(actorCtx(f.ownerID).Build(), entry.ID())
	require.NoError(t, err)
	return submitted
}

func (f *approvalFixture) managerApproved(t *testing.T) timeentry.TimeEntry {
	t.Helper()
	entry := f.submittedEntry(t)
	approved, err := f.service.ManagerApprove(actorCtx(f.managerID).Build(), entry.ID(), "ok")
	require.NoError(t, err)
	return approved
}

func TestApprovalService_ManagerApprove(t *testing.T) {
	t.Run("AssignedManager", func(t *testing.T) {
		f := newApprovalFixture(t)
		entry := f.submittedEntry(t)
		ctx := actorCtx(f.managerID).Build()

		approved, err := f.service.ManagerApprove(ctx, entry.ID(), "matches the sprint log")
		require.NoError(t, err)
		require.Equal(t, timeentry.StatusManagerApproved, approved.Status())

		history, err := f.approvals.ListByEntry(ctx, entry.ID())
		require.NoError(t, err)
		require.Len(t, history, 2)

		levelOne := history[0]
		require.Equal(t, approval.LevelManager, levelOne.Level())
		require.Equal(t, approval.StatusApproved, levelOne.Status())
		require.Equal(t, f.managerID, *levelOne.ApproverID())
		require.False(t, levelOne.IsFinal())

		levelTwo := history[1]
		require.Equal(t, approval.LevelAdmin, levelTwo.Level())
		require.True(t, levelTwo.Pending())
		require.Nil(t, levelTwo.ApproverID())
	})

	t.Run("UnassignedManager", func(t *testing.T) {
		f := newApprovalFixture(t)
		entry := f.submittedEntry(t)

		_, err := f.service.ManagerApprove(actorCtx(uuid.New()).Build(), entry.ID(), "")
		require.Error(t, err)
		require.True(t, serrors.IsForbidden(err))

		stored, err := f.entries.GetByID(actorCtx(f.managerID).Build(), entry.ID())
		require.NoError(t, err)
		require.Equal(t, timeentry.StatusSubmitted, stored.Status())
	})

	t.Run("AlreadyManagerApproved", func(t *testing.T) {
		f := newApprovalFixture(t)
		entry := f.managerApproved(t)

		_, err := f.service.ManagerApprove(actorCtx(f.managerID).Build(), entry.ID(), "")
		require.Error(t, err)
		require.True(t, serrors.IsInvalidState(err))
	})
}

func TestApprovalService_AdminApprove(t *testing.T) {
	t.Run("FinalApproval", func(t *testing.T) {
		f := newApprovalFixture(t)
		entry := f.managerApproved(t)
		ctx := actorCtx(f.adminID).Build()

		approved, err := f.service.AdminApprove(ctx, entry.ID(), "payroll cleared")
		require.NoError(t, err)
		require.Equal(t, timeentry.StatusApproved, approved.Status())

		history, err := f.approvals.ListByEntry(ctx, entry.ID())
		require.NoError(t, err)
		require.Len(t, history, 2)
		require.False(t, history[0].IsFinal())
		require.True(t, history[1].IsFinal())
		require.Equal(t, f.adminID, *history[1].ApproverID())
	})

	t.Run("NonAdmin", func(t *testing.T) {
		f := newApprovalFixture(t)
		entry := f.managerApproved(t)

		_, err := f.service.AdminApprove(actorCtx(f.managerID).Build(), entry.ID(), "")
		require.Error(t, err)
		require.True(t, serrors.IsForbidden(err))
	})

	t.Run("SkippingManagerLevel", func(t *testing.T) {
		f := newApprovalFixture(t)
		entry := f.submittedEntry(t)

		_, err := f.service.AdminApprove(actorCtx(f.adminID).Build(), entry.ID(), "")
		require.Error(t, err)
		require.True(t, serrors.IsInvalidState(err))
	})
}

func TestApprovalService_Reject(t *testing.T) {
	t.Run("CommentsRequired", func(t *testing.T) {
		f := newApprovalFixture(t)
		entry := f.submittedEntry(t)

		_, err := f.service.Reject(actorCtx(f.managerID).Build(), entry.ID(), "   ")
		require.Error(t, err)
		require.True(t, serrors.IsValidation(err))
	})

	t.Run("ManagerRejectsSubmitted", func(t *testing.T) {
		f := newApprovalFixture(t)
		entry := f.submittedEntry(t)
		ctx := actorCtx(f.managerID).Build()

		rejected, err := f.service.Reject(ctx, entry.ID(), "wrong project")
		require.NoError(t, err)
		require.Equal(t, timeentry.StatusRejected, rejected.Status())

		history, err := f.approvals.ListByEntry(ctx, entry.ID())
		require.NoError(t, err)
		require.Len(t, history, 1)
		require.Equal(t, approval.StatusRejected, history[0].Status())
		require.Equal(t, "wrong project", history[0].Comments())
	})

	t.Run("ManagerCannotRejectManagerApproved", func(t *testing.T) {
		f := newApprovalFixture(t)
		entry := f.managerApproved(t)

		_, err := f.service.Reject(actorCtx(f.managerID).Build(), entry.ID(), "second thoughts")
		require.Error(t, err)
		require.True(t, serrors.IsForbidden(err))
	})

	t.Run("AdminRejectsManagerApproved", func(t *testing.T) {
		f := newApprovalFixture(t)
		entry := f.managerApproved(t)
		ctx := actorCtx(f.adminID).Build()

		rejected, err := f.service.Reject(ctx, entry.ID(), "budget exceeded")
		require.NoError(t, err)
		require.Equal(t, timeentry.StatusRejected, rejected.Status())

		// No pending rows survive a rejection: level 1 was already resolved,
		// level 2 is now rejected.
		_, err = f.approvals.ActiveForLevel(ctx, entry.ID(), approval.LevelManager)
		require.ErrorIs(t, err, approval.ErrNotFound)
		_, err = f.approvals.ActiveForLevel(ctx, entry.ID(), approval.LevelAdmin)
		require.ErrorIs(t, err, approval.ErrNotFound)
	})

	t.Run("DraftCannotBeRejected", func(t *testing.T) {
		f := newApprovalFixture(t)
		entry, err := timeentry.New(f.ownerID, f.projectID, "draft work", "", decimal.NewFromInt(1), time.Now())
		require.NoError(t, err)
		f.entries.add(entry)

		_, err = f.service.Reject(actorCtx(f.adminID).Build(), entry.ID(), "nope")
		require.Error(t, err)
		require.True(t, serrors.IsInvalidState(err))
	})
}

func TestApprovalService_BulkApprove(t *testing.T) {
	t.Run("EmptyIDs", func(t *testing.T) {
		f := newApprovalFixture(t)
		_, err := f.service.BulkApprove(actorCtx(f.managerID).Build(), nil, "")
		require.Error(t, err)
		require.True(t, serrors.IsValidation(err))
	})

	t.Run("PartialFailure", func(t *testing.T) {
		f := newApprovalFixture(t)
		pending := f.submittedEntry(t)
		alreadyApproved := f.managerApproved(t)
		missing := uuid.New()

		result, err := f.service.BulkApprove(
			actorCtx(f.managerID).Build(),
			[]uuid.UUID{pending.ID(), alreadyApproved.ID(), missing},
			"batch review",
		)
		require.NoError(t, err)
		require.Equal(t, []uuid.UUID{pending.ID()}, result.Succeeded)
		require.Len(t, result.Failed, 2)

		codes := map[uuid.UUID]string{}
		for _, failure := range result.Failed {
			codes[failure.ID] = failure.Code
		}
		// A manager hitting a manager-approved entry lands on the admin path.
		require.Equal(t, "FORBIDDEN", codes[alreadyApproved.ID()])
		require.Equal(t, "NOT_FOUND", codes[missing])
	})

	t.Run("AdminFinalizesBatch", func(t *testing.T) {
		f := newApprovalFixture(t)
		first := f.managerApproved(t)
		second := f.managerApproved(t)

		result, err := f.service.BulkApprove(
			actorCtx(f.adminID).Build(),
			[]uuid.UUID{first.ID(), second.ID()},
			"",
		)
		require.NoError(t, err)
		require.Len(t, result.Succeeded, 2)
		require.Empty(t, result.Failed)

		ctx := actorCtx(f.adminID).Build()
		for _, id := range result.Succeeded {
			stored, err := f.entries.GetByID(ctx, id)
			require.NoError(t, err)
			require.Equal(t, timeentry.StatusApproved, stored.Status())
		}
	})
}

func TestApprovalService_ApprovalHistory(t *testing.T) {
	f := newApprovalFixture(t)
	entry := f.managerApproved(t)
	ctx := actorCtx(f.adminID).Build()
	_, err := f.service.AdminApprove(ctx, entry.ID(), "done")
	require.NoError(t, err)

	history, err := f.service.ApprovalHistory(ctx, entry.ID())
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, approval.LevelManager, history[0].Level())
	require.Equal(t, approval.LevelAdmin, history[1].Level())
	require.True(t, history[1].IsFinal())

	_, err = f.service.ApprovalHistory(ctx, uuid.New())
	require.ErrorIs(t, err, timeentry.ErrNotFound)
}

func TestApprovalService_PendingApprovals(t *testing.T) {
	t.Run("ManagerSeesSubmitted", func(t *testing.T) {
		f := newApprovalFixture(t)
		entry := f.submittedEntry(t)
		f.managerApproved(t)

		pending, err := f.service.PendingApprovals(actorCtx(f.managerID).Build(), nil, 0, 0)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		require.Equal(t, entry.ID(), pending[0].ID())
	})

	t.Run("AdminSeesManagerApproved", func(t *testing.T) {
		f := newApprovalFixture(t)
		f.submittedEntry(t)
		entry := f.managerApproved(t)

		pending, err := f.service.PendingApprovals(actorCtx(f.adminID).Build(), nil, 0, 0)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		require.Equal(t, entry.ID(), pending[0].ID())
	})

	t.Run("ManagerWithoutProjects", func(t *testing.T) {
		f := newApprovalFixture(t)
		f.submittedEntry(t)

		pending, err := f.service.PendingApprovals(actorCtx(uuid.New()).Build(), nil, 0, 0)
		require.NoError(t, err)
		require.Empty(t, pending)
	})
}
