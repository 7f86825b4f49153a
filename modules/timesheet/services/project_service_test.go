package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/project"
	"github.com/iota-uz/timesheet/modules/timesheet/services"
	"github.com/iota-uz/timesheet/pkg/eventbus"
	"github.com/iota-uz/timesheet/pkg/itf"
	"github.com/iota-uz/timesheet/pkg/serrors"
)

type projectFixture struct {
	service  *services.ProjectService
	projects *memProjects
	gate     *fakeGate
	adminID  uuid.UUID
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()
	f := &projectFixture{
		projects: newMemProjects(),
		gate:     newFakeGate(),
		adminID:  uuid.New(),
	}
	f.gate.admins[f.adminID] = true
	f.service = services.NewProjectService(f.projects, f.gate, eventbus.NewEventPublisher(logrus.New()))
	return f
}

func (f *projectFixture) seeded(t *testing.T) project.Project {
	t.Helper()
	p := project.New("Internal Tools", "shared utilities", "Acme", project.StatusActive, nil, f.adminID)
	f.projects.add(p)
	return p
}

func TestProjectService_Create(t *testing.T) {
	t.Run("Admin", func(t *testing.T) {
		f := newProjectFixture(t)
		rate := decimal.RequireFromString("120.50")
		created, err := f.service.Create(itf.NewTestContext().WithActor(f.adminID).Build(), &project.CreateDTO{
			Name:       "Billing Revamp",
			Client:     "Acme",
			Status:     "active",
			HourlyRate: &rate,
		})
		require.NoError(t, err)
		require.Equal(t, "Billing Revamp", created.Name())
		require.Equal(t, project.StatusActive, created.Status())
		require.NotNil(t, created.HourlyRate())
		require.True(t, created.HourlyRate().Equal(decimal.RequireFromString("120.50")))
	})

	t.Run("NonAdmin", func(t *testing.T) {
		f := newProjectFixture(t)
		_, err := f.service.Create(itf.NewTestContext().WithActor(uuid.New()).Build(), &project.CreateDTO{
			Name: "Shadow Project",
		})
		require.Error(t, err)
		require.True(t, serrors.IsForbidden(err))
	})

	t.Run("MissingName", func(t *testing.T) {
		f := newProjectFixture(t)
		_, err := f.service.Create(itf.NewTestContext().WithActor(f.adminID).Build(), &project.CreateDTO{})
		require.Error(t, err)
		require.True(t, serrors.IsValidation(err))
	})
}

func TestProjectService_Update(t *testing.T) {
	f := newProjectFixture(t)
	p := f.seeded(t)
	status := "completed"

	updated, err := f.service.Update(itf.NewTestContext().WithActor(f.adminID).Build(), p.ID(), &project.UpdateDTO{Status: &status})
	require.NoError(t, err)
	require.Equal(t, project.StatusCompleted, updated.Status())
}

func TestProjectService_AssignUser(t *testing.T) {
	t.Run("FirstAssignment", func(t *testing.T) {
		f := newProjectFixture(t)
		p := f.seeded(t)
		userID := uuid.New()
		ctx := itf.NewTestContext().WithActor(f.adminID).Build()

		assignment, err := f.service.AssignUser(ctx, p.ID(), userID)
		require.NoError(t, err)
		require.True(t, assignment.Active())
		require.Equal(t, f.adminID, *assignment.AssignedBy())

		members, err := f.service.Members(ctx, p.ID())
		require.NoError(t, err)
		require.Equal(t, []uuid.UUID{userID}, members)
	})

	t.Run("DuplicateAssignment", func(t *testing.T) {
		f := newProjectFixture(t)
		p := f.seeded(t)
		userID := uuid.New()
		ctx := itf.NewTestContext().WithActor(f.adminID).Build()

		_, err := f.service.AssignUser(ctx, p.ID(), userID)
		require.NoError(t, err)
		_, err = f.service.AssignUser(ctx, p.ID(), userID)
		require.Error(t, err)
		require.True(t, serrors.IsConflict(err))
	})

	t.Run("ReassignReactivates", func(t *testing.T) {
		f := newProjectFixture(t)
		p := f.seeded(t)
		userID := uuid.New()
		ctx := itf.NewTestContext().WithActor(f.adminID).Build()

		first, err := f.service.AssignUser(ctx, p.ID(), userID)
		require.NoError(t, err)
		require.NoError(t, f.service.RemoveUser(ctx, p.ID(), userID))

		revived, err := f.service.AssignUser(ctx, p.ID(), userID)
		require.NoError(t, err)
		require.Equal(t, first.ID(), revived.ID())
		require.True(t, revived.Active())
		require.Nil(t, revived.RemovedBy())
	})

	t.Run("UnknownProject", func(t *testing.T) {
		f := newProjectFixture(t)
		ctx := itf.NewTestContext().WithActor(f.adminID).Build()

		_, err := f.service.AssignUser(ctx, uuid.New(), uuid.New())
		require.ErrorIs(t, err, project.ErrNotFound)
	})
}

func TestProjectService_RemoveUser(t *testing.T) {
	f := newProjectFixture(t)
	p := f.seeded(t)
	userID := uuid.New()
	ctx := itf.NewTestContext().WithActor(f.adminID).Build()

	_, err := f.service.AssignUser(ctx, p.ID(), userID)
	require.NoError(t, err)
	require.NoError(t, f.service.RemoveUser(ctx, p.ID(), userID))

	// The assignment row survives with removal provenance.
	stored, err := f.projects.GetAssignment(ctx, p.ID(), userID)
	require.NoError(t, err)
	require.False(t, stored.Active())
	require.Equal(t, f.adminID, *stored.RemovedBy())
	require.NotNil(t, stored.RemovedAt())

	err = f.service.RemoveUser(ctx, p.ID(), userID)
	require.Error(t, err)
	require.True(t, serrors.IsConflict(err))
}

func TestProjectService_Managers(t *testing.T) {
	f := newProjectFixture(t)
	p := f.seeded(t)
	managerID := uuid.New()
	ctx := itf.NewTestContext().WithActor(f.adminID).Build()

	first, err := f.service.AssignManager(ctx, p.ID(), managerID)
	require.NoError(t, err)
	require.Equal(t, managerID, first.ManagerID())

	// Assigning the same manager again is a no-op.
	second, err := f.service.AssignManager(ctx, p.ID(), managerID)
	require.NoError(t, err)
	require.Equal(t, first.ID(), second.ID())

	managers, err := f.service.Managers(ctx, p.ID())
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{managerID}, managers)

	require.NoError(t, f.service.RemoveManager(ctx, p.ID(), managerID))
	err = f.service.RemoveManager(ctx, p.ID(), managerID)
	require.ErrorIs(t, err, project.ErrManagerAssignmentNotFound)
}

func TestProjectService_Delete(t *testing.T) {
	f := newProjectFixture(t)
	p := f.seeded(t)
	ctx := itf.NewTestContext().WithActor(f.adminID).Build()

	require.NoError(t, f.service.Delete(ctx, p.ID()))
	_, err := f.service.GetByID(ctx, p.ID())
	require.ErrorIs(t, err, project.ErrNotFound)
}
