package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/timesheet/modules/core/domain/aggregates/user"
	"github.com/iota-uz/timesheet/modules/logging/domain/entities/auditlog"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/timeentry"
	"github.com/iota-uz/timesheet/pkg/eventbus"
	"github.com/iota-uz/timesheet/pkg/itf"
	"github.com/iota-uz/timesheet/pkg/serrors"
)

type mockAuditRepo struct {
	created []*auditlog.AuditLog
	failing bool
}

func (m *mockAuditRepo) List(_ context.Context, _ *auditlog.FindParams) ([]*auditlog.AuditLog, error) {
	return append([]*auditlog.AuditLog{}, m.created...), nil
}

func (m *mockAuditRepo) Count(_ context.Context, _ *auditlog.FindParams) (int64, error) {
	return int64(len(m.created)), nil
}

func (m *mockAuditRepo) Create(_ context.Context, log *auditlog.AuditLog) error {
	if m.failing {
		return serrors.Storage(context.DeadlineExceeded)
	}
	m.created = append(m.created, log)
	return nil
}

func testRecorder(repo *mockAuditRepo, log *logrus.Logger) *Recorder {
	r := NewRecorder(repo, nil, log, time.Second)
	r.newCtx = func() (context.Context, context.CancelFunc) {
		return itf.NewTestContext().Build(), func() {}
	}
	return r
}

func submittedEvent(actorID uuid.UUID) timeentry.SubmittedEvent {
	entry, _ := timeentry.New(
		actorID,
		uuid.New(),
		"incident retro notes",
		"",
		decimal.NewFromInt(2),
		time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC),
	)
	ctx := itf.NewTestContext().WithActor(actorID).WithIP("192.0.2.4").Build()
	return timeentry.NewSubmittedEvent(ctx, actorID, entry)
}

func TestRecorder_WritesAuditRow(t *testing.T) {
	repo := &mockAuditRepo{}
	log, _ := test.NewNullLogger()
	recorder := testRecorder(repo, log)
	actorID := uuid.New()

	bus := eventbus.NewEventPublisher(log)
	recorder.Register(bus)
	event := submittedEvent(actorID)
	bus.Publish(event)

	require.Len(t, repo.created, 1)
	row := repo.created[0]
	require.Equal(t, actorID, row.UserID)
	require.Equal(t, "time_entry.submitted", row.Action)
	require.Equal(t, "time_entry", row.ResourceType)
	require.NotNil(t, row.ResourceID)
	require.Equal(t, event.Result.ID(), *row.ResourceID)
	require.Equal(t, "192.0.2.4", row.IPAddress)
}

func TestRecorder_UserEvents(t *testing.T) {
	repo := &mockAuditRepo{}
	log, _ := test.NewNullLogger()
	recorder := testRecorder(repo, log)
	actorID := uuid.New()
	ctx := itf.NewTestContext().WithActor(actorID).Build()

	created := user.New("dev@example.com", "June Dev", user.RoleDeveloper, &actorID)
	recorder.onUserCreated(user.NewCreatedEvent(ctx, actorID, created))
	recorder.onUserDeactivated(user.NewDeactivatedEvent(ctx, actorID, created.Deactivate(actorID)))

	require.Len(t, repo.created, 2)
	require.Equal(t, "user.created", repo.created[0].Action)
	require.Equal(t, "user.deactivated", repo.created[1].Action)
	require.Contains(t, repo.created[0].Details, "dev@example.com")
}

func TestRecorder_StoreFailureIsOnlyLogged(t *testing.T) {
	repo := &mockAuditRepo{failing: true}
	log, hook := test.NewNullLogger()
	recorder := testRecorder(repo, log)
	actorID := uuid.New()

	require.NotPanics(t, func() {
		recorder.onEntrySubmitted(submittedEvent(actorID))
	})
	require.Empty(t, repo.created)

	entries := hook.AllEntries()
	require.NotEmpty(t, entries)
	require.Equal(t, logrus.ErrorLevel, entries[len(entries)-1].Level)
}
