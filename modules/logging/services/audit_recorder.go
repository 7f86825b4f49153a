package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/timesheet/modules/core/domain/aggregates/user"
	"github.com/iota-uz/timesheet/modules/logging/domain/entities/auditlog"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/project"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/timeentry"
	"github.com/iota-uz/timesheet/pkg/composables"
	"github.com/iota-uz/timesheet/pkg/eventbus"
)

const (
	resourceUser      = "user"
	resourceProject   = "project"
	resourceTimeEntry = "time_entry"
)

// Recorder turns domain events into audit trail rows. Events arrive after
// the originating transaction committed, so each row is written in its own
// short transaction; failures are logged and never propagated back to the
// operation that raised the event.
type Recorder struct {
	logs auditlog.Repository
	log  *logrus.Logger

	// newCtx builds the context each write runs in; swappable in tests.
	newCtx func() (context.Context, context.CancelFunc)
}

func NewRecorder(logs auditlog.Repository, pool *pgxpool.Pool, log *logrus.Logger, timeout time.Duration) *Recorder {
	return &Recorder{
		logs: logs,
		log:  log,
		newCtx: func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			return composables.WithPool(ctx, pool), cancel
		},
	}
}

// Register subscribes the recorder to every audited domain event.
func (r *Recorder) Register(bus eventbus.EventBus) {
	bus.Subscribe(r.onUserCreated)
	bus.Subscribe(r.onUserUpdated)
	bus.Subscribe(r.onUserDeleted)
	bus.Subscribe(r.onUserDeactivated)
	bus.Subscribe(r.onUserActivated)

	bus.Subscribe(r.onProjectCreated)
	bus.Subscribe(r.onProjectUpdated)
	bus.Subscribe(r.onProjectDeleted)
	bus.Subscribe(r.onUserAssigned)
	bus.Subscribe(r.onUserRemoved)
	bus.Subscribe(r.onManagerAssigned)
	bus.Subscribe(r.onManagerRemoved)

	bus.Subscribe(r.onEntryCreated)
	bus.Subscribe(r.onEntryUpdated)
	bus.Subscribe(r.onEntryDeleted)
	bus.Subscribe(r.onEntrySubmitted)
	bus.Subscribe(r.onEntryManagerApproved)
	bus.Subscribe(r.onEntryAdminApproved)
	bus.Subscribe(r.onEntryRejected)
	bus.Subscribe(r.onEntryReopened)
}

func (r *Recorder) onUserCreated(e user.CreatedEvent) {
	id := e.Result.ID()
	r.record(e.ActorID, "user.created", resourceUser, &id, fmt.Sprintf("created user %s", e.Result.Email()), e.IP, e.Timestamp)
}

func (r *Recorder) onUserUpdated(e user.UpdatedEvent) {
	id := e.Result.ID()
	r.record(e.ActorID, "user.updated", resourceUser, &id, fmt.Sprintf("updated user %s", e.Result.Email()), e.IP, e.Timestamp)
}

func (r *Recorder) onUserDeleted(e user.DeletedEvent) {
	id := e.UserID
	r.record(e.ActorID, "user.deleted", resourceUser, &id, "", e.IP, e.Timestamp)
}

func (r *Recorder) onUserDeactivated(e user.DeactivatedEvent) {
	id := e.Result.ID()
	r.record(e.ActorID, "user.deactivated", resourceUser, &id, fmt.Sprintf("deactivated user %s", e.Result.Email()), e.IP, e.Timestamp)
}

func (r *Recorder) onUserActivated(e user.ActivatedEvent) {
	id := e.Result.ID()
	r.record(e.ActorID, "user.activated", resourceUser, &id, fmt.Sprintf("activated user %s", e.Result.Email()), e.IP, e.Timestamp)
}

func (r *Recorder) onProjectCreated(e project.CreatedEvent) {
	id := e.Result.ID()
	r.record(e.ActorID, "project.created", resourceProject, &id, fmt.Sprintf("created project %q", e.Result.Name()), e.IP, e.Timestamp)
}

func (r *Recorder) onProjectUpdated(e project.UpdatedEvent) {
	id := e.Result.ID()
	r.record(e.ActorID, "project.updated", resourceProject, &id, fmt.Sprintf("updated project %q", e.Result.Name()), e.IP, e.Timestamp)
}

func (r *Recorder) onProjectDeleted(e project.DeletedEvent) {
	id := e.ProjectID
	r.record(e.ActorID, "project.deleted", resourceProject, &id, "", e.IP, e.Timestamp)
}

func (r *Recorder) onUserAssigned(e project.UserAssignedEvent) {
	id := e.ProjectID
	r.record(e.ActorID, "project.user_assigned", resourceProject, &id, fmt.Sprintf("assigned user %s", e.UserID), e.IP, e.Timestamp)
}

func (r *Recorder) onUserRemoved(e project.UserRemovedEvent) {
	id := e.ProjectID
	r.record(e.ActorID, "project.user_removed", resourceProject, &id, fmt.Sprintf("removed user %s", e.UserID), e.IP, e.Timestamp)
}

func (r *Recorder) onManagerAssigned(e project.ManagerAssignedEvent) {
	id := e.ProjectID
	r.record(e.ActorID, "project.manager_assigned", resourceProject, &id, fmt.Sprintf("assigned manager %s", e.ManagerID), e.IP, e.Timestamp)
}

func (r *Recorder) onManagerRemoved(e project.ManagerRemovedEvent) {
	id := e.ProjectID
	r.record(e.ActorID, "project.manager_removed", resourceProject, &id, fmt.Sprintf("removed manager %s", e.ManagerID), e.IP, e.Timestamp)
}

func (r *Recorder) onEntryCreated(e timeentry.CreatedEvent) {
	id := e.Result.ID()
	r.record(e.ActorID, "time_entry.created", resourceTimeEntry, &id, entryDetails(e.Result), e.IP, e.Timestamp)
}

func (r *Recorder) onEntryUpdated(e timeentry.UpdatedEvent) {
	id := e.Result.ID()
	r.record(e.ActorID, "time_entry.updated", resourceTimeEntry, &id, entryDetails(e.Result), e.IP, e.Timestamp)
}

func (r *Recorder) onEntryDeleted(e timeentry.DeletedEvent) {
	id := e.EntryID
	r.record(e.ActorID, "time_entry.deleted", resourceTimeEntry, &id, "", e.IP, e.Timestamp)
}

func (r *Recorder) onEntrySubmitted(e timeentry.SubmittedEvent) {
	id := e.Result.ID()
	r.record(e.ActorID, "time_entry.submitted", resourceTimeEntry, &id, entryDetails(e.Result), e.IP, e.Timestamp)
}

func (r *Recorder) onEntryManagerApproved(e timeentry.ManagerApprovedEvent) {
	id := e.Result.ID()
	r.record(e.ActorID, "time_entry.manager_approved", resourceTimeEntry, &id, e.Comments, e.IP, e.Timestamp)
}

func (r *Recorder) onEntryAdminApproved(e timeentry.AdminApprovedEvent) {
	id := e.Result.ID()
	r.record(e.ActorID, "time_entry.approved", resourceTimeEntry, &id, e.Comments, e.IP, e.Timestamp)
}

func (r *Recorder) onEntryRejected(e timeentry.RejectedEvent) {
	id := e.Result.ID()
	r.record(e.ActorID, "time_entry.rejected", resourceTimeEntry, &id, e.Comments, e.IP, e.Timestamp)
}

func (r *Recorder) onEntryReopened(e timeentry.ReopenedEvent) {
	id := e.Result.ID()
	r.record(e.ActorID, "time_entry.reopened", resourceTimeEntry, &id, entryDetails(e.Result), e.IP, e.Timestamp)
}

func entryDetails(t timeentry.TimeEntry) string {
	return fmt.Sprintf("%s hours on project %s", t.Hours(), t.ProjectID())
}

func (r *Recorder) record(userID uuid.UUID, action, resourceType string, resourceID *uuid.UUID, details, ip string, at time.Time) {
	ctx, cancel := r.newCtx()
	defer cancel()

	entry := &auditlog.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		IPAddress:    ip,
		CreatedAt:    at,
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return r.logs.Create(txCtx, entry)
	}); err != nil {
		r.log.WithError(err).WithFields(logrus.Fields{
			"action":        action,
			"resource_type": resourceType,
		}).Error("failed to write audit log")
	}
}
