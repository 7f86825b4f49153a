// Package approval models one decision record attached to a time entry.
// Records are append-only: rejected and superseded rows stay in history.
package approval

import (
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/timesheet/pkg/serrors"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Level int

const (
	LevelManager Level = 1
	LevelAdmin   Level = 2
)

// FinalLevel is the highest configured approval tier; its approval flips the
// parent entry to approved.
const FinalLevel = LevelAdmin

var ErrNotFound = serrors.NotFound("approval")

type Approval struct {
	id          uuid.UUID
	timeEntryID uuid.UUID
	// approverID is nil while pending; it is stamped by whichever eligible
	// approver decides.
	approverID *uuid.UUID
	level      Level
	status     Status
	comments   string
	isFinal    bool
	approvedAt *time.Time
	createdAt  time.Time
}

// NewPending opens an unassigned decision slot at the given level.
func NewPending(timeEntryID uuid.UUID, level Level) Approval {
	return Approval{
		id:          uuid.New(),
		timeEntryID: timeEntryID,
		level:       level,
		status:      StatusPending,
		createdAt:   time.Now().UTC(),
	}
}

func Hydrate(
	id uuid.UUID,
	timeEntryID uuid.UUID,
	approverID *uuid.UUID,
	level Level,
	status Status,
	comments string,
	isFinal bool,
	approvedAt *time.Time,
	createdAt time.Time,
) Approval {
	return Approval{
		id:          id,
		timeEntryID: timeEntryID,
		approverID:  approverID,
		level:       level,
		status:      status,
		comments:    comments,
		isFinal:     isFinal,
		approvedAt:  approvedAt,
		createdAt:   createdAt,
	}
}

func (a Approval) ID() uuid.UUID          { return a.id }
func (a Approval) TimeEntryID() uuid.UUID { return a.timeEntryID }
func (a Approval) ApproverID() *uuid.UUID { return a.approverID }
func (a Approval) Level() Level           { return a.level }
func (a Approval) Status() Status         { return a.status }
func (a Approval) Comments() string       { return a.comments }
func (a Approval) IsFinal() bool          { return a.isFinal }
func (a Approval) ApprovedAt() *time.Time { return a.approvedAt }
func (a Approval) CreatedAt() time.Time   { return a.createdAt }

func (a Approval) Pending() bool { return a.status == StatusPending }

// Approve resolves a pending record. The final flag may only be set at the
// highest configured level.
func (a Approval) Approve(approverID uuid.UUID, comments string) (Approval, error) {
	if a.status != StatusPending {
		return a, serrors.InvalidStatef("approval already %s", a.status)
	}
	now := time.Now().UTC()
	a.approverID = &approverID
	a.status = StatusApproved
	a.comments = comments
	a.isFinal = a.level == FinalLevel
	a.approvedAt = &now
	return a, nil
}

// Reject resolves a pending record with a mandatory reason.
func (a Approval) Reject(approverID uuid.UUID, comments string) (Approval, error) {
	if a.status != StatusPending {
		return a, serrors.InvalidStatef("approval already %s", a.status)
	}
	a.approverID = &approverID
	a.status = StatusRejected
	a.comments = comments
	return a, nil
}
