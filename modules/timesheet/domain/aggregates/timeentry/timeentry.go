package timeentry

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/timesheet/pkg/serrors"
)

// Status is the time entry lifecycle state. Transitions are owned by the
// aggregate: draft -> submitted -> manager_approved -> approved, with
// rejected reachable from submitted and manager_approved, and draft reachable
// again from rejected via an explicit owner reopen.
type Status string

const (
	StatusDraft           Status = "draft"
	StatusSubmitted       Status = "submitted"
	StatusManagerApproved Status = "manager_approved"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusManagerApproved, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether the status ends an approval cycle.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

var ErrNotFound = serrors.NotFound("time entry")

// MaxHours caps a single entry. Anything above a full day is a recording
// mistake, not overtime.
var MaxHours = decimal.NewFromInt(24)

type TimeEntry struct {
	id          uuid.UUID
	ownerID     uuid.UUID
	projectID   uuid.UUID
	description string
	category    string
	hours       decimal.Decimal
	date        time.Time
	status      Status
	version     int64
	createdAt   time.Time
	updatedAt   time.Time
}

// ValidateHours enforces 0 < hours <= MaxHours.
func ValidateHours(hours decimal.Decimal) error {
	if hours.LessThanOrEqual(decimal.Zero) {
		return serrors.Validation("hours must be positive")
	}
	if hours.GreaterThan(MaxHours) {
		return serrors.Validationf("hours must not exceed %s per entry", MaxHours.String())
	}
	return nil
}

func New(ownerID, projectID uuid.UUID, description, category string, hours decimal.Decimal, date time.Time) (TimeEntry, error) {
	if err := ValidateHours(hours); err != nil {
		return TimeEntry{}, err
	}
	if strings.TrimSpace(description) == "" {
		return TimeEntry{}, serrors.Validation("description is required")
	}
	now := time.Now().UTC()
	return TimeEntry{
		id:          uuid.New(),
		ownerID:     ownerID,
		projectID:   projectID,
		description: strings.TrimSpace(description),
		category:    category,
		hours:       hours,
		date:        date,
		status:      StatusDraft,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func Hydrate(
	id uuid.UUID,
	ownerID uuid.UUID,
	projectID uuid.UUID,
	description string,
	category string,
	hours decimal.Decimal,
	date time.Time,
	status Status,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) TimeEntry {
	return TimeEntry{
		id:          id,
		ownerID:     ownerID,
		projectID:   projectID,
		description: description,
		category:    category,
		hours:       hours,
		date:        date,
		status:      status,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (t TimeEntry) ID() uuid.UUID          { return t.id }
func (t TimeEntry) OwnerID() uuid.UUID     { return t.ownerID }
func (t TimeEntry) ProjectID() uuid.UUID   { return t.projectID }
func (t TimeEntry) Description() string    { return t.description }
func (t TimeEntry) Category() string       { return t.category }
func (t TimeEntry) Hours() decimal.Decimal { return t.hours }
func (t TimeEntry) Date() time.Time        { return t.date }
func (t TimeEntry) Status() Status         { return t.status }
func (t TimeEntry) Version() int64         { return t.version }
func (t TimeEntry) CreatedAt() time.Time   { return t.createdAt }
func (t TimeEntry) UpdatedAt() time.Time   { return t.updatedAt }

// Mutable reports whether the owner may still edit or delete the entry.
func (t TimeEntry) Mutable() bool { return t.status == StatusDraft }

func (t TimeEntry) WithProjectID(projectID uuid.UUID) TimeEntry {
	t.projectID = projectID
	t.updatedAt = time.Now().UTC()
	return t
}

func (t TimeEntry) WithDescription(description string) TimeEntry {
	t.description = strings.TrimSpace(description)
	t.updatedAt = time.Now().UTC()
	return t
}

func (t TimeEntry) WithCategory(category string) TimeEntry {
	t.category = category
	t.updatedAt = time.Now().UTC()
	return t
}

func (t TimeEntry) WithHours(hours decimal.Decimal) TimeEntry {
	t.hours = hours
	t.updatedAt = time.Now().UTC()
	return t
}

func (t TimeEntry) WithDate(date time.Time) TimeEntry {
	t.date = date
	t.updatedAt = time.Now().UTC()
	return t
}

func (t TimeEntry) transition(to Status) TimeEntry {
	t.status = to
	t.updatedAt = time.Now().UTC()
	return t
}

// Submit moves a draft into the approval flow.
func (t TimeEntry) Submit() (TimeEntry, error) {
	if t.status != StatusDraft {
		return t, serrors.InvalidStatef("cannot submit entry in status %q", t.status)
	}
	return t.transition(StatusSubmitted), nil
}

// ManagerApprove records the level-1 decision.
func (t TimeEntry) ManagerApprove() (TimeEntry, error) {
	if t.status != StatusSubmitted {
		return t, serrors.InvalidStatef("cannot manager-approve entry in status %q", t.status)
	}
	return t.transition(StatusManagerApproved), nil
}

// AdminApprove records the final level-2 decision.
func (t TimeEntry) AdminApprove() (TimeEntry, error) {
	if t.status != StatusManagerApproved {
		return t, serrors.InvalidStatef("cannot admin-approve entry in status %q", t.status)
	}
	return t.transition(StatusApproved), nil
}

// Reject ends the current approval cycle from either pending state.
func (t TimeEntry) Reject() (TimeEntry, error) {
	if t.status != StatusSubmitted && t.status != StatusManagerApproved {
		return t, serrors.InvalidStatef("cannot reject entry in status %q", t.status)
	}
	return t.transition(StatusRejected), nil
}

// Reopen returns a rejected entry to the owner as a mutable draft.
func (t TimeEntry) Reopen() (TimeEntry, error) {
	if t.status != StatusRejected {
		return t, serrors.InvalidStatef("cannot reopen entry in status %q", t.status)
	}
	return t.transition(StatusDraft), nil
}
