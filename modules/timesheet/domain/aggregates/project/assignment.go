package project

import (
	"time"

	"github.com/google/uuid"
)

// Assignment links a user to a project. Removal is soft: the row stays with
// provenance so the approval trail keeps resolving who had access when.
type Assignment struct {
	id         uuid.UUID
	userID     uuid.UUID
	projectID  uuid.UUID
	assignedBy *uuid.UUID
	assignedAt time.Time
	removedBy  *uuid.UUID
	removedAt  *time.Time
	active     bool
}

func NewAssignment(userID, projectID uuid.UUID, assignedBy *uuid.UUID) Assignment {
	return Assignment{
		id:         uuid.New(),
		userID:     userID,
		projectID:  projectID,
		assignedBy: assignedBy,
		assignedAt: time.Now().UTC(),
		active:     true,
	}
}

func HydrateAssignment(
	id uuid.UUID,
	userID uuid.UUID,
	projectID uuid.UUID,
	assignedBy *uuid.UUID,
	assignedAt time.Time,
	removedBy *uuid.UUID,
	removedAt *time.Time,
	active bool,
) Assignment {
	return Assignment{
		id:         id,
		userID:     userID,
		projectID:  projectID,
		assignedBy: assignedBy,
		assignedAt: assignedAt,
		removedBy:  removedBy,
		removedAt:  removedAt,
		active:     active,
	}
}

func (a Assignment) ID() uuid.UUID          { return a.id }
func (a Assignment) UserID() uuid.UUID      { return a.userID }
func (a Assignment) ProjectID() uuid.UUID   { return a.projectID }
func (a Assignment) AssignedBy() *uuid.UUID { return a.assignedBy }
func (a Assignment) AssignedAt() time.Time  { return a.assignedAt }
func (a Assignment) RemovedBy() *uuid.UUID  { return a.removedBy }
func (a Assignment) RemovedAt() *time.Time  { return a.removedAt }
func (a Assignment) Active() bool           { return a.active }

// Reactivate clears removal provenance on a previously removed assignment.
func (a Assignment) Reactivate() Assignment {
	a.active = true
	a.removedBy = nil
	a.removedAt = nil
	return a
}

// Remove deactivates the assignment and records who removed it.
func (a Assignment) Remove(by uuid.UUID) Assignment {
	now := time.Now().UTC()
	a.active = false
	a.removedBy = &by
	a.removedAt = &now
	return a
}

// ManagerAssignment marks a user as an approving manager of a project.
type ManagerAssignment struct {
	id         uuid.UUID
	projectID  uuid.UUID
	managerID  uuid.UUID
	assignedBy uuid.UUID
	assignedAt time.Time
}

func NewManagerAssignment(projectID, managerID, assignedBy uuid.UUID) ManagerAssignment {
	return ManagerAssignment{
		id:         uuid.New(),
		projectID:  projectID,
		managerID:  managerID,
		assignedBy: assignedBy,
		assignedAt: time.Now().UTC(),
	}
}

func HydrateManagerAssignment(
	id uuid.UUID,
	projectID uuid.UUID,
	managerID uuid.UUID,
	assignedBy uuid.UUID,
	assignedAt time.Time,
) ManagerAssignment {
	return ManagerAssignment{
		id:         id,
		projectID:  projectID,
		managerID:  managerID,
		assignedBy: assignedBy,
		assignedAt: assignedAt,
	}
}

func (m ManagerAssignment) ID() uuid.UUID         { return m.id }
func (m ManagerAssignment) ProjectID() uuid.UUID  { return m.projectID }
func (m ManagerAssignment) ManagerID() uuid.UUID  { return m.managerID }
func (m ManagerAssignment) AssignedBy() uuid.UUID { return m.assignedBy }
func (m ManagerAssignment) AssignedAt() time.Time { return m.assignedAt }
