package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/timesheet/modules/core/domain/aggregates/user"
)

// Gate answers capability questions for the timesheet services. Role storage
// lives behind it; the services only consume yes/no decisions and the
// resolved manager set.
type Gate interface {
	// CanActOnProject reports whether userID holds the given role on the
	// project: RoleDeveloper means an active assignment, RoleManager an
	// approving-manager assignment.
	CanActOnProject(ctx context.Context, userID, projectID uuid.UUID, role user.Role) (bool, error)
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	AssignedManagers(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error)
}
