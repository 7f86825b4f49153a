package project

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/timesheet/pkg/serrors"
)

type FindParams struct {
	Search string
	Status *Status
	Limit  int
	Offset int
}

type Repository interface {
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (Project, error)
	GetForUser(ctx context.Context, userID uuid.UUID) ([]Project, error)
	GetForManager(ctx context.Context, managerID uuid.UUID) ([]Project, error)
	Create(ctx context.Context, data Project) (Project, error)
	Update(ctx context.Context, data Project) error
	Delete(ctx context.Context, id uuid.UUID) error

	GetAssignment(ctx context.Context, projectID, userID uuid.UUID) (Assignment, error)
	CreateAssignment(ctx context.Context, data Assignment) (Assignment, error)
	UpdateAssignment(ctx context.Context, data Assignment) error
	Members(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error)

	GetManagerAssignment(ctx context.Context, projectID, managerID uuid.UUID) (ManagerAssignment, error)
	CreateManagerAssignment(ctx context.Context, data ManagerAssignment) (ManagerAssignment, error)
	DeleteManagerAssignment(ctx context.Context, projectID, managerID uuid.UUID) error
	Managers(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error)
}

var (
	ErrAssignmentNotFound        = serrors.NotFound("project assignment")
	ErrManagerAssignmentNotFound = serrors.NotFound("manager assignment")
)
