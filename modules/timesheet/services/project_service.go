package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/project"
	"github.com/iota-uz/timesheet/pkg/composables"
	"github.com/iota-uz/timesheet/pkg/eventbus"
	"github.com/iota-uz/timesheet/pkg/serrors"
)

// ProjectService manages projects and their user and manager rosters.
// Mutations are admin-only.
type ProjectService struct {
	projects  project.Repository
	gate      Gate
	publisher eventbus.EventBus
}

func NewProjectService(projects project.Repository, gate Gate, publisher eventbus.EventBus) *ProjectService {
	return &ProjectService{projects: projects, gate: gate, publisher: publisher}
}

func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (project.Project, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (project.Project, error) {
		return s.projects.GetByID(txCtx, id)
	})
}

func (s *ProjectService) GetPaginated(ctx context.Context, params *project.FindParams) ([]project.Project, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) ([]project.Project, error) {
		return s.projects.GetPaginated(txCtx, params)
	})
}

func (s *ProjectService) Count(ctx context.Context, params *project.FindParams) (int64, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.projects.Count(txCtx, params)
	})
}

func (s *ProjectService) Create(ctx context.Context, data *project.CreateDTO) (project.Project, error) {
	actorID, err := composables.UseActor(ctx)
	if err != nil {
		return project.Project{}, serrors.Forbidden("caller identity missing")
	}
	data.Normalize()
	if fields, ok := data.Ok(); !ok {
		return project.Project{}, serrors.FromFieldErrors(fields)
	}
	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (project.Project, error) {
		if err := s.requireAdmin(txCtx, actorID); err != nil {
			return project.Project{}, err
		}
		return s.projects.Create(txCtx, data.ToEntity(actorID))
	})
	if err != nil {
		return project.Project{}, err
	}
	s.publisher.Publish(project.NewCreatedEvent(ctx, actorID, created))
	return created, nil
}

func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, data *project.UpdateDTO) (project.Project, error) {
	actorID, err := composables.UseActor(ctx)
	if err != nil {
		return project.Project{}, serrors.Forbidden("caller identity missing")
	}
	if fields, ok := data.Ok(); !ok {
		return project.Project{}, serrors.FromFieldErrors(fields)
	}
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (project.Project, error) {
		if err := s.requireAdmin(txCtx, actorID); err != nil {
			return project.Project{}, err
		}
		existing, err := s.projects.GetByID(txCtx, id)
		if err != nil {
			return project.Project{}, err
		}
		entity := data.Apply(existing)
		if err := s.projects.Update(txCtx, entity); err != nil {
			return project.Project{}, err
		}
		return entity, nil
	})
	if err != nil {
		return project.Project{}, err
	}
	s.publisher.Publish(project.NewUpdatedEvent(ctx, actorID, updated))
	return updated, nil
}

func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	actorID, err := composables.UseActor(ctx)
	if err != nil {
		return serrors.Forbidden("caller identity missing")
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		if err := s.requireAdmin(txCtx, actorID); err != nil {
			return err
		}
		if _, err := s.projects.GetByID(txCtx, id); err != nil {
			return err
		}
		return s.projects.Delete(txCtx, id)
	}); err != nil {
		return err
	}
	s.publisher.Publish(project.NewDeletedEvent(ctx, actorID, id))
	return nil
}

// AssignUser puts a user on the project roster. Re-assigning a previously
// removed user reactivates the existing row instead of inserting a second
// one, so provenance of the original assignment is preserved.
func (s *ProjectService) AssignUser(ctx context.Context, projectID, userID uuid.UUID) (project.Assignment, error) {
	actorID, err := composables.UseActor(ctx)
	if err != nil {
		return project.Assignment{}, serrors.Forbidden("caller identity missing")
	}
	assignment, err := composables.InTxResult(ctx, func(txCtx context.Context) (project.Assignment, error) {
		if err := s.requireAdmin(txCtx, actorID); err != nil {
			return project.Assignment{}, err
		}
		if _, err := s.projects.GetByID(txCtx, projectID); err != nil {
			return project.Assignment{}, err
		}
		existing, err := s.projects.GetAssignment(txCtx, projectID, userID)
		switch {
		case err == nil:
			if existing.Active() {
				return project.Assignment{}, serrors.Conflict("user is already assigned to the project")
			}
			revived := existing.Reactivate()
			if err := s.projects.UpdateAssignment(txCtx, revived); err != nil {
				return project.Assignment{}, err
			}
			return revived, nil
		case errors.Is(err, project.ErrAssignmentNotFound):
			return s.projects.CreateAssignment(txCtx, project.NewAssignment(userID, projectID, &actorID))
		default:
			return project.Assignment{}, err
		}
	})
	if err != nil {
		return project.Assignment{}, err
	}
	s.publisher.Publish(project.NewUserAssignedEvent(ctx, actorID, projectID, userID))
	return assignment, nil
}

// RemoveUser deactivates the user's assignment. The row is kept so existing
// entries keep resolving the access the user had when they were logged.
func (s *ProjectService) RemoveUser(ctx context.Context, projectID, userID uuid.UUID) error {
	actorID, err := composables.UseActor(ctx)
	if err != nil {
		return serrors.Forbidden("caller identity missing")
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		if err := s.requireAdmin(txCtx, actorID); err != nil {
			return err
		}
		existing, err := s.projects.GetAssignment(txCtx, projectID, userID)
		if err != nil {
			return err
		}
		if !existing.Active() {
			return serrors.Conflict("user is not assigned to the project")
		}
		return s.projects.UpdateAssignment(txCtx, existing.Remove(actorID))
	}); err != nil {
		return err
	}
	s.publisher.Publish(project.NewUserRemovedEvent(ctx, actorID, projectID, userID))
	return nil
}

// AssignManager makes the user an approving manager of the project.
// Assigning someone who is already a manager is a no-op.
func (s *ProjectService) AssignManager(ctx context.Context, projectID, managerID uuid.UUID) (project.ManagerAssignment, error) {
	actorID, err := composables.UseActor(ctx)
	if err != nil {
		return project.ManagerAssignment{}, serrors.Forbidden("caller identity missing")
	}
	var created bool
	assignment, err := composables.InTxResult(ctx, func(txCtx context.Context) (project.ManagerAssignment, error) {
		if err := s.requireAdmin(txCtx, actorID); err != nil {
			return project.ManagerAssignment{}, err
		}
		if _, err := s.projects.GetByID(txCtx, projectID); err != nil {
			return project.ManagerAssignment{}, err
		}
		existing, err := s.projects.GetManagerAssignment(txCtx, projectID, managerID)
		switch {
		case err == nil:
			return existing, nil
		case errors.Is(err, project.ErrManagerAssignmentNotFound):
			created = true
			return s.projects.CreateManagerAssignment(txCtx, project.NewManagerAssignment(projectID, managerID, actorID))
		default:
			return project.ManagerAssignment{}, err
		}
	})
	if err != nil {
		return project.ManagerAssignment{}, err
	}
	if created {
		s.publisher.Publish(project.NewManagerAssignedEvent(ctx, actorID, projectID, managerID))
	}
	return assignment, nil
}

func (s *ProjectService) RemoveManager(ctx context.Context, projectID, managerID uuid.UUID) error {
	actorID, err := composables.UseActor(ctx)
	if err != nil {
		return serrors.Forbidden("caller identity missing")
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		if err := s.requireAdmin(txCtx, actorID); err != nil {
			return err
		}
		if _, err := s.projects.GetManagerAssignment(txCtx, projectID, managerID); err != nil {
			return err
		}
		return s.projects.DeleteManagerAssignment(txCtx, projectID, managerID)
	}); err != nil {
		return err
	}
	s.publisher.Publish(project.NewManagerRemovedEvent(ctx, actorID, projectID, managerID))
	return nil
}

// Members lists the ids of users actively assigned to the project.
func (s *ProjectService) Members(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) ([]uuid.UUID, error) {
		if _, err := s.projects.GetByID(txCtx, projectID); err != nil {
			return nil, err
		}
		return s.projects.Members(txCtx, projectID)
	})
}

// Managers lists the ids of the project's approving managers.
func (s *ProjectService) Managers(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) ([]uuid.UUID, error) {
		if _, err := s.projects.GetByID(txCtx, projectID); err != nil {
			return nil, err
		}
		return s.projects.Managers(txCtx, projectID)
	})
}

// UserProjects lists the projects a user is actively assigned to.
func (s *ProjectService) UserProjects(ctx context.Context, userID uuid.UUID) ([]project.Project, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) ([]project.Project, error) {
		return s.projects.GetForUser(txCtx, userID)
	})
}

// ManagerProjects lists the projects a user manages.
func (s *ProjectService) ManagerProjects(ctx context.Context, managerID uuid.UUID) ([]project.Project, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) ([]project.Project, error) {
		return s.projects.GetForManager(txCtx, managerID)
	})
}

func (s *ProjectService) requireAdmin(ctx context.Context, actorID uuid.UUID) error {
	isAdmin, err := s.gate.IsAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return serrors.Forbidden("administrator role required")
	}
	return nil
}
