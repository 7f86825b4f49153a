package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/timesheet/modules/core/domain/aggregates/user"
	"github.com/iota-uz/timesheet/pkg/composables"
	"github.com/iota-uz/timesheet/pkg/eventbus"
	"github.com/iota-uz/timesheet/pkg/serrors"
)

// authorizeAdminFn is swappable in tests.
var authorizeAdminFn = defaultAuthorizeAdmin

func defaultAuthorizeAdmin(ctx context.Context, repo user.Repository, actorID uuid.UUID) error {
	actor, err := repo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() || !actor.Active() {
		return serrors.Forbidden("administrator role required")
	}
	return nil
}

type UserService struct {
	repo      user.Repository
	publisher eventbus.EventBus
}

func NewUserService(repo user.Repository, publisher eventbus.EventBus) *UserService {
	return &UserService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *UserService) Count(ctx context.Context, params *user.FindParams) (int64, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.Count(txCtx, params)
	})
}

func (s *UserService) GetPaginated(ctx context.Context, params *user.FindParams) ([]user.User, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) ([]user.User, error) {
		return s.repo.GetPaginated(txCtx, params)
	})
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (user.User, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (user.User, error) {
		return s.repo.GetByEmail(txCtx, email)
	})
}

func (s *UserService) Create(ctx context.Context, data *user.CreateDTO) (user.User, error) {
	actorID, err := composables.UseActor(ctx)
	if err != nil {
		return user.User{}, serrors.Forbidden("caller identity missing")
	}
	if fields, ok := data.Ok(); !ok {
		return user.User{}, serrors.FromFieldErrors(fields)
	}
	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (user.User, error) {
		if err := authorizeAdminFn(txCtx, s.repo, actorID); err != nil {
			return user.User{}, err
		}
		return s.repo.Create(txCtx, data.ToEntity(actorID))
	})
	if err != nil {
		return user.User{}, err
	}
	s.publisher.Publish(user.NewCreatedEvent(ctx, actorID, created))
	return created, nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, data *user.UpdateDTO) (user.User, error) {
	actorID, err := composables.UseActor(ctx)
	if err != nil {
		return user.User{}, serrors.Forbidden("caller identity missing")
	}
	if fields, ok := data.Ok(); !ok {
		return user.User{}, serrors.FromFieldErrors(fields)
	}
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (user.User, error) {
		if err := authorizeAdminFn(txCtx, s.repo, actorID); err != nil {
			return user.User{}, err
		}
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return user.User{}, err
		}
		entity := data.Apply(existing)
		if err := s.repo.Update(txCtx, entity); err != nil {
			return user.User{}, err
		}
		return entity, nil
	})
	if err != nil {
		return user.User{}, err
	}
	s.publisher.Publish(user.NewUpdatedEvent(ctx, actorID, updated))
	return updated, nil
}

func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) (user.User, error) {
	actorID, err := composables.UseActor(ctx)
	if err != nil {
		return user.User{}, serrors.Forbidden("caller identity missing")
	}
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (user.User, error) {
		if err := authorizeAdminFn(txCtx, s.repo, actorID); err != nil {
			return user.User{}, err
		}
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return user.User{}, err
		}
		entity := existing.Deactivate(actorID)
		if err := s.repo.Update(txCtx, entity); err != nil {
			return user.User{}, err
		}
		return entity, nil
	})
	if err != nil {
		return user.User{}, err
	}
	s.publisher.Publish(user.NewDeactivatedEvent(ctx, actorID, updated))
	return updated, nil
}

func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (user.User, error) {
	actorID, err := composables.UseActor(ctx)
	if err != nil {
		return user.User{}, serrors.Forbidden("caller identity missing")
	}
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (user.User, error) {
		if err := authorizeAdminFn(txCtx, s.repo, actorID); err != nil {
			return user.User{}, err
		}
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return user.User{}, err
		}
		entity := existing.Activate()
		if err := s.repo.Update(txCtx, entity); err != nil {
			return user.User{}, err
		}
		return entity, nil
	})
	if err != nil {
		return user.User{}, err
	}
	s.publisher.Publish(user.NewActivatedEvent(ctx, actorID, updated))
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	actorID, err := composables.UseActor(ctx)
	if err != nil {
		return serrors.Forbidden("caller identity missing")
	}
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		if err := authorizeAdminFn(txCtx, s.repo, actorID); err != nil {
			return err
		}
		if _, err := s.repo.GetByID(txCtx, id); err != nil {
			return err
		}
		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}
	s.publisher.Publish(user.NewDeletedEvent(ctx, actorID, id))
	return nil
}
