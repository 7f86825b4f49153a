package user

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	Search string
	Role   *Role
	Active *bool
	Limit  int
	Offset int
}

type Repository interface {
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, data User) (User, error)
	Update(ctx context.Context, data User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
