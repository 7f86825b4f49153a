package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/timesheet/modules/core/domain/aggregates/user"
	"github.com/iota-uz/timesheet/modules/core/infrastructure/persistence/models"
	"github.com/iota-uz/timesheet/pkg/composables"
	"github.com/iota-uz/timesheet/pkg/repo"
)

const userColumns = "id, email, full_name, avatar_url, role, active, added_by, deactivated_by, deactivated_at, created_at, updated_at"

type UserRepository struct{}

func NewUserRepository() user.Repository {
	return &UserRepository{}
}

func (r *UserRepository) Count(ctx context.Context, params *user.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildUserFilters(params)

	var count int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM users
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, repo.TranslateDBError(err)
	}
	return count, nil
}

func (r *UserRepository) GetPaginated(ctx context.Context, params *user.FindParams) ([]user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	where, args := buildUserFilters(params)
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY full_name ASC
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, repo.TranslateDBError(err)
	}
	defer rows.Close()

	var results []user.User
	for rows.Next() {
		entity, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, repo.TranslateDBError(err)
	}
	return results, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}
	entity, err := scanUser(tx.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, repo.TranslateDBError(err)
	}
	return entity, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}
	entity, err := scanUser(tx.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(email) = LOWER($1)`,
		email,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, repo.TranslateDBError(err)
	}
	return entity, nil
}

func (r *UserRepository) Create(ctx context.Context, data user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}
	row := toDBUser(data)
	if _, err := tx.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		row.ID,
		row.Email,
		row.FullName,
		row.AvatarURL,
		row.Role,
		row.Active,
		row.AddedBy,
		row.DeactivatedBy,
		row.DeactivatedAt,
		row.CreatedAt,
		row.UpdatedAt,
	); err != nil {
		return user.User{}, repo.TranslateDBError(err)
	}
	return data, nil
}

func (r *UserRepository) Update(ctx context.Context, data user.User) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	row := toDBUser(data)
	tag, err := tx.Exec(ctx, `
		UPDATE users
		SET email = $1,
		    full_name = $2,
		    avatar_url = $3,
		    role = $4,
		    active = $5,
		    deactivated_by = $6,
		    deactivated_at = $7,
		    updated_at = $8
		WHERE id = $9`,
		row.Email,
		row.FullName,
		row.AvatarURL,
		row.Role,
		row.Active,
		row.DeactivatedBy,
		row.DeactivatedAt,
		row.UpdatedAt,
		row.ID,
	)
	if err != nil {
		return repo.TranslateDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return repo.TranslateDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (user.User, error) {
	var m models.User
	if err := row.Scan(
		&m.ID,
		&m.Email,
		&m.FullName,
		&m.AvatarURL,
		&m.Role,
		&m.Active,
		&m.AddedBy,
		&m.DeactivatedBy,
		&m.DeactivatedAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return user.User{}, err
	}
	return toDomainUser(&m)
}

func buildUserFilters(params *user.FindParams) ([]string, []interface{}) {
	where := []string{"1 = 1"}
	args := []interface{}{}
	argPos := 1
	if params == nil {
		return where, args
	}

	if search := strings.TrimSpace(params.Search); search != "" {
		where = append(where, fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+search+"%")
		argPos++
	}
	if params.Role != nil {
		where = append(where, fmt.Sprintf("role = $%d", argPos))
		args = append(args, string(*params.Role))
		argPos++
	}
	if params.Active != nil {
		where = append(where, fmt.Sprintf("active = $%d", argPos))
		args = append(args, *params.Active)
	}
	return where, args
}
