package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/timesheet/modules/core/domain/aggregates/user"
	"github.com/iota-uz/timesheet/pkg/composables"
	"github.com/iota-uz/timesheet/pkg/repo"
	"github.com/iota-uz/timesheet/pkg/serrors"
)

// StoreGate answers capability questions straight from the relational
// assignment tables.
type StoreGate struct{}

func NewStoreGate() *StoreGate {
	return &StoreGate{}
}

func (g *StoreGate) CanActOnProject(ctx context.Context, userID, projectID uuid.UUID, role user.Role) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}

	var query string
	switch role {
	case user.RoleDeveloper:
		query = `SELECT EXISTS (
			SELECT 1 FROM project_assignments
			WHERE project_id = $1 AND user_id = $2 AND active
		)`
	case user.RoleManager:
		query = `SELECT EXISTS (
			SELECT 1 FROM project_managers
			WHERE project_id = $1 AND manager_id = $2
		)`
	default:
		return false, serrors.Validationf("role %q cannot be checked against a project", role)
	}

	var ok bool
	if err := tx.QueryRow(ctx, query, projectID, userID).Scan(&ok); err != nil {
		return false, repo.TranslateDBError(err)
	}
	return ok, nil
}

func (g *StoreGate) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	var ok bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (
		SELECT 1 FROM users
		WHERE id = $1 AND role = $2 AND active
	)`, userID, string(user.RoleAdmin)).Scan(&ok); err != nil {
		return false, repo.TranslateDBError(err)
	}
	return ok, nil
}

func (g *StoreGate) AssignedManagers(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
		SELECT manager_id FROM project_managers
		WHERE project_id = $1
		ORDER BY assigned_at ASC`,
		projectID,
	)
	if err != nil {
		return nil, repo.TranslateDBError(err)
	}
	defer rows.Close()
	return collectIDs(rows)
}
