package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/project"
	"github.com/iota-uz/timesheet/modules/timesheet/infrastructure/persistence/models"
	"github.com/iota-uz/timesheet/pkg/composables"
	"github.com/iota-uz/timesheet/pkg/repo"
)

const projectColumns = "id, name, description, client, status, hourly_rate, created_by, created_at, updated_at"

type ProjectRepository struct{}

func NewProjectRepository() project.Repository {
	return &ProjectRepository{}
}

func (r *ProjectRepository) Count(ctx context.Context, params *project.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildProjectFilters(params)

	var count int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM projects
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, repo.TranslateDBError(err)
	}
	return count, nil
}

func (r *ProjectRepository) GetPaginated(ctx context.Context, params *project.FindParams) ([]project.Project, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	where, args := buildProjectFilters(params)
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY name ASC
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, repo.TranslateDBError(err)
	}
	defer rows.Close()
	return collectProjects(rows)
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (project.Project, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return project.Project{}, err
	}
	entity, err := scanProject(tx.QueryRow(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.Project{}, project.ErrNotFound
		}
		return project.Project{}, repo.TranslateDBError(err)
	}
	return entity, nil
}

// GetForUser returns projects the user is actively assigned to.
func (r *ProjectRepository) GetForUser(ctx context.Context, userID uuid.UUID) ([]project.Project, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
		SELECT p.id, p.name, p.description, p.client, p.status, p.hourly_rate, p.created_by, p.created_at, p.updated_at
		FROM projects p
		JOIN project_assignments pa ON pa.project_id = p.id
		WHERE pa.user_id = $1 AND pa.active
		ORDER BY p.name ASC`,
		userID,
	)
	if err != nil {
		return nil, repo.TranslateDBError(err)
	}
	defer rows.Close()
	return collectProjects(rows)
}

// GetForManager returns projects the user manages.
func (r *ProjectRepository) GetForManager(ctx context.Context, managerID uuid.UUID) ([]project.Project, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
		SELECT p.id, p.name, p.description, p.client, p.status, p.hourly_rate, p.created_by, p.created_at, p.updated_at
		FROM projects p
		JOIN project_managers pm ON pm.project_id = p.id
		WHERE pm.manager_id = $1
		ORDER BY p.name ASC`,
		managerID,
	)
	if err != nil {
		return nil, repo.TranslateDBError(err)
	}
	defer rows.Close()
	return collectProjects(rows)
}

func (r *ProjectRepository) Create(ctx context.Context, data project.Project) (project.Project, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return project.Project{}, err
	}
	row := toDBProject(data)
	if _, err := tx.Exec(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		row.ID,
		row.Name,
		row.Description,
		row.Client,
		row.Status,
		row.HourlyRate,
		row.CreatedBy,
		row.CreatedAt,
		row.UpdatedAt,
	); err != nil {
		return project.Project{}, repo.TranslateDBError(err)
	}
	return data, nil
}

func (r *ProjectRepository) Update(ctx context.Context, data project.Project) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	row := toDBProject(data)
	tag, err := tx.Exec(ctx, `
		UPDATE projects
		SET name = $1, description = $2, client = $3, status = $4, hourly_rate = $5, updated_at = $6
		WHERE id = $7`,
		row.Name,
		row.Description,
		row.Client,
		row.Status,
		row.HourlyRate,
		row.UpdatedAt,
		row.ID,
	)
	if err != nil {
		return repo.TranslateDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return project.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return repo.TranslateDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return project.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) GetAssignment(ctx context.Context, projectID, userID uuid.UUID) (project.Assignment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return project.Assignment{}, err
	}
	var m models.ProjectAssignment
	if err := tx.QueryRow(ctx, `
		SELECT id, user_id, project_id, assigned_by, assigned_at, removed_by, removed_at, active
		FROM project_assignments
		WHERE project_id = $1 AND user_id = $2`,
		projectID, userID,
	).Scan(
		&m.ID,
		&m.UserID,
		&m.ProjectID,
		&m.AssignedBy,
		&m.AssignedAt,
		&m.RemovedBy,
		&m.RemovedAt,
		&m.Active,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.Assignment{}, project.ErrAssignmentNotFound
		}
		return project.Assignment{}, repo.TranslateDBError(err)
	}
	return toDomainAssignment(&m)
}

func (r *ProjectRepository) CreateAssignment(ctx context.Context, data project.Assignment) (project.Assignment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return project.Assignment{}, err
	}
	row := toDBAssignment(data)
	if _, err := tx.Exec(ctx, `
		INSERT INTO project_assignments (id, user_id, project_id, assigned_by, assigned_at, removed_by, removed_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		row.ID,
		row.UserID,
		row.ProjectID,
		row.AssignedBy,
		row.AssignedAt,
		row.RemovedBy,
		row.RemovedAt,
		row.Active,
	); err != nil {
		return project.Assignment{}, repo.TranslateDBError(err)
	}
	return data, nil
}

func (r *ProjectRepository) UpdateAssignment(ctx context.Context, data project.Assignment) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	row := toDBAssignment(data)
	tag, err := tx.Exec(ctx, `
		UPDATE project_assignments
		SET removed_by = $1, removed_at = $2, active = $3
		WHERE id = $4`,
		row.RemovedBy,
		row.RemovedAt,
		row.Active,
		row.ID,
	)
	if err != nil {
		return repo.TranslateDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return project.ErrAssignmentNotFound
	}
	return nil
}

// Members returns ids of users actively assigned to the project.
func (r *ProjectRepository) Members(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
		SELECT user_id FROM project_assignments
		WHERE project_id = $1 AND active
		ORDER BY assigned_at ASC`,
		projectID,
	)
	if err != nil {
		return nil, repo.TranslateDBError(err)
	}
	defer rows.Close()
	return collectIDs(rows)
}

func (r *ProjectRepository) GetManagerAssignment(ctx context.Context, projectID, managerID uuid.UUID) (project.ManagerAssignment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return project.ManagerAssignment{}, err
	}
	var m models.ManagerAssignment
	if err := tx.QueryRow(ctx, `
		SELECT id, project_id, manager_id, assigned_by, assigned_at
		FROM project_managers
		WHERE project_id = $1 AND manager_id = $2`,
		projectID, managerID,
	).Scan(
		&m.ID,
		&m.ProjectID,
		&m.ManagerID,
		&m.AssignedBy,
		&m.AssignedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.ManagerAssignment{}, project.ErrManagerAssignmentNotFound
		}
		return project.ManagerAssignment{}, repo.TranslateDBError(err)
	}
	return toDomainManagerAssignment(&m)
}

func (r *ProjectRepository) CreateManagerAssignment(ctx context.Context, data project.ManagerAssignment) (project.ManagerAssignment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return project.ManagerAssignment{}, err
	}
	row := toDBManagerAssignment(data)
	if _, err := tx.Exec(ctx, `
		INSERT INTO project_managers (id, project_id, manager_id, assigned_by, assigned_at)
		VALUES ($1, $2, $3, $4, $5)`,
		row.ID,
		row.ProjectID,
		row.ManagerID,
		row.AssignedBy,
		row.AssignedAt,
	); err != nil {
		return project.ManagerAssignment{}, repo.TranslateDBError(err)
	}
	return data, nil
}

func (r *ProjectRepository) DeleteManagerAssignment(ctx context.Context, projectID, managerID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `
		DELETE FROM project_managers
		WHERE project_id = $1 AND manager_id = $2`,
		projectID, managerID,
	)
	if err != nil {
		return repo.TranslateDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return project.ErrManagerAssignmentNotFound
	}
	return nil
}

// Managers returns ids of the project's approving managers.
func (r *ProjectRepository) Managers(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
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

func scanProject(row pgx.Row) (project.Project, error) {
	var m models.Project
	if err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Description,
		&m.Client,
		&m.Status,
		&m.HourlyRate,
		&m.CreatedBy,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return project.Project{}, err
	}
	return toDomainProject(&m)
}

func collectProjects(rows pgx.Rows) ([]project.Project, error) {
	var results []project.Project
	for rows.Next() {
		entity, err := scanProject(rows)
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

func collectIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, repo.TranslateDBError(err)
	}
	return ids, nil
}

func buildProjectFilters(params *project.FindParams) ([]string, []interface{}) {
	where := []string{"1 = 1"}
	args := []interface{}{}
	argPos := 1
	if params == nil {
		return where, args
	}

	if search := strings.TrimSpace(params.Search); search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR client ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+search+"%")
		argPos++
	}
	if params.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argPos))
		args = append(args, string(*params.Status))
	}
	return where, args
}
