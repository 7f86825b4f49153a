package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/timeentry"
	"github.com/iota-uz/timesheet/modules/timesheet/infrastructure/persistence/models"
	"github.com/iota-uz/timesheet/pkg/composables"
	"github.com/iota-uz/timesheet/pkg/repo"
)

const timeEntryColumns = "id, owner_id, project_id, description, category, hours, entry_date, status, version, created_at, updated_at"

type TimeEntryRepository struct{}

func NewTimeEntryRepository() timeentry.Repository {
	return &TimeEntryRepository{}
}

func (r *TimeEntryRepository) Count(ctx context.Context, params *timeentry.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildTimeEntryFilters(params)

	var count int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM time_entries
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, repo.TranslateDBError(err)
	}
	return count, nil
}

func (r *TimeEntryRepository) List(ctx context.Context, params *timeentry.FindParams) ([]timeentry.TimeEntry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	where, args := buildTimeEntryFilters(params)
	query := `
		SELECT ` + timeEntryColumns + `
		FROM time_entries
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY entry_date DESC, created_at DESC
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, repo.TranslateDBError(err)
	}
	defer rows.Close()

	var results []timeentry.TimeEntry
	for rows.Next() {
		entity, err := scanTimeEntry(rows)
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

func (r *TimeEntryRepository) GetByID(ctx context.Context, id uuid.UUID) (timeentry.TimeEntry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}
	entity, err := scanTimeEntry(tx.QueryRow(ctx, `
		SELECT `+timeEntryColumns+`
		FROM time_entries
		WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeentry.TimeEntry{}, timeentry.ErrNotFound
		}
		return timeentry.TimeEntry{}, repo.TranslateDBError(err)
	}
	return entity, nil
}

func (r *TimeEntryRepository) Create(ctx context.Context, data timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}
	row := toDBTimeEntry(data)
	if _, err := tx.Exec(ctx, `
		INSERT INTO time_entries (`+timeEntryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		row.ID,
		row.OwnerID,
		row.ProjectID,
		row.Description,
		row.Category,
		row.Hours,
		row.Date,
		row.Status,
		row.Version,
		row.CreatedAt,
		row.UpdatedAt,
	); err != nil {
		return timeentry.TimeEntry{}, repo.TranslateDBError(err)
	}
	return data, nil
}

// Update writes the entry only when the stored version matches the version
// the caller loaded, and bumps it by one. Zero affected rows against an
// existing id means a concurrent transition won the race.
func (r *TimeEntryRepository) Update(ctx context.Context, data timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}
	row := toDBTimeEntry(data)
	tag, err := tx.Exec(ctx, `
		UPDATE time_entries
		SET project_id = $1,
		    description = $2,
		    category = $3,
		    hours = $4,
		    entry_date = $5,
		    status = $6,
		    version = version + 1,
		    updated_at = $7
		WHERE id = $8 AND version = $9`,
		row.ProjectID,
		row.Description,
		row.Category,
		row.Hours,
		row.Date,
		row.Status,
		time.Now().UTC(),
		row.ID,
		row.Version,
	)
	if err != nil {
		return timeentry.TimeEntry{}, repo.TranslateDBError(err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, data.ID()); err != nil {
			return timeentry.TimeEntry{}, err
		}
		return timeentry.TimeEntry{}, timeentry.ErrStaleVersion
	}
	return r.GetByID(ctx, data.ID())
}

func (r *TimeEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM time_entries WHERE id = $1`, id)
	if err != nil {
		return repo.TranslateDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return timeentry.ErrNotFound
	}
	return nil
}

func (r *TimeEntryRepository) SumHours(ctx context.Context, ownerID uuid.UUID, dateRange *timeentry.DateRange) (decimal.Decimal, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	query := `SELECT COALESCE(SUM(hours), 0) FROM time_entries WHERE owner_id = $1`
	args := []interface{}{ownerID}
	if dateRange != nil {
		query += ` AND entry_date >= $2 AND entry_date <= $3`
		args = append(args, dateRange.From, dateRange.To)
	}

	var total string
	if err := tx.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, repo.TranslateDBError(err)
	}
	sum, err := decimal.NewFromString(total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse summed hours: %w", err)
	}
	return sum, nil
}

func scanTimeEntry(row pgx.Row) (timeentry.TimeEntry, error) {
	var m models.TimeEntry
	if err := row.Scan(
		&m.ID,
		&m.OwnerID,
		&m.ProjectID,
		&m.Description,
		&m.Category,
		&m.Hours,
		&m.Date,
		&m.Status,
		&m.Version,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return timeentry.TimeEntry{}, err
	}
	return toDomainTimeEntry(&m)
}

func buildTimeEntryFilters(params *timeentry.FindParams) ([]string, []interface{}) {
	where := []string{"1 = 1"}
	args := []interface{}{}
	argPos := 1
	if params == nil {
		return where, args
	}

	if params.OwnerID != nil {
		where = append(where, fmt.Sprintf("owner_id = $%d", argPos))
		args = append(args, *params.OwnerID)
		argPos++
	}
	if params.ProjectID != nil {
		where = append(where, fmt.Sprintf("project_id = $%d", argPos))
		args = append(args, *params.ProjectID)
		argPos++
	}
	if len(params.ProjectIDs) > 0 {
		where = append(where, fmt.Sprintf("project_id = ANY($%d)", argPos))
		args = append(args, params.ProjectIDs)
		argPos++
	}
	if params.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argPos))
		args = append(args, string(*params.Status))
		argPos++
	}
	if params.Range != nil {
		where = append(where, fmt.Sprintf("entry_date >= $%d", argPos))
		args = append(args, params.Range.From)
		argPos++
		where = append(where, fmt.Sprintf("entry_date <= $%d", argPos))
		args = append(args, params.Range.To)
		argPos++
	}
	return where, args
}
