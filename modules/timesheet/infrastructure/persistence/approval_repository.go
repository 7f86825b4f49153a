package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/entities/approval"
	"github.com/iota-uz/timesheet/modules/timesheet/infrastructure/persistence/models"
	"github.com/iota-uz/timesheet/pkg/composables"
	"github.com/iota-uz/timesheet/pkg/repo"
)

const approvalColumns = "id, time_entry_id, approver_id, level, status, comments, is_final, approved_at, created_at"

type ApprovalRepository struct{}

func NewApprovalRepository() approval.Repository {
	return &ApprovalRepository{}
}

func (r *ApprovalRepository) ListByEntry(ctx context.Context, timeEntryID uuid.UUID) ([]approval.Approval, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
		SELECT `+approvalColumns+`
		FROM approvals
		WHERE time_entry_id = $1
		ORDER BY created_at ASC`,
		timeEntryID,
	)
	if err != nil {
		return nil, repo.TranslateDBError(err)
	}
	defer rows.Close()

	var results []approval.Approval
	for rows.Next() {
		entity, err := scanApproval(rows)
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

func (r *ApprovalRepository) ActiveForLevel(ctx context.Context, timeEntryID uuid.UUID, level approval.Level) (approval.Approval, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return approval.Approval{}, err
	}
	entity, err := scanApproval(tx.QueryRow(ctx, `
		SELECT `+approvalColumns+`
		FROM approvals
		WHERE time_entry_id = $1 AND level = $2 AND status = $3
		ORDER BY created_at DESC
		LIMIT 1`,
		timeEntryID, int(level), string(approval.StatusPending),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return approval.Approval{}, approval.ErrNotFound
		}
		return approval.Approval{}, repo.TranslateDBError(err)
	}
	return entity, nil
}

func (r *ApprovalRepository) CountByEntry(ctx context.Context, timeEntryID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM approvals WHERE time_entry_id = $1`,
		timeEntryID,
	).Scan(&count); err != nil {
		return 0, repo.TranslateDBError(err)
	}
	return count, nil
}

func (r *ApprovalRepository) Create(ctx context.Context, data approval.Approval) (approval.Approval, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return approval.Approval{}, err
	}
	row := toDBApproval(data)
	if _, err := tx.Exec(ctx, `
		INSERT INTO approvals (`+approvalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		row.ID,
		row.TimeEntryID,
		row.ApproverID,
		row.Level,
		row.Status,
		row.Comments,
		row.IsFinal,
		row.ApprovedAt,
		row.CreatedAt,
	); err != nil {
		return approval.Approval{}, repo.TranslateDBError(err)
	}
	return data, nil
}

func (r *ApprovalRepository) Update(ctx context.Context, data approval.Approval) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	row := toDBApproval(data)
	tag, err := tx.Exec(ctx, `
		UPDATE approvals
		SET approver_id = $1, status = $2, comments = $3, is_final = $4, approved_at = $5
		WHERE id = $6`,
		row.ApproverID,
		row.Status,
		row.Comments,
		row.IsFinal,
		row.ApprovedAt,
		row.ID,
	)
	if err != nil {
		return repo.TranslateDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return approval.ErrNotFound
	}
	return nil
}

func scanApproval(row pgx.Row) (approval.Approval, error) {
	var m models.Approval
	if err := row.Scan(
		&m.ID,
		&m.TimeEntryID,
		&m.ApproverID,
		&m.Level,
		&m.Status,
		&m.Comments,
		&m.IsFinal,
		&m.ApprovedAt,
		&m.CreatedAt,
	); err != nil {
		return approval.Approval{}, err
	}
	return toDomainApproval(&m)
}
