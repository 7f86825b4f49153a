package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/timesheet/modules/logging/domain/entities/auditlog"
	"github.com/iota-uz/timesheet/modules/logging/infrastructure/persistence/models"
	"github.com/iota-uz/timesheet/pkg/composables"
	"github.com/iota-uz/timesheet/pkg/repo"
)

type AuditLogRepository struct{}

func NewAuditLogRepository() auditlog.Repository {
	return &AuditLogRepository{}
}

func (r *AuditLogRepository) List(ctx context.Context, params *auditlog.FindParams) ([]*auditlog.AuditLog, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildAuditLogFilters(params)
	query := `
		SELECT id, user_id, action, resource_type, resource_id, details, ip_address, created_at
		FROM audit_logs
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, repo.TranslateDBError(err)
	}
	defer rows.Close()

	var results []*auditlog.AuditLog
	for rows.Next() {
		var row models.AuditLog
		if err := rows.Scan(
			&row.ID,
			&row.UserID,
			&row.Action,
			&row.ResourceType,
			&row.ResourceID,
			&row.Details,
			&row.IPAddress,
			&row.CreatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, toDomainAuditLog(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, repo.TranslateDBError(err)
	}
	return results, nil
}

func (r *AuditLogRepository) Count(ctx context.Context, params *auditlog.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildAuditLogFilters(params)

	var count int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM audit_logs
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, repo.TranslateDBError(err)
	}
	return count, nil
}

func (r *AuditLogRepository) Create(ctx context.Context, log *auditlog.AuditLog) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	dbRow := toDBAuditLog(log)

	if _, err := tx.Exec(
		ctx,
		`INSERT INTO audit_logs (id, user_id, action, resource_type, resource_id, details, ip_address, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		dbRow.ID,
		dbRow.UserID,
		dbRow.Action,
		dbRow.ResourceType,
		dbRow.ResourceID,
		dbRow.Details,
		dbRow.IPAddress,
		dbRow.CreatedAt,
	); err != nil {
		return repo.TranslateDBError(err)
	}
	return nil
}

func buildAuditLogFilters(params *auditlog.FindParams) ([]string, []interface{}) {
	where := []string{"1 = 1"}
	args := []interface{}{}
	argPos := 1
	if params == nil {
		return where, args
	}

	if params.UserID != nil {
		where = append(where, fmt.Sprintf("user_id = $%d", argPos))
		args = append(args, *params.UserID)
		argPos++
	}
	if action := strings.TrimSpace(params.Action); action != "" {
		where = append(where, fmt.Sprintf("action = $%d", argPos))
		args = append(args, action)
		argPos++
	}
	if rt := strings.TrimSpace(params.ResourceType); rt != "" {
		where = append(where, fmt.Sprintf("resource_type = $%d", argPos))
		args = append(args, rt)
		argPos++
	}
	if params.ResourceID != nil {
		where = append(where, fmt.Sprintf("resource_id = $%d", argPos))
		args = append(args, *params.ResourceID)
		argPos++
	}
	if params.From != nil && !params.From.IsZero() {
		where = append(where, fmt.Sprintf("created_at >= $%d", argPos))
		args = append(args, *params.From)
		argPos++
	}
	if params.To != nil && !params.To.IsZero() {
		where = append(where, fmt.Sprintf("created_at <= $%d", argPos))
		args = append(args, *params.To)
	}
	return where, args
}
