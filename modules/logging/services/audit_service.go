package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/iota-uz/timesheet/modules/core/domain/aggregates/user"
	"github.com/iota-uz/timesheet/modules/logging/domain/entities/auditlog"
	"github.com/iota-uz/timesheet/pkg/composables"
	"github.com/iota-uz/timesheet/pkg/serrors"
)

// authorizeAuditFn is swappable in tests.
var authorizeAuditFn = defaultAuthorizeAudit

func defaultAuthorizeAudit(ctx context.Context, users user.Repository, actorID uuid.UUID) error {
	actor, err := users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return serrors.Forbidden("caller is not a known user")
		}
		return err
	}
	if !actor.IsAdmin() || !actor.Active() {
		return serrors.Forbidden("administrator role required to read the audit trail")
	}
	return nil
}

// AuditService is the read side of the audit trail. Writes come from the
// Recorder only.
type AuditService struct {
	logs  auditlog.Repository
	users user.Repository
}

func NewAuditService(logs auditlog.Repository, users user.Repository) *AuditService {
	return &AuditService{logs: logs, users: users}
}

func (s *AuditService) List(ctx context.Context, params *auditlog.FindParams) ([]*auditlog.AuditLog, int64, error) {
	actorID, err := composables.UseActor(ctx)
	if err != nil {
		return nil, 0, serrors.Forbidden("caller identity missing")
	}
	if params == nil {
		params = &auditlog.FindParams{}
	}

	type page struct {
		logs  []*auditlog.AuditLog
		total int64
	}
	result, err := composables.InTxResult(ctx, func(txCtx context.Context) (page, error) {
		if err := authorizeAuditFn(txCtx, s.users, actorID); err != nil {
			return page{}, err
		}
		logs, err := s.logs.List(txCtx, params)
		if err != nil {
			return page{}, err
		}
		total, err := s.logs.Count(txCtx, params)
		if err != nil {
			return page{}, err
		}
		return page{logs: logs, total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return result.logs, result.total, nil
}
