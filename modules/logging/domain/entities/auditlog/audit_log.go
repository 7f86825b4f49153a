package auditlog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action names follow "<resource>.<verb>", e.g. "time_entry.submitted".
type AuditLog struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Action       string
	ResourceType string
	ResourceID   *uuid.UUID
	Details      string
	IPAddress    string
	CreatedAt    time.Time
}

type FindParams struct {
	UserID       *uuid.UUID
	Action       string
	ResourceType string
	ResourceID   *uuid.UUID
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]*AuditLog, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, log *AuditLog) error
}
