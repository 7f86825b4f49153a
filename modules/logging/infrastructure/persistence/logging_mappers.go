package persistence

import (
	"github.com/google/uuid"

	"github.com/iota-uz/timesheet/modules/logging/domain/entities/auditlog"
	"github.com/iota-uz/timesheet/modules/logging/infrastructure/persistence/models"
)

func toDBAuditLog(log *auditlog.AuditLog) *models.AuditLog {
	row := &models.AuditLog{
		ID:           log.ID.String(),
		UserID:       log.UserID.String(),
		Action:       log.Action,
		ResourceType: log.ResourceType,
		Details:      log.Details,
		IPAddress:    log.IPAddress,
		CreatedAt:    log.CreatedAt,
	}
	if log.ResourceID != nil {
		s := log.ResourceID.String()
		row.ResourceID = &s
	}
	return row
}

func toDomainAuditLog(row *models.AuditLog) *auditlog.AuditLog {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		id = uuid.Nil
	}
	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		userID = uuid.Nil
	}
	log := &auditlog.AuditLog{
		ID:           id,
		UserID:       userID,
		Action:       row.Action,
		ResourceType: row.ResourceType,
		Details:      row.Details,
		IPAddress:    row.IPAddress,
		CreatedAt:    row.CreatedAt,
	}
	if row.ResourceID != nil {
		if rid, err := uuid.Parse(*row.ResourceID); err == nil {
			log.ResourceID = &rid
		}
	}
	return log
}
