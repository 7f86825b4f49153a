package models

import "time"

type AuditLog struct {
	ID           string
	UserID       string
	Action       string
	ResourceType string
	ResourceID   *string
	Details      string
	IPAddress    string
	CreatedAt    time.Time
}
