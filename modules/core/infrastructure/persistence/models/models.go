package models

import "time"

type User struct {
	ID            string
	Email         string
	FullName      string
	AvatarURL     string
	Role          string
	Active        bool
	AddedBy       *string
	DeactivatedBy *string
	DeactivatedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
