package models

import "time"

type Project struct {
	ID          string
	Name        string
	Description string
	Client      string
	Status      string
	HourlyRate  *string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProjectAssignment struct {
	ID         string
	UserID     string
	ProjectID  string
	AssignedBy *string
	AssignedAt time.Time
	RemovedBy  *string
	RemovedAt  *time.Time
	Active     bool
}

type ManagerAssignment struct {
	ID         string
	ProjectID  string
	ManagerID  string
	AssignedBy string
	AssignedAt time.Time
}

type TimeEntry struct {
	ID          string
	OwnerID     string
	ProjectID   string
	Description string
	Category    string
	Hours       string
	Date        time.Time
	Status      string
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Approval struct {
	ID          string
	TimeEntryID string
	ApproverID  *string
	Level       int
	Status      string
	Comments    string
	IsFinal     bool
	ApprovedAt  *time.Time
	CreatedAt   time.Time
}
