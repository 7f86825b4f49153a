package project

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/timesheet/pkg/serrors"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusCompleted:
		return true
	}
	return false
}

var ErrNotFound = serrors.NotFound("project")

type Project struct {
	id          uuid.UUID
	name        string
	description string
	client      string
	status      Status
	hourlyRate  *decimal.Decimal
	createdBy   uuid.UUID
	createdAt   time.Time
	updatedAt   time.Time
}

func New(name, description, client string, status Status, hourlyRate *decimal.Decimal, createdBy uuid.UUID) Project {
	now := time.Now().UTC()
	return Project{
		id:          uuid.New(),
		name:        strings.TrimSpace(name),
		description: description,
		client:      client,
		status:      status,
		hourlyRate:  hourlyRate,
		createdBy:   createdBy,
		createdAt:   now,
		updatedAt:   now,
	}
}

func Hydrate(
	id uuid.UUID,
	name string,
	description string,
	client string,
	status Status,
	hourlyRate *decimal.Decimal,
	createdBy uuid.UUID,
	createdAt time.Time,
	updatedAt time.Time,
) Project {
	return Project{
		id:          id,
		name:        name,
		description: description,
		client:      client,
		status:      status,
		hourlyRate:  hourlyRate,
		createdBy:   createdBy,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (p Project) ID() uuid.UUID                { return p.id }
func (p Project) Name() string                 { return p.name }
func (p Project) Description() string          { return p.description }
func (p Project) Client() string               { return p.client }
func (p Project) Status() Status               { return p.status }
func (p Project) HourlyRate() *decimal.Decimal { return p.hourlyRate }
func (p Project) CreatedBy() uuid.UUID         { return p.createdBy }
func (p Project) CreatedAt() time.Time         { return p.createdAt }
func (p Project) UpdatedAt() time.Time         { return p.updatedAt }

func (p Project) WithName(name string) Project {
	p.name = strings.TrimSpace(name)
	p.updatedAt = time.Now().UTC()
	return p
}

func (p Project) WithDescription(description string) Project {
	p.description = description
	p.updatedAt = time.Now().UTC()
	return p
}

func (p Project) WithClient(client string) Project {
	p.client = client
	p.updatedAt = time.Now().UTC()
	return p
}

func (p Project) WithStatus(status Status) Project {
	p.status = status
	p.updatedAt = time.Now().UTC()
	return p
}

func (p Project) WithHourlyRate(rate *decimal.Decimal) Project {
	p.hourlyRate = rate
	p.updatedAt = time.Now().UTC()
	return p
}
