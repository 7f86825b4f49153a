package project

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/timesheet/pkg/constants"
	"github.com/iota-uz/timesheet/pkg/serrors"
)

type CreateDTO struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	Client      string           `json:"client"`
	Status      string           `json:"status"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Status = strings.TrimSpace(d.Status)
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()

	fieldErrs := make(serrors.ValidationErrors)
	if errs := constants.Validate.Struct(d); errs != nil {
		fieldErrs = serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors))
	}
	if d.HourlyRate != nil && d.HourlyRate.IsNegative() {
		fieldErrs["HourlyRate"] = "HourlyRate must not be negative"
	}
	return fieldErrs, len(fieldErrs) == 0
}

func (d *CreateDTO) ToEntity(createdBy uuid.UUID) Project {
	// Unknown status strings fall back to active, matching how projects
	// have always been created.
	status := Status(d.Status)
	if !status.Valid() {
		status = StatusActive
	}
	return New(d.Name, d.Description, d.Client, status, d.HourlyRate, createdBy)
}

// UpdateDTO carries a partial patch: nil fields keep their prior values.
type UpdateDTO struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Client      *string          `json:"client"`
	Status      *string          `json:"status"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate"`
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	fieldErrs := make(serrors.ValidationErrors)
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		fieldErrs["Name"] = "Name must not be empty"
	}
	if d.Status != nil && !Status(*d.Status).Valid() {
		fieldErrs["Status"] = "Status must be one of active, inactive, completed"
	}
	if d.HourlyRate != nil && d.HourlyRate.IsNegative() {
		fieldErrs["HourlyRate"] = "HourlyRate must not be negative"
	}
	return fieldErrs, len(fieldErrs) == 0
}

func (d *UpdateDTO) Apply(p Project) Project {
	if d.Name != nil {
		p = p.WithName(*d.Name)
	}
	if d.Description != nil {
		p = p.WithDescription(*d.Description)
	}
	if d.Client != nil {
		p = p.WithClient(*d.Client)
	}
	if d.Status != nil {
		p = p.WithStatus(Status(*d.Status))
	}
	if d.HourlyRate != nil {
		p = p.WithHourlyRate(d.HourlyRate)
	}
	return p
}
