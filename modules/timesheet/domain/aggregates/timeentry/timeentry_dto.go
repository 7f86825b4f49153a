package timeentry

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/timesheet/pkg/constants"
	"github.com/iota-uz/timesheet/pkg/serrors"
)

type CreateDTO struct {
	ProjectID   uuid.UUID       `json:"project_id" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Category    string          `json:"category"`
	Hours       decimal.Decimal `json:"hours"`
	Date        time.Time       `json:"date" validate:"required"`
}

func (d *CreateDTO) Normalize() {
	d.Description = strings.TrimSpace(d.Description)
	d.Category = strings.TrimSpace(d.Category)
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()

	fieldErrs := make(serrors.ValidationErrors)
	if errs := constants.Validate.Struct(d); errs != nil {
		fieldErrs = serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors))
	}
	if err := ValidateHours(d.Hours); err != nil {
		fieldErrs["Hours"] = err.Error()
	}
	return fieldErrs, len(fieldErrs) == 0
}

func (d *CreateDTO) ToEntity(ownerID uuid.UUID) (TimeEntry, error) {
	return New(ownerID, d.ProjectID, d.Description, d.Category, d.Hours, d.Date)
}

// UpdateDTO carries a partial patch: nil fields keep their prior values.
type UpdateDTO struct {
	ProjectID   *uuid.UUID       `json:"project_id"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Hours       *decimal.Decimal `json:"hours"`
	Date        *time.Time       `json:"date"`
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	fieldErrs := make(serrors.ValidationErrors)
	if d.Description != nil && strings.TrimSpace(*d.Description) == "" {
		fieldErrs["Description"] = "Description must not be empty"
	}
	if d.Hours != nil {
		if err := ValidateHours(*d.Hours); err != nil {
			fieldErrs["Hours"] = err.Error()
		}
	}
	return fieldErrs, len(fieldErrs) == 0
}

// Apply patches the entity with the provided fields only.
func (d *UpdateDTO) Apply(t TimeEntry) TimeEntry {
	if d.ProjectID != nil {
		t = t.WithProjectID(*d.ProjectID)
	}
	if d.Description != nil {
		t = t.WithDescription(*d.Description)
	}
	if d.Category != nil {
		t = t.WithCategory(*d.Category)
	}
	if d.Hours != nil {
		t = t.WithHours(*d.Hours)
	}
	if d.Date != nil {
		t = t.WithDate(*d.Date)
	}
	return t
}
