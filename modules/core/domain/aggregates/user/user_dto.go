package user

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/iota-uz/timesheet/pkg/constants"
	"github.com/iota-uz/timesheet/pkg/serrors"
)

type CreateDTO struct {
	Email     string `json:"email" validate:"required,email"`
	FullName  string `json:"full_name" validate:"required"`
	AvatarURL string `json:"avatar_url"`
	Role      string `json:"role" validate:"required"`
}

func (d *CreateDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.FullName = strings.TrimSpace(d.FullName)
	d.Role = strings.TrimSpace(d.Role)
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()

	errs := constants.Validate.Struct(d)
	fieldErrs := make(serrors.ValidationErrors)
	if errs != nil {
		fieldErrs = serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors))
	}
	if d.Role != "" && !Role(d.Role).Valid() {
		fieldErrs["Role"] = "Role must be one of admin, manager, developer"
	}
	return fieldErrs, len(fieldErrs) == 0
}

func (d *CreateDTO) ToEntity(addedBy uuid.UUID) User {
	u := New(d.Email, d.FullName, Role(d.Role), &addedBy)
	if d.AvatarURL != "" {
		u = u.WithAvatarURL(d.AvatarURL)
	}
	return u
}

// UpdateDTO applies partial patch semantics: nil fields keep prior values.
type UpdateDTO struct {
	Email     *string `json:"email"`
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
	Role      *string `json:"role"`
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	fieldErrs := make(serrors.ValidationErrors)
	if d.Email != nil && strings.TrimSpace(*d.Email) == "" {
		fieldErrs["Email"] = "Email must not be empty"
	}
	if d.FullName != nil && strings.TrimSpace(*d.FullName) == "" {
		fieldErrs["FullName"] = "FullName must not be empty"
	}
	if d.Role != nil && !Role(*d.Role).Valid() {
		fieldErrs["Role"] = "Role must be one of admin, manager, developer"
	}
	return fieldErrs, len(fieldErrs) == 0
}

// Apply patches the entity with the provided fields only.
func (d *UpdateDTO) Apply(u User) User {
	if d.Email != nil {
		u = u.WithEmail(*d.Email)
	}
	if d.FullName != nil {
		u = u.WithFullName(*d.FullName)
	}
	if d.AvatarURL != nil {
		u = u.WithAvatarURL(*d.AvatarURL)
	}
	if d.Role != nil {
		u = u.WithRole(Role(*d.Role))
	}
	return u
}
