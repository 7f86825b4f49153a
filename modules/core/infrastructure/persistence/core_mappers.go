package persistence

import (
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/iota-uz/timesheet/modules/core/domain/aggregates/user"
	"github.com/iota-uz/timesheet/modules/core/infrastructure/persistence/models"
)

func toDBUser(u user.User) *models.User {
	row := &models.User{
		ID:            u.ID().String(),
		Email:         u.Email(),
		FullName:      u.FullName(),
		AvatarURL:     u.AvatarURL(),
		Role:          string(u.Role()),
		Active:        u.Active(),
		DeactivatedAt: u.DeactivatedAt(),
		CreatedAt:     u.CreatedAt(),
		UpdatedAt:     u.UpdatedAt(),
	}
	if by := u.AddedBy(); by != nil {
		s := by.String()
		row.AddedBy = &s
	}
	if by := u.DeactivatedBy(); by != nil {
		s := by.String()
		row.DeactivatedBy = &s
	}
	return row
}

func toDomainUser(row *models.User) (user.User, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return user.User{}, errors.Wrap(err, "invalid user id")
	}
	addedBy, err := parseOptionalUUID(row.AddedBy)
	if err != nil {
		return user.User{}, errors.Wrap(err, "invalid user added_by")
	}
	deactivatedBy, err := parseOptionalUUID(row.DeactivatedBy)
	if err != nil {
		return user.User{}, errors.Wrap(err, "invalid user deactivated_by")
	}
	return user.Hydrate(
		id,
		row.Email,
		row.FullName,
		row.AvatarURL,
		user.Role(row.Role),
		row.Active,
		addedBy,
		deactivatedBy,
		row.DeactivatedAt,
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}

func parseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil {
		return nil, nil
	}
	parsed, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
