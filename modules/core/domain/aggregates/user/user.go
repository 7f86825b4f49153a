package user

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/timesheet/pkg/serrors"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleDeveloper Role = "developer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleDeveloper:
		return true
	}
	return false
}

var ErrNotFound = serrors.NotFound("user")

type User struct {
	id            uuid.UUID
	email         string
	fullName      string
	avatarURL     string
	role          Role
	active        bool
	addedBy       *uuid.UUID
	deactivatedBy *uuid.UUID
	deactivatedAt *time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

func New(email, fullName string, role Role, addedBy *uuid.UUID) User {
	now := time.Now().UTC()
	return User{
		id:        uuid.New(),
		email:     strings.ToLower(strings.TrimSpace(email)),
		fullName:  strings.TrimSpace(fullName),
		role:      role,
		active:    true,
		addedBy:   addedBy,
		createdAt: now,
		updatedAt: now,
	}
}

func Hydrate(
	id uuid.UUID,
	email string,
	fullName string,
	avatarURL string,
	role Role,
	active bool,
	addedBy *uuid.UUID,
	deactivatedBy *uuid.UUID,
	deactivatedAt *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) User {
	return User{
		id:            id,
		email:         email,
		fullName:      fullName,
		avatarURL:     avatarURL,
		role:          role,
		active:        active,
		addedBy:       addedBy,
		deactivatedBy: deactivatedBy,
		deactivatedAt: deactivatedAt,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (u User) ID() uuid.UUID             { return u.id }
func (u User) Email() string             { return u.email }
func (u User) FullName() string          { return u.fullName }
func (u User) AvatarURL() string         { return u.avatarURL }
func (u User) Role() Role                { return u.role }
func (u User) Active() bool              { return u.active }
func (u User) AddedBy() *uuid.UUID       { return u.addedBy }
func (u User) DeactivatedBy() *uuid.UUID { return u.deactivatedBy }
func (u User) DeactivatedAt() *time.Time { return u.deactivatedAt }
func (u User) CreatedAt() time.Time      { return u.createdAt }
func (u User) UpdatedAt() time.Time      { return u.updatedAt }

func (u User) IsAdmin() bool { return u.role == RoleAdmin }

// Deactivate marks the user inactive and records who did it.
func (u User) Deactivate(by uuid.UUID) User {
	now := time.Now().UTC()
	u.active = false
	u.deactivatedBy = &by
	u.deactivatedAt = &now
	u.updatedAt = now
	return u
}

// Activate clears deactivation provenance.
func (u User) Activate() User {
	u.active = true
	u.deactivatedBy = nil
	u.deactivatedAt = nil
	u.updatedAt = time.Now().UTC()
	return u
}

func (u User) WithEmail(email string) User {
	u.email = strings.ToLower(strings.TrimSpace(email))
	u.updatedAt = time.Now().UTC()
	return u
}

func (u User) WithFullName(name string) User {
	u.fullName = strings.TrimSpace(name)
	u.updatedAt = time.Now().UTC()
	return u
}

func (u User) WithAvatarURL(url string) User {
	u.avatarURL = url
	u.updatedAt = time.Now().UTC()
	return u
}

func (u User) WithRole(role Role) User {
	u.role = role
	u.updatedAt = time.Now().UTC()
	return u
}
