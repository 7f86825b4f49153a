package project

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/timesheet/pkg/composables"
)

type meta struct {
	ActorID   uuid.UUID
	IP        string
	Timestamp time.Time
}

func metaFromContext(ctx context.Context, actorID uuid.UUID) meta {
	ip, _ := composables.UseIP(ctx)
	return meta{ActorID: actorID, IP: ip, Timestamp: time.Now().UTC()}
}

type CreatedEvent struct {
	meta
	Result Project
}

func NewCreatedEvent(ctx context.Context, actorID uuid.UUID, result Project) CreatedEvent {
	return CreatedEvent{meta: metaFromContext(ctx, actorID), Result: result}
}

type UpdatedEvent struct {
	meta
	Result Project
}

func NewUpdatedEvent(ctx context.Context, actorID uuid.UUID, result Project) UpdatedEvent {
	return UpdatedEvent{meta: metaFromContext(ctx, actorID), Result: result}
}

type DeletedEvent struct {
	meta
	ProjectID uuid.UUID
}

func NewDeletedEvent(ctx context.Context, actorID, projectID uuid.UUID) DeletedEvent {
	return DeletedEvent{meta: metaFromContext(ctx, actorID), ProjectID: projectID}
}

type UserAssignedEvent struct {
	meta
	ProjectID uuid.UUID
	UserID    uuid.UUID
}

func NewUserAssignedEvent(ctx context.Context, actorID, projectID, userID uuid.UUID) UserAssignedEvent {
	return UserAssignedEvent{meta: metaFromContext(ctx, actorID), ProjectID: projectID, UserID: userID}
}

type UserRemovedEvent struct {
	meta
	ProjectID uuid.UUID
	UserID    uuid.UUID
}

func NewUserRemovedEvent(ctx context.Context, actorID, projectID, userID uuid.UUID) UserRemovedEvent {
	return UserRemovedEvent{meta: metaFromContext(ctx, actorID), ProjectID: projectID, UserID: userID}
}

type ManagerAssignedEvent struct {
	meta
	ProjectID uuid.UUID
	ManagerID uuid.UUID
}

func NewManagerAssignedEvent(ctx context.Context, actorID, projectID, managerID uuid.UUID) ManagerAssignedEvent {
	return ManagerAssignedEvent{meta: metaFromContext(ctx, actorID), ProjectID: projectID, ManagerID: managerID}
}

type ManagerRemovedEvent struct {
	meta
	ProjectID uuid.UUID
	ManagerID uuid.UUID
}

func NewManagerRemovedEvent(ctx context.Context, actorID, projectID, managerID uuid.UUID) ManagerRemovedEvent {
	return ManagerRemovedEvent{meta: metaFromContext(ctx, actorID), ProjectID: projectID, ManagerID: managerID}
}
