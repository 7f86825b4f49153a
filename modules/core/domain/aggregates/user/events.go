package user

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/timesheet/pkg/composables"
)

// meta captures the acting caller and request origin at publish time so the
// audit recorder does not need the request context later.
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
	Result User
}

func NewCreatedEvent(ctx context.Context, actorID uuid.UUID, result User) CreatedEvent {
	return CreatedEvent{meta: metaFromContext(ctx, actorID), Result: result}
}

type UpdatedEvent struct {
	meta
	Result User
}

func NewUpdatedEvent(ctx context.Context, actorID uuid.UUID, result User) UpdatedEvent {
	return UpdatedEvent{meta: metaFromContext(ctx, actorID), Result: result}
}

type DeletedEvent struct {
	meta
	UserID uuid.UUID
}

func NewDeletedEvent(ctx context.Context, actorID, userID uuid.UUID) DeletedEvent {
	return DeletedEvent{meta: metaFromContext(ctx, actorID), UserID: userID}
}

type DeactivatedEvent struct {
	meta
	Result User
}

func NewDeactivatedEvent(ctx context.Context, actorID uuid.UUID, result User) DeactivatedEvent {
	return DeactivatedEvent{meta: metaFromContext(ctx, actorID), Result: result}
}

type ActivatedEvent struct {
	meta
	Result User
}

func NewActivatedEvent(ctx context.Context, actorID uuid.UUID, result User) ActivatedEvent {
	return ActivatedEvent{meta: metaFromContext(ctx, actorID), Result: result}
}
