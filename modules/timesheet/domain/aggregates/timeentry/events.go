package timeentry

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
	Result TimeEntry
}

func NewCreatedEvent(ctx context.Context, actorID uuid.UUID, result TimeEntry) CreatedEvent {
	return CreatedEvent{meta: metaFromContext(ctx, actorID), Result: result}
}

type UpdatedEvent struct {
	meta
	Result TimeEntry
}

func NewUpdatedEvent(ctx context.Context, actorID uuid.UUID, result TimeEntry) UpdatedEvent {
	return UpdatedEvent{meta: metaFromContext(ctx, actorID), Result: result}
}

type DeletedEvent struct {
	meta
	EntryID uuid.UUID
}

func NewDeletedEvent(ctx context.Context, actorID, entryID uuid.UUID) DeletedEvent {
	return DeletedEvent{meta: metaFromContext(ctx, actorID), EntryID: entryID}
}

type SubmittedEvent struct {
	meta
	Result TimeEntry
}

func NewSubmittedEvent(ctx context.Context, actorID uuid.UUID, result TimeEntry) SubmittedEvent {
	return SubmittedEvent{meta: metaFromContext(ctx, actorID), Result: result}
}

type ManagerApprovedEvent struct {
	meta
	Result   TimeEntry
	Comments string
}

func NewManagerApprovedEvent(ctx context.Context, actorID uuid.UUID, result TimeEntry, comments string) ManagerApprovedEvent {
	return ManagerApprovedEvent{meta: metaFromContext(ctx, actorID), Result: result, Comments: comments}
}

type AdminApprovedEvent struct {
	meta
	Result   TimeEntry
	Comments string
}

func NewAdminApprovedEvent(ctx context.Context, actorID uuid.UUID, result TimeEntry, comments string) AdminApprovedEvent {
	return AdminApprovedEvent{meta: metaFromContext(ctx, actorID), Result: result, Comments: comments}
}

type RejectedEvent struct {
	meta
	Result   TimeEntry
	Comments string
}

func NewRejectedEvent(ctx context.Context, actorID uuid.UUID, result TimeEntry, comments string) RejectedEvent {
	return RejectedEvent{meta: metaFromContext(ctx, actorID), Result: result, Comments: comments}
}

type ReopenedEvent struct {
	meta
	Result TimeEntry
}

func NewReopenedEvent(ctx context.Context, actorID uuid.UUID, result TimeEntry) ReopenedEvent {
	return ReopenedEvent{meta: metaFromContext(ctx, actorID), Result: result}
}
