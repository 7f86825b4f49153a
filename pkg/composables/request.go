package composables

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/timesheet/pkg/constants"
)

var ErrNoActor = errors.New("no actor found in context")

// Params carries per-request metadata the surrounding API layer resolves
// before calling into the core. The audit recorder reads it best-effort.
type Params struct {
	IP        string
	UserAgent string
}

func WithParams(ctx context.Context, params *Params) context.Context {
	return context.WithValue(ctx, constants.ParamsKey, params)
}

// UseParams returns the request parameters from the context.
// If the parameters are not found, the second return value will be false.
func UseParams(ctx context.Context) (*Params, bool) {
	params, ok := ctx.Value(constants.ParamsKey).(*Params)
	return params, ok
}

// UseIP returns the caller address from the context.
// If it is not present, the second return value will be false.
func UseIP(ctx context.Context) (string, bool) {
	params, ok := UseParams(ctx)
	if !ok {
		return "", false
	}
	return params.IP, true
}

// WithActor records the authenticated caller id.
func WithActor(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.ActorKey, userID)
}

// UseActor returns the authenticated caller id from the context.
func UseActor(ctx context.Context) (uuid.UUID, error) {
	actor, ok := ctx.Value(constants.ActorKey).(uuid.UUID)
	if !ok || actor == uuid.Nil {
		return uuid.Nil, ErrNoActor
	}
	return actor, nil
}

// UseLogger returns the request-scoped logger, or nil when none is attached.
func UseLogger(ctx context.Context) *logrus.Entry {
	logger, ok := ctx.Value(constants.LoggerKey).(*logrus.Entry)
	if !ok {
		return nil
	}
	return logger
}

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}
