// Package itf provides the shared test fixture for service-level tests.
// Services run their logic inside composables.InTx; seeding the context with
// a no-op transaction lets them execute against in-memory repositories
// without a database.
package itf

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/timesheet/pkg/composables"
)

// nopTx satisfies pgx.Tx through the embedded interface. Repositories backed
// by real storage would panic on use; in-memory fakes never touch it.
type nopTx struct {
	pgx.Tx
}

// NopTx returns a placeholder transaction for contexts in unit tests.
func NopTx() pgx.Tx {
	return &nopTx{}
}

// TestContext builds contexts for service tests.
type TestContext struct {
	ctx context.Context
}

func NewTestContext() *TestContext {
	return &TestContext{
		ctx: composables.WithTx(context.Background(), NopTx()),
	}
}

// WithActor sets the authenticated caller.
func (tc *TestContext) WithActor(userID uuid.UUID) *TestContext {
	tc.ctx = composables.WithActor(tc.ctx, userID)
	return tc
}

// WithIP attaches request metadata.
func (tc *TestContext) WithIP(ip string) *TestContext {
	tc.ctx = composables.WithParams(tc.ctx, &composables.Params{IP: ip})
	return tc
}

func (tc *TestContext) Build() context.Context {
	return tc.ctx
}
