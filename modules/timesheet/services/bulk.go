package services

import (
	"errors"

	"github.com/google/uuid"

	"github.com/iota-uz/timesheet/pkg/serrors"
)

// BulkItemFailure reports why one entry of a batch was skipped.
type BulkItemFailure struct {
	ID     uuid.UUID
	Code   string
	Reason string
}

// BulkResult is the per-item outcome of a bulk operation. One item failing
// never rolls back another's success; order follows the input ids.
type BulkResult struct {
	Succeeded []uuid.UUID
	Failed    []BulkItemFailure
}

func (r *BulkResult) ok(id uuid.UUID) {
	r.Succeeded = append(r.Succeeded, id)
}

func (r *BulkResult) fail(id uuid.UUID, err error) {
	code := "INTERNAL"
	var se *serrors.Error
	if errors.As(err, &se) {
		code = se.Code
	}
	r.Failed = append(r.Failed, BulkItemFailure{ID: id, Code: code, Reason: err.Error()})
}
