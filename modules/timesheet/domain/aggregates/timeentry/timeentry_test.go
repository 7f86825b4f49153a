package timeentry_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/timeentry"
	"github.com/iota-uz/timesheet/pkg/serrors"
)

func draftEntry(t *testing.T) timeentry.TimeEntry {
	t.Helper()
	entry, err := timeentry.New(
		uuid.New(),
		uuid.New(),
		"implemented login flow",
		"development",
		decimal.NewFromFloat(7.5),
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return entry
}

func TestNew_Validation(t *testing.T) {
	t.Run("RejectsZeroHours", func(t *testing.T) {
		_, err := timeentry.New(uuid.New(), uuid.New(), "work", "", decimal.Zero, time.Now())
		require.Error(t, err)
		require.True(t, serrors.IsValidation(err))
	})

	t.Run("RejectsHoursAboveCap", func(t *testing.T) {
		_, err := timeentry.New(uuid.New(), uuid.New(), "work", "", decimal.NewFromFloat(24.5), time.Now())
		require.Error(t, err)
		require.True(t, serrors.IsValidation(err))
	})

	t.Run("AcceptsExactCap", func(t *testing.T) {
		entry, err := timeentry.New(uuid.New(), uuid.New(), "work", "", decimal.NewFromInt(24), time.Now())
		require.NoError(t, err)
		require.True(t, entry.Hours().Equal(decimal.NewFromInt(24)))
	})

	t.Run("RejectsBlankDescription", func(t *testing.T) {
		_, err := timeentry.New(uuid.New(), uuid.New(), "   ", "", decimal.NewFromInt(1), time.Now())
		require.Error(t, err)
		require.True(t, serrors.IsValidation(err))
	})

	t.Run("StartsAsDraftVersionOne", func(t *testing.T) {
		entry := draftEntry(t)
		require.Equal(t, timeentry.StatusDraft, entry.Status())
		require.Equal(t, int64(1), entry.Version())
		require.True(t, entry.Mutable())
	})
}

func TestLifecycle_HappyPath(t *testing.T) {
	entry := draftEntry(t)

	submitted, err := entry.Submit()
	require.NoError(t, err)
	require.Equal(t, timeentry.StatusSubmitted, submitted.Status())
	require.False(t, submitted.Mutable())

	managerApproved, err := submitted.ManagerApprove()
	require.NoError(t, err)
	require.Equal(t, timeentry.StatusManagerApproved, managerApproved.Status())

	approved, err := managerApproved.AdminApprove()
	require.NoError(t, err)
	require.Equal(t, timeentry.StatusApproved, approved.Status())
	require.True(t, approved.Status().Terminal())
}

func TestLifecycle_RejectAndReopen(t *testing.T) {
	entry := draftEntry(t)
	submitted, err := entry.Submit()
	require.NoError(t, err)

	rejected, err := submitted.Reject()
	require.NoError(t, err)
	require.Equal(t, timeentry.StatusRejected, rejected.Status())

	reopened, err := rejected.Reopen()
	require.NoError(t, err)
	require.Equal(t, timeentry.StatusDraft, reopened.Status())
	require.True(t, reopened.Mutable())
}

func TestLifecycle_RejectFromManagerApproved(t *testing.T) {
	entry := draftEntry(t)
	submitted, err := entry.Submit()
	require.NoError(t, err)
	managerApproved, err := submitted.ManagerApprove()
	require.NoError(t, err)

	rejected, err := managerApproved.Reject()
	require.NoError(t, err)
	require.Equal(t, timeentry.StatusRejected, rejected.Status())
}

func TestLifecycle_InvalidTransitions(t *testing.T) {
	draft := draftEntry(t)
	submitted, err := draft.Submit()
	require.NoError(t, err)
	managerApproved, err := submitted.ManagerApprove()
	require.NoError(t, err)
	approved, err := managerApproved.AdminApprove()
	require.NoError(t, err)

	cases := []struct {
		name string
		call func() error
	}{
		{"SubmitTwice", func() error { _, err := submitted.Submit(); return err }},
		{"ManagerApproveDraft", func() error { _, err := draft.ManagerApprove(); return err }},
		{"AdminApproveSubmitted", func() error { _, err := submitted.AdminApprove(); return err }},
		{"RejectDraft", func() error { _, err := draft.Reject(); return err }},
		{"RejectApproved", func() error { _, err := approved.Reject(); return err }},
		{"ReopenDraft", func() error { _, err := draft.Reopen(); return err }},
		{"ReopenApproved", func() error { _, err := approved.Reopen(); return err }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			require.Error(t, err)
			require.True(t, serrors.IsInvalidState(err))
		})
	}
}

func TestStatus_Valid(t *testing.T) {
	require.True(t, timeentry.StatusManagerApproved.Valid())
	require.False(t, timeentry.Status("pending").Valid())
}
