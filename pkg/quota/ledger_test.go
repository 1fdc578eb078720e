package quota

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qwikplan/backend/pkg/domain"
	"github.com/qwikplan/backend/pkg/logger"
	"github.com/qwikplan/backend/pkg/store"
)

var profileCols = []string{"id", "account_id", "usage_count", "monthly_limit", "last_reset_at", "created_at"}

func newLedger(t *testing.T) (pgxmock.PgxPoolIface, *Ledger) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	profiles := store.NewProfileStore(mock, 50)
	return mock, NewLedger(profiles, logger.Discard())
}

func expectGetOrCreate(mock pgxmock.PgxPoolIface, id uuid.UUID, usage, limit int) {
	now := time.Now()
	mock.ExpectExec(`INSERT INTO profiles`).
		WithArgs(pgxmock.AnyArg(), "acct-1", 0, 50).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery(`SELECT .+ FROM profiles WHERE account_id = \$1`).
		WithArgs("acct-1").
		WillReturnRows(pgxmock.NewRows(profileCols).AddRow(id, "acct-1", usage, limit, now, now))
}

func TestLedgerReserve(t *testing.T) {
	mock, ledger := newLedger(t)

	id := uuid.New()
	now := time.Now()

	expectGetOrCreate(mock, id, 5, 50)
	mock.ExpectQuery(`UPDATE profiles SET usage_count = usage_count \+ 1`).
		WithArgs("acct-1").
		WillReturnRows(pgxmock.NewRows(profileCols).AddRow(id, "acct-1", 6, 50, now, now))

	r, err := ledger.Reserve(context.Background(), "acct-1")
	require.NoError(t, err)

	assert.Equal(t, id, r.ProfileID)
	assert.Equal(t, "acct-1", r.AccountID)
	assert.Equal(t, 5, r.UsageBefore)
	assert.Equal(t, 50, r.Limit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerReserveAtLimit(t *testing.T) {
	mock, ledger := newLedger(t)

	id := uuid.New()

	expectGetOrCreate(mock, id, 50, 50)
	mock.ExpectQuery(`UPDATE profiles SET usage_count = usage_count \+ 1`).
		WithArgs("acct-1").
		WillReturnRows(pgxmock.NewRows(profileCols))

	_, err := ledger.Reserve(context.Background(), "acct-1")
	require.Error(t, err)
	assert.True(t, domain.IsQuotaExceeded(err))

	var qee *domain.QuotaExceededError
	require.ErrorAs(t, err, &qee)
	assert.Equal(t, 50, qee.Usage)
	assert.Equal(t, 50, qee.Limit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRelease(t *testing.T) {
	mock, ledger := newLedger(t)

	id := uuid.New()
	r := &Reservation{ProfileID: id, AccountID: "acct-1", UsageBefore: 5, Limit: 50}

	mock.ExpectExec(`UPDATE profiles SET usage_count = GREATEST\(usage_count - 1, 0\)`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, ledger.Release(context.Background(), r))

	// A second release is a no-op
	require.NoError(t, ledger.Release(context.Background(), r))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerReleaseAfterCommit(t *testing.T) {
	_, ledger := newLedger(t)

	r := &Reservation{ProfileID: uuid.New(), AccountID: "acct-1"}

	require.NoError(t, ledger.Commit(context.Background(), r))

	// Committed reservations keep their slot; no store call happens
	require.NoError(t, ledger.Release(context.Background(), r))
}

func TestLedgerCommitNil(t *testing.T) {
	_, ledger := newLedger(t)

	assert.NoError(t, ledger.Commit(context.Background(), nil))
	assert.NoError(t, ledger.Release(context.Background(), nil))
}

func TestLedgerResetStale(t *testing.T) {
	mock, ledger := newLedger(t)

	mock.ExpectExec(`UPDATE profiles SET usage_count = \$1, last_reset_at = now\(\)`).
		WithArgs(0, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	n, err := ledger.ResetStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetAt(t *testing.T) {
	last := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &store.Profile{LastResetAt: last}

	assert.Equal(t, last.Add(30*24*time.Hour), ResetAt(p))
}
