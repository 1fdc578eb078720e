// Package quota implements the per-account monthly usage ledger.
//
// Reservations are pessimistic: Reserve claims a slot with a single
// conditional UPDATE at the store layer, Release hands the slot back
// when generation fails downstream, and Commit finalizes. Because the
// counter already moved at reservation time, a store error at commit
// cannot drift the counter.
package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/qwikplan/backend/pkg/domain"
	"github.com/qwikplan/backend/pkg/logger"
	"github.com/qwikplan/backend/pkg/store"
)

// resetInterval is how long a usage counter lives before the monthly reset
const resetInterval = 30 * 24 * time.Hour

// Reservation is a claimed usage slot awaiting Commit or Release
type Reservation struct {
	ProfileID   uuid.UUID
	AccountID   string
	UsageBefore int
	Limit       int
	committed   bool
	released    bool
}

// Ledger mediates all usage-counter access
type Ledger struct {
	profiles *store.ProfileStore
	log      logger.Logger
}

// NewLedger creates a new quota ledger
func NewLedger(profiles *store.ProfileStore, log logger.Logger) *Ledger {
	return &Ledger{profiles: profiles, log: log}
}

// Reserve claims one usage slot for the account, lazily creating the
// profile on first use. Returns a QuotaExceededError carrying the
// current usage and limit when the monthly ceiling is hit.
func (l *Ledger) Reserve(ctx context.Context, accountID string) (*Reservation, error) {
	profile, err := l.profiles.GetOrCreate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed loading profile: %w", err)
	}

	reserved, err := l.profiles.ReserveUsage(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrLimitReached) {
			return nil, domain.NewQuotaExceededError(profile.UsageCount, profile.MonthlyLimit)
		}
		return nil, fmt.Errorf("failed reserving usage: %w", err)
	}

	return &Reservation{
		ProfileID:   reserved.ID,
		AccountID:   accountID,
		UsageBefore: reserved.UsageCount - 1,
		Limit:       reserved.MonthlyLimit,
	}, nil
}

// Commit finalizes a reservation. The slot was consumed at Reserve
// time, so this only marks the reservation settled.
func (l *Ledger) Commit(ctx context.Context, r *Reservation) error {
	if r == nil || r.released {
		return nil
	}
	r.committed = true
	return nil
}

// Release hands an unconsumed slot back after a downstream failure.
// Safe to call at most once per reservation; committed reservations
// are left untouched.
func (l *Ledger) Release(ctx context.Context, r *Reservation) error {
	if r == nil || r.committed || r.released {
		return nil
	}
	r.released = true

	if err := l.profiles.ReleaseUsage(ctx, r.ProfileID); err != nil {
		// Leaves the slot consumed; the monthly reset recovers it.
		l.log.Error("failed releasing quota reservation",
			"account_id", r.AccountID, "profile_id", r.ProfileID, "error", err)
		return err
	}
	return nil
}

// Usage returns the account's current usage statistics, creating the
// profile if absent
func (l *Ledger) Usage(ctx context.Context, accountID string) (*store.Profile, error) {
	return l.profiles.GetOrCreate(ctx, accountID)
}

// ResetStale zeroes counters whose last reset is older than the
// monthly interval. Invoked by the cron job.
func (l *Ledger) ResetStale(ctx context.Context) (int64, error) {
	return l.profiles.ResetStale(ctx, time.Now().Add(-resetInterval))
}

// ResetAt returns when the given profile's counter next resets
func ResetAt(p *store.Profile) time.Time {
	return p.LastResetAt.Add(resetInterval)
}
