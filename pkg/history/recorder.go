// Package history records successful generations for the account's
// dashboard.
package history

import (
	"context"

	"github.com/qwikplan/backend/pkg/plan"
	"github.com/qwikplan/backend/pkg/store"
)

// Recorder appends history rows for successful generations. Callers
// treat failures as best-effort: an error here never changes the
// response already prepared for the user.
type Recorder struct {
	strategies *store.StrategyStore
}

// NewRecorder creates a new history recorder
func NewRecorder(strategies *store.StrategyStore) *Recorder {
	return &Recorder{strategies: strategies}
}

// Record persists a normalized plan against the account
func (r *Recorder) Record(ctx context.Context, accountID string, req plan.Request, p *plan.Plan) error {
	return r.strategies.Insert(ctx, &store.StrategyRecord{
		AccountID:    accountID,
		Niche:        req.Niche,
		Platform:     req.Platform,
		Goal:         req.Goal,
		StrategyText: p.Strategy,
		Schedule:     p.Schedule,
		Hashtags:     p.Hashtags,
	})
}

// List returns the account's history, newest first
func (r *Recorder) List(ctx context.Context, accountID string, limit int) ([]store.StrategyRecord, error) {
	return r.strategies.ListByAccount(ctx, accountID, limit)
}
