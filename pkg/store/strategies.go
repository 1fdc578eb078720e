package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// StrategyRecord is one persisted generation. Append-only; rows are
// never mutated after creation.
type StrategyRecord struct {
	ID           uuid.UUID
	AccountID    string
	Niche        string
	Platform     string
	Goal         string
	StrategyText string
	Schedule     []string
	Hashtags     string
	CreatedAt    time.Time
}

// StrategyStore persists generated plans for the account's dashboard
type StrategyStore struct {
	db Querier
}

// NewStrategyStore creates a new strategy store
func NewStrategyStore(db Querier) *StrategyStore {
	return &StrategyStore{db: db}
}

// Insert appends a history row for a successful generation
func (s *StrategyStore) Insert(ctx context.Context, rec *StrategyRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	query, args, err := psql.
		Insert("strategies").
		Columns("id", "account_id", "niche", "platform", "goal", "strategy_text", "schedule", "hashtags").
		Values(rec.ID, rec.AccountID, rec.Niche, rec.Platform, rec.Goal, rec.StrategyText, rec.Schedule, rec.Hashtags).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed building insert: %w", err)
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed inserting strategy: %w", err)
	}
	return nil
}

// ListByAccount returns the account's history, newest first
func (s *StrategyStore) ListByAccount(ctx context.Context, accountID string, limit int) ([]StrategyRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query, args, err := psql.
		Select("id", "account_id", "niche", "platform", "goal", "strategy_text", "schedule", "hashtags", "created_at").
		From("strategies").
		Where(squirrel.Eq{"account_id": accountID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed building query: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed listing strategies: %w", err)
	}
	defer rows.Close()

	var records []StrategyRecord
	for rows.Next() {
		var rec StrategyRecord
		if err := rows.Scan(&rec.ID, &rec.AccountID, &rec.Niche, &rec.Platform, &rec.Goal,
			&rec.StrategyText, &rec.Schedule, &rec.Hashtags, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed scanning strategy: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading strategies: %w", err)
	}

	return records, nil
}
