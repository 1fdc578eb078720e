package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Profile is one account's usage row
type Profile struct {
	ID           uuid.UUID
	AccountID    string
	UsageCount   int
	MonthlyLimit int
	LastResetAt  time.Time
	CreatedAt    time.Time
}

// ProfileStore persists account usage profiles
type ProfileStore struct {
	db           Querier
	defaultLimit int
}

// NewProfileStore creates a new profile store
func NewProfileStore(db Querier, defaultLimit int) *ProfileStore {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	return &ProfileStore{db: db, defaultLimit: defaultLimit}
}

const profileColumns = "id, account_id, usage_count, monthly_limit, last_reset_at, created_at"

func (s *ProfileStore) scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.AccountID, &p.UsageCount, &p.MonthlyLimit, &p.LastResetAt, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed scanning profile: %w", err)
	}
	return &p, nil
}

// GetByAccount returns the profile for an account
func (s *ProfileStore) GetByAccount(ctx context.Context, accountID string) (*Profile, error) {
	query, args, err := psql.
		Select(profileColumns).
		From("profiles").
		Where(squirrel.Eq{"account_id": accountID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed building query: %w", err)
	}

	return s.scanProfile(s.db.QueryRow(ctx, query, args...))
}

// GetOrCreate returns the profile for an account, creating it with zero
// usage and the default monthly limit on first use. The insert uses
// ON CONFLICT DO NOTHING so concurrent first requests converge on a
// single row.
func (s *ProfileStore) GetOrCreate(ctx context.Context, accountID string) (*Profile, error) {
	insert, args, err := psql.
		Insert("profiles").
		Columns("id", "account_id", "usage_count", "monthly_limit").
		Values(uuid.New(), accountID, 0, s.defaultLimit).
		Suffix("ON CONFLICT (account_id) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed building insert: %w", err)
	}

	if _, err := s.db.Exec(ctx, insert, args...); err != nil {
		return nil, fmt.Errorf("failed creating profile: %w", err)
	}

	return s.GetByAccount(ctx, accountID)
}

// ReserveUsage atomically claims one usage slot for the account. The
// check and the increment happen in a single conditional UPDATE so two
// concurrent reservations can never both pass the limit boundary, even
// across process instances. Returns ErrLimitReached when the account is
// at its monthly limit.
func (s *ProfileStore) ReserveUsage(ctx context.Context, accountID string) (*Profile, error) {
	query, args, err := psql.
		Update("profiles").
		Set("usage_count", squirrel.Expr("usage_count + 1")).
		Where(squirrel.Eq{"account_id": accountID}).
		Where(squirrel.Expr("usage_count < monthly_limit")).
		Suffix("RETURNING " + profileColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed building update: %w", err)
	}

	p, err := s.scanProfile(s.db.QueryRow(ctx, query, args...))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrLimitReached
	}
	return p, err
}

// ReleaseUsage hands a reserved slot back after a downstream failure
func (s *ProfileStore) ReleaseUsage(ctx context.Context, profileID uuid.UUID) error {
	query, args, err := psql.
		Update("profiles").
		Set("usage_count", squirrel.Expr("GREATEST(usage_count - 1, 0)")).
		Where(squirrel.Eq{"id": profileID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed building update: %w", err)
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed releasing usage: %w", err)
	}
	return nil
}

// ResetStale zeroes the usage counter for profiles whose last reset is
// older than the cutoff. Returns the number of profiles reset.
func (s *ProfileStore) ResetStale(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := psql.
		Update("profiles").
		Set("usage_count", 0).
		Set("last_reset_at", squirrel.Expr("now()")).
		Where(squirrel.Lt{"last_reset_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed building update: %w", err)
	}

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed resetting stale profiles: %w", err)
	}
	return tag.RowsAffected(), nil
}
