package store

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStrategyMock(t *testing.T) (pgxmock.PgxPoolIface, *StrategyStore) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, NewStrategyStore(mock)
}

func TestStrategyStoreInsert(t *testing.T) {
	mock, s := newStrategyMock(t)

	rec := &StrategyRecord{
		AccountID:    gofakeit.UUID(),
		Niche:        gofakeit.BuzzWord(),
		Platform:     "Instagram",
		Goal:         gofakeit.Sentence(3),
		StrategyText: gofakeit.Paragraph(1, 2, 8, " "),
		Schedule:     []string{"Day 1: Post a Reel", "Day 2: Story poll"},
		Hashtags:     "#fit #gym",
	}

	mock.ExpectExec(`INSERT INTO strategies \(id,account_id,niche,platform,goal,strategy_text,schedule,hashtags\)`).
		WithArgs(pgxmock.AnyArg(), rec.AccountID, rec.Niche, "Instagram", rec.Goal,
			rec.StrategyText, rec.Schedule, "#fit #gym").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.Insert(context.Background(), rec)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, rec.ID, "insert assigns an id")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStrategyStoreListByAccount(t *testing.T) {
	mock, s := newStrategyMock(t)

	cols := []string{"id", "account_id", "niche", "platform", "goal", "strategy_text", "schedule", "hashtags", "created_at"}
	now := time.Now()
	newer := uuid.New()
	older := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM strategies WHERE account_id = \$1 ORDER BY created_at DESC LIMIT 10`).
		WithArgs("acct-1").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(newer, "acct-1", "fitness", "Instagram", "grow", "s1", []string{"Day 1: Post"}, "#a", now).
			AddRow(older, "acct-1", "food", "TikTok", "sales", "s2", []string{"Day 1: Cook"}, "#b", now.Add(-time.Hour)))

	records, err := s.ListByAccount(context.Background(), "acct-1", 10)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, newer, records[0].ID)
	assert.Equal(t, older, records[1].ID)
	assert.Equal(t, []string{"Day 1: Post"}, records[0].Schedule)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackStoreInsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	s := NewFeedbackStore(mock)

	rating := 4
	email := "user@example.com"
	rec := &FeedbackRecord{
		AccountID:    "acct-1",
		AccountEmail: &email,
		Rating:       &rating,
		FeedbackText: "Love the scheduler",
	}

	mock.ExpectExec(`INSERT INTO feedback \(id,account_id,account_email,rating,feedback_text,niche_context,platform\)`).
		WithArgs(pgxmock.AnyArg(), "acct-1", &email, &rating, "Love the scheduler", (*string)(nil), (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = s.Insert(context.Background(), rec)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
