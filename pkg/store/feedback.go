package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// FeedbackRecord is one feedback submission
type FeedbackRecord struct {
	ID           uuid.UUID
	AccountID    string
	AccountEmail *string
	Rating       *int
	FeedbackText string
	NicheContext *string
	Platform     *string
}

// FeedbackStore persists user feedback
type FeedbackStore struct {
	db Querier
}

// NewFeedbackStore creates a new feedback store
func NewFeedbackStore(db Querier) *FeedbackStore {
	return &FeedbackStore{db: db}
}

// Insert stores a feedback row
func (s *FeedbackStore) Insert(ctx context.Context, rec *FeedbackRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	query, args, err := psql.
		Insert("feedback").
		Columns("id", "account_id", "account_email", "rating", "feedback_text", "niche_context", "platform").
		Values(rec.ID, rec.AccountID, rec.AccountEmail, rec.Rating, rec.FeedbackText, rec.NicheContext, rec.Platform).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed building insert: %w", err)
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed inserting feedback: %w", err)
	}
	return nil
}
