// Package feedback persists user feedback and forwards it to the
// operators, best-effort.
package feedback

import (
	"context"
	"fmt"

	"github.com/qwikplan/backend/pkg/email"
	"github.com/qwikplan/backend/pkg/logger"
	"github.com/qwikplan/backend/pkg/models"
	"github.com/qwikplan/backend/pkg/store"
)

// Service handles feedback submissions
type Service struct {
	feedback *store.FeedbackStore
	email    *email.Service
	log      logger.Logger
}

// NewService creates a new feedback service
func NewService(feedbackStore *store.FeedbackStore, emailService *email.Service, log logger.Logger) *Service {
	return &Service{feedback: feedbackStore, email: emailService, log: log}
}

// Submit stores the feedback row, then notifies the operators. The
// notification is best-effort: a send failure is logged and never
// fails the submission.
func (s *Service) Submit(ctx context.Context, accountID, accountEmail string, req models.FeedbackRequest) error {
	rec := &store.FeedbackRecord{
		AccountID:    accountID,
		FeedbackText: req.FeedbackText,
		Rating:       req.Rating,
	}
	if accountEmail != "" {
		rec.AccountEmail = &accountEmail
	}
	if req.Niche != "" {
		rec.NicheContext = &req.Niche
	}
	if req.Platform != "" {
		rec.Platform = &req.Platform
	}

	if err := s.feedback.Insert(ctx, rec); err != nil {
		return fmt.Errorf("failed saving feedback: %w", err)
	}

	if err := s.email.SendFeedbackNotification(accountID, accountEmail, req.Niche, req.Platform, req.FeedbackText); err != nil {
		s.log.Error("failed notifying feedback", "account_id", accountID, "error", err)
	}

	return nil
}
