package email

import (
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/qwikplan/backend/pkg/logger"
)

// Service sends operator notifications through SendGrid. Disabled (all
// sends become logged no-ops) when no API key or recipients are
// configured.
type Service struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	toEmails  []string
	log       logger.Logger
}

// NewService creates a new email service
func NewService(apiKey, fromEmail, fromName string, toEmails []string, log logger.Logger) *Service {
	s := &Service{
		fromEmail: fromEmail,
		fromName:  fromName,
		toEmails:  toEmails,
		log:       log,
	}
	if apiKey != "" && len(toEmails) > 0 {
		s.client = sendgrid.NewSendClient(apiKey)
	}
	return s
}

// IsEnabled returns true if notifications are configured
func (s *Service) IsEnabled() bool {
	return s.client != nil
}

// SendFeedbackNotification forwards a feedback submission to the
// configured operator addresses
func (s *Service) SendFeedbackNotification(accountID, accountEmail, niche, platform, feedbackText string) error {
	if !s.IsEnabled() {
		s.log.Debug("feedback notification skipped, email not configured")
		return nil
	}

	if niche == "" {
		niche = "Not specified"
	}
	if platform == "" {
		platform = "Not specified"
	}
	if accountEmail == "" {
		accountEmail = "Not provided"
	}

	subject := fmt.Sprintf("New Feedback: %s", niche)

	plain := fmt.Sprintf("New feedback received\n\nAccount: %s (%s)\nNiche: %s\nPlatform: %s\n\nFeedback:\n%s",
		accountID, accountEmail, niche, platform, feedbackText)

	htmlBody := fmt.Sprintf(
		"<h2>New Feedback Received</h2>"+
			"<p><strong>Account:</strong> %s</p>"+
			"<p><strong>Email:</strong> %s</p>"+
			"<p><strong>Niche:</strong> %s</p>"+
			"<p><strong>Platform:</strong> %s</p>"+
			"<hr/><p>%s</p>",
		html.EscapeString(accountID),
		html.EscapeString(accountEmail),
		html.EscapeString(niche),
		html.EscapeString(platform),
		strings.ReplaceAll(html.EscapeString(feedbackText), "\n", "<br/>"))

	from := mail.NewEmail(s.fromName, s.fromEmail)
	for _, to := range s.toEmails {
		message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), plain, htmlBody)
		resp, err := s.client.Send(message)
		if err != nil {
			return fmt.Errorf("failed sending feedback notification: %w", err)
		}
		if resp.StatusCode >= 400 {
			return fmt.Errorf("failed sending feedback notification: status %d", resp.StatusCode)
		}
	}

	return nil
}
