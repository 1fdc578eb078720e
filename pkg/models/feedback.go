package models

// FeedbackRequest represents a feedback submission
type FeedbackRequest struct {
	FeedbackText string `json:"feedbackText" validate:"required,max=2000"`
	Niche        string `json:"niche"`
	Platform     string `json:"platform"`
	Rating       *int   `json:"rating" validate:"omitempty,min=1,max=5"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string     `json:"error"`
	Message string     `json:"message,omitempty"`
	Usage   *QuotaInfo `json:"usage,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
