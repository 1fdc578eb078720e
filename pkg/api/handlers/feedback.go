package handlers

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apierrors "github.com/qwikplan/backend/pkg/api/errors"
	"github.com/qwikplan/backend/pkg/feedback"
	"github.com/qwikplan/backend/pkg/logger"
	"github.com/qwikplan/backend/pkg/middleware"
	"github.com/qwikplan/backend/pkg/models"
)

// FeedbackHandler serves the feedback endpoint
type FeedbackHandler struct {
	feedback  *feedback.Service
	validator *validator.Validate
	log       logger.Logger
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedbackService *feedback.Service, log logger.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedback:  feedbackService,
		validator: validator.New(),
		log:       log,
	}
}

// Submit handles POST /feedback
func (h *FeedbackHandler) Submit(c echo.Context) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return apierrors.Unauthorized(c)
	}

	var req models.FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid JSON body")
	}

	req.FeedbackText = strings.TrimSpace(req.FeedbackText)
	req.Niche = strings.TrimSpace(req.Niche)
	req.Platform = strings.TrimSpace(req.Platform)

	if err := h.validator.Struct(req); err != nil {
		return apierrors.BadRequest(c, "Missing or invalid feedback fields")
	}

	if err := h.feedback.Submit(c.Request().Context(), accountID, middleware.AccountEmail(c), req); err != nil {
		return apierrors.Internal(c, h.log, err)
	}

	return c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}
