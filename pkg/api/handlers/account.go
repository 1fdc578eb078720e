package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apierrors "github.com/qwikplan/backend/pkg/api/errors"
	"github.com/qwikplan/backend/pkg/history"
	"github.com/qwikplan/backend/pkg/logger"
	"github.com/qwikplan/backend/pkg/middleware"
	"github.com/qwikplan/backend/pkg/models"
	"github.com/qwikplan/backend/pkg/quota"
)

// AccountHandler serves the account's usage and history endpoints
type AccountHandler struct {
	ledger  *quota.Ledger
	history *history.Recorder
	log     logger.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(ledger *quota.Ledger, historyRecorder *history.Recorder, log logger.Logger) *AccountHandler {
	return &AccountHandler{ledger: ledger, history: historyRecorder, log: log}
}

// GetUsage handles GET /usage
func (h *AccountHandler) GetUsage(c echo.Context) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return apierrors.Unauthorized(c)
	}

	profile, err := h.ledger.Usage(c.Request().Context(), accountID)
	if err != nil {
		return apierrors.Internal(c, h.log, err)
	}

	remaining := profile.MonthlyLimit - profile.UsageCount
	if remaining < 0 {
		remaining = 0
	}

	return c.JSON(http.StatusOK, models.UsageResponse{
		UsageCount: profile.UsageCount,
		UsageLimit: profile.MonthlyLimit,
		Remaining:  remaining,
		ResetAt:    quota.ResetAt(profile).Format(time.RFC3339),
	})
}

// ListStrategies handles GET /strategies, newest first
func (h *AccountHandler) ListStrategies(c echo.Context) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return apierrors.Unauthorized(c)
	}

	records, err := h.history.List(c.Request().Context(), accountID, 50)
	if err != nil {
		return apierrors.Internal(c, h.log, err)
	}

	responses := make([]models.StrategyResponse, len(records))
	for i, rec := range records {
		responses[i] = models.StrategyResponse{
			ID:        rec.ID.String(),
			Niche:     rec.Niche,
			Platform:  rec.Platform,
			Goal:      rec.Goal,
			Strategy:  rec.StrategyText,
			Schedule:  rec.Schedule,
			Hashtags:  rec.Hashtags,
			CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		}
	}

	return c.JSON(http.StatusOK, responses)
}
