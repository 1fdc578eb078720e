// Package errors maps pipeline errors onto structured JSON responses.
// Internal detail is logged, never surfaced to the client.
package errors

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qwikplan/backend/pkg/domain"
	"github.com/qwikplan/backend/pkg/logger"
	"github.com/qwikplan/backend/pkg/models"
)

// Write translates a pipeline error into its HTTP response
func Write(c echo.Context, log logger.Logger, err error) error {
	var rle *domain.RateLimitedError
	if errors.As(err, &rle) {
		setRetryAfter(c, rle.RetryAfter)
		return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
			Error:   "rate_limited",
			Message: rle.Message,
		})
	}

	var qee *domain.QuotaExceededError
	if errors.As(err, &qee) {
		return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
			Error:   "quota_exceeded",
			Message: "Monthly limit reached. Upgrade to Pro for more.",
			Usage:   &models.QuotaInfo{Current: qee.Usage, Limit: qee.Limit},
		})
	}

	switch {
	case domain.IsBadRequest(err):
		return BadRequest(c, messageOf(err, "Invalid request"))
	case domain.IsUnauthorized(err):
		return Unauthorized(c)
	case domain.IsServiceUnavailable(err):
		log.Error("service unavailable", "path", c.Request().URL.Path, "error", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "service_unavailable",
			Message: messageOf(err, "Service temporarily unavailable"),
		})
	case domain.IsInvalidUpstreamOutput(err):
		// Logged for prompt-quality monitoring, surfaced as generic failure
		log.Error("invalid upstream output", "path", c.Request().URL.Path, "error", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "generation_failed",
			Message: "Invalid AI Response",
		})
	default:
		return Internal(c, log, err)
	}
}

// BadRequest returns a 400 with a client-safe message
func BadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

// Unauthorized returns a generic 401
func Unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:   "unauthorized",
		Message: "Authentication required",
	})
}

// Internal logs the actual error and returns a generic 500
func Internal(c echo.Context, log logger.Logger, err error) error {
	log.Error("internal error", "path", c.Request().URL.Path, "error", err)
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred. Please try again later.",
	})
}

func setRetryAfter(c echo.Context, d time.Duration) {
	secs := int(d / time.Second)
	if secs < 1 {
		secs = 1
	}
	c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
}

// messageOf extracts the client-safe message from a domain error
func messageOf(err error, fallback string) string {
	var de *domain.DomainError
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return fallback
}
