package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/qwikplan/backend/pkg/auth"
	"github.com/qwikplan/backend/pkg/models"
)

// SessionCookieName is the cookie carrying the session token for
// browser clients that do not send a bearer header
const SessionCookieName = "qwikplan_session"

// Context keys set for downstream handlers
const (
	ContextAccountID = "account_id"
	ContextEmail     = "account_email"
)

// JWTMiddleware resolves the request to an account identity from the
// Authorization bearer header or the session cookie. Absence of a
// resolvable identity is a hard 401.
func JWTMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error:   "unauthorized",
					Message: "Authentication required",
				})
			}

			claims, err := auth.ValidateJWT(token, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error:   "unauthorized",
					Message: "Invalid or expired token",
				})
			}

			c.Set(ContextAccountID, claims.AccountID)
			c.Set(ContextEmail, claims.Email)

			return next(c)
		}
	}
}

// OptionalJWTMiddleware resolves an account identity when credentials
// are present and valid, but passes the request through either way.
// Handlers that serve both anonymous and authenticated flows decide
// for themselves whether a missing identity is an error.
func OptionalJWTMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token != "" {
				if claims, err := auth.ValidateJWT(token, secret); err == nil {
					c.Set(ContextAccountID, claims.AccountID)
					c.Set(ContextEmail, claims.Email)
				}
			}
			return next(c)
		}
	}
}

// extractToken prefers the bearer header, falling back to the session cookie
func extractToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") || strings.HasPrefix(header, "bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}

	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie == nil {
		return ""
	}
	return cookie.Value
}

// AccountID returns the authenticated account id set by JWTMiddleware
func AccountID(c echo.Context) (string, bool) {
	id, ok := c.Get(ContextAccountID).(string)
	return id, ok && id != ""
}

// AccountEmail returns the authenticated account email, if present
func AccountEmail(c echo.Context) string {
	email, _ := c.Get(ContextEmail).(string)
	return email
}
