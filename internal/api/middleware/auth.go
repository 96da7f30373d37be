package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/haulmatic/user-directory/internal/api/metrics"
	"github.com/haulmatic/user-directory/internal/core/ports"
)

// Context keys set by Auth.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
	CtxIdentity = "identity"
)

const (
	msgUnauthorized = "Unauthorized"
	msgInvalidToken = "Invalid token"
)

// Auth validates the bearer token and injects its claims into the context.
func Auth(tokens ports.TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.TokenChecksTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, msgUnauthorized)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				metrics.TokenChecksTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, msgUnauthorized)
			}

			identity, err := tokens.Verify(parts[1])
			if err != nil {
				metrics.TokenChecksTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidToken)
			}
			metrics.TokenChecksTotal.WithLabelValues("valid").Inc()

			c.Set(CtxUserID, identity.UserID)
			c.Set(CtxUsername, identity.Username)
			c.Set(CtxRole, identity.Role)
			c.Set(CtxIdentity, *identity)

			return next(c)
		}
	}
}
