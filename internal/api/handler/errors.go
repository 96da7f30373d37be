package handler

import (
	"errors"
	"net/http"

	"github.com/haulmatic/user-directory/internal/core/domain"
)

// messageResponse is the envelope for every message-only reply, errors included.
type messageResponse struct {
	Message string `json:"message"`
}

// ResolveDomainError maps a known domain error to its HTTP status and client
// message. ok is false for errors the caller should treat as internal.
func ResolveDomainError(err error) (code int, msg string, ok bool) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found", true
	case errors.Is(err, domain.ErrInvalidPassword):
		return http.StatusBadRequest, "Invalid password", true
	case errors.Is(err, domain.ErrInvalidData):
		return http.StatusBadRequest, "Invalid data", true
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusBadRequest, "Username already exists", true
	case errors.Is(err, domain.ErrAdminProtected):
		return http.StatusForbidden, "Cannot delete the default admin user", true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Access denied. Admins only.", true
	}
	return 0, "", false
}
