package ports

import (
	"context"

	"github.com/haulmatic/user-directory/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
