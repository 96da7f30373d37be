package ports

import (
	"context"

	"github.com/haulmatic/user-directory/internal/core/domain"
)

// CreateUserInput carries the fields accepted by the create operation.
type CreateUserInput struct {
	Username  string
	Firstname string
	Lastname  string
	Password  string
	Role      string // optional, defaults to domain.RoleUser
}

// UpdateUserInput carries a partial update. Empty fields are ignored.
type UpdateUserInput struct {
	Username  string
	Firstname string
	Lastname  string
	Password  string
	Role      string
}

// UserService defines the administration use cases.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
