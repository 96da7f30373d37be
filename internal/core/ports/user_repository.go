package ports

import (
	"context"

	"github.com/haulmatic/user-directory/internal/core/domain"
)

// UserRepository defines the persistence contract for user records.
// Username uniqueness and admin delete protection are enforced by the store.
type UserRepository interface {
	// Create inserts a new record and returns it with its assigned ID.
	// Returns domain.ErrUsernameTaken when the username already exists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// List returns every record in insertion order with PasswordHash left empty.
	List(ctx context.Context) ([]*domain.User, error)
	// Update applies the non-nil fields of patch and returns the stored record.
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	// Delete removes a record. Returns domain.ErrAdminProtected for admin records.
	Delete(ctx context.Context, id string) error

	// EnsureSchema creates collections/tables and indexes if absent.
	EnsureSchema(ctx context.Context) error
	// Reset drops all user data and recreates the schema.
	Reset(ctx context.Context) error
	Ping(ctx context.Context) error
}
