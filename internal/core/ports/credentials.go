package ports

import "github.com/haulmatic/user-directory/internal/core/domain"

// PasswordHasher is a salted one-way hash over secrets.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, hash string) bool
}

// TokenCodec issues and verifies signed, expiring session tokens.
type TokenCodec interface {
	Issue(identity domain.Identity) (string, error)
	// Verify returns domain.ErrInvalidToken for tampered, malformed or expired tokens.
	Verify(token string) (*domain.Identity, error)
}
