package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/haulmatic/user-directory/internal/core/domain"
	"github.com/haulmatic/user-directory/internal/core/ports"
)

// BootstrapLock abstracts the cross-replica lock held while seeding (Redis).
type BootstrapLock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// BootstrapOptions describes the admin record seeded at start.
type BootstrapOptions struct {
	AdminUsername  string
	AdminPassword  string
	AdminFirstname string
	AdminLastname  string
	// ResetSchema drops every user record before seeding. Development only.
	ResetSchema bool
}

// Bootstrapper prepares the store and seeds the bootstrap admin.
type Bootstrapper struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	lock   BootstrapLock
	opts   BootstrapOptions
	log    zerolog.Logger
}

// NewBootstrapper returns a Bootstrapper. lock may be nil for single-instance
// deployments.
func NewBootstrapper(repo ports.UserRepository, hasher ports.PasswordHasher, lock BootstrapLock, opts BootstrapOptions, log zerolog.Logger) *Bootstrapper {
	return &Bootstrapper{repo: repo, hasher: hasher, lock: lock, opts: opts, log: log}
}

// Run is idempotent: the admin is only inserted when no record with its
// username exists.
func (b *Bootstrapper) Run(ctx context.Context) error {
	if b.opts.AdminUsername == "" || b.opts.AdminPassword == "" {
		return fmt.Errorf("bootstrap: %w", domain.ErrInvalidData)
	}

	if b.lock != nil {
		acquired, err := b.lock.Acquire(ctx)
		if err != nil {
			return fmt.Errorf("bootstrap: acquire lock: %w", err)
		}
		if !acquired {
			b.log.Info().Msg("bootstrap already running on another instance, skipping")
			return nil
		}
		defer func() {
			if err := b.lock.Release(ctx); err != nil {
				b.log.Warn().Err(err).Msg("failed to release bootstrap lock")
			}
		}()
	}

	if b.opts.ResetSchema {
		b.log.Warn().Msg("resetting user store schema")
		if err := b.repo.Reset(ctx); err != nil {
			return fmt.Errorf("bootstrap: reset schema: %w", err)
		}
	} else if err := b.repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("bootstrap: ensure schema: %w", err)
	}

	existing, err := b.repo.FindByUsername(ctx, b.opts.AdminUsername)
	switch {
	case err == nil:
		return b.ensureAdminRole(ctx, existing)
	case !errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("bootstrap: lookup admin: %w", err)
	}

	hash, err := b.hasher.Hash(b.opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("bootstrap: hash password: %w", err)
	}

	admin, err := b.repo.Create(ctx, &domain.User{
		Username:     b.opts.AdminUsername,
		Firstname:    b.opts.AdminFirstname,
		Lastname:     b.opts.AdminLastname,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return nil
		}
		return fmt.Errorf("bootstrap: create admin: %w", err)
	}

	b.log.Info().Str("user_id", admin.ID).Str("username", admin.Username).Msg("bootstrap admin created")
	return nil
}

// ensureAdminRole restores the admin role on a bootstrap record that was
// demoted since the last start.
func (b *Bootstrapper) ensureAdminRole(ctx context.Context, existing *domain.User) error {
	if existing.IsAdmin() {
		b.log.Info().Str("username", existing.Username).Msg("bootstrap admin already present")
		return nil
	}

	role := domain.RoleAdmin
	if _, err := b.repo.Update(ctx, existing.ID, domain.UserPatch{Role: &role}); err != nil {
		return fmt.Errorf("bootstrap: restore admin role: %w", err)
	}
	b.log.Warn().
		Str("user_id", existing.ID).
		Str("username", existing.Username).
		Str("previous_role", existing.Role).
		Msg("bootstrap admin role restored")
	return nil
}
