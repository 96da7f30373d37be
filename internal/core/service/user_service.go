package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/haulmatic/user-directory/internal/core/domain"
	"github.com/haulmatic/user-directory/internal/core/ports"
)

// UserService implements the user administration use cases.
type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, log: log}
}

// List returns every user without password hashes.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}

// Create validates the input, hashes the password and stores a new user.
// Uniqueness is left to the store's unique constraint so concurrent creates
// with the same username cannot both succeed.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	if in.Username == "" || in.Firstname == "" || in.Lastname == "" || in.Password == "" {
		return nil, domain.ErrInvalidData
	}

	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidData
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Username:     in.Username,
		Firstname:    in.Firstname,
		Lastname:     in.Lastname,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Str("role", created.Role).Msg("user created")
	return created, nil
}

// Update applies the non-empty fields of the input to an existing user.
func (s *UserService) Update(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	var patch domain.UserPatch
	if in.Username != "" {
		patch.Username = &in.Username
	}
	if in.Firstname != "" {
		patch.Firstname = &in.Firstname
	}
	if in.Lastname != "" {
		patch.Lastname = &in.Lastname
	}
	if in.Role != "" {
		if !domain.ValidRole(in.Role) {
			return nil, domain.ErrInvalidData
		}
		patch.Role = &in.Role
	}
	if in.Password != "" {
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		patch.PasswordHash = &hash
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", id).Msg("user updated")
	return updated, nil
}

// Delete removes a non-admin user.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return domain.ErrAdminProtected
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("user_id", id).Str("username", user.Username).Msg("user deleted")
	return nil
}
