package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/haulmatic/user-directory/internal/core/domain"
)

// newIntegrationRepo connects to POSTGRES_DSN and resets the users table.
// The database must be disposable.
func newIntegrationRepo(t *testing.T) *UserRepository {
	t.Helper()
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set")
	}

	ctx := context.Background()
	pool, err := Connect(ctx, Config{DSN: dsn})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	repo := NewUserRepository(pool)
	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	return repo
}

func createUser(t *testing.T, repo *UserRepository, username, role string) *domain.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &domain.User{
		Username:     username,
		Firstname:    "First",
		Lastname:     "Last",
		PasswordHash: "hash-" + username,
		Role:         role,
	})
	if err != nil {
		t.Fatalf("create %s: %v", username, err)
	}
	return u
}

func TestUserRepository_UniqueUsername(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	createUser(t, repo, "haulmatic", domain.RoleAdmin)
	other := createUser(t, repo, "testuser", domain.RoleUser)

	_, err := repo.Create(ctx, &domain.User{Username: "haulmatic", Firstname: "a", Lastname: "b", PasswordHash: "c", Role: domain.RoleUser})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("create duplicate: expected ErrUsernameTaken, got %v", err)
	}

	taken := "haulmatic"
	if _, err := repo.Update(ctx, other.ID, domain.UserPatch{Username: &taken}); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("rename onto existing: expected ErrUsernameTaken, got %v", err)
	}
}

func TestUserRepository_UpdateKeepsUnsetColumns(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()
	u := createUser(t, repo, "testuser", domain.RoleUser)

	first := "Updated"
	got, err := repo.Update(ctx, u.ID, domain.UserPatch{Firstname: &first})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Firstname != "Updated" {
		t.Fatalf("firstname not applied: %q", got.Firstname)
	}
	if got.Username != "testuser" || got.Lastname != "Last" || got.PasswordHash != "hash-testuser" || got.Role != domain.RoleUser {
		t.Fatalf("unset columns changed: %+v", got)
	}

	if _, err := repo.Update(ctx, uuid.NewString(), domain.UserPatch{Firstname: &first}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("update unknown: expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_DeleteGuardsAdmins(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()
	admin := createUser(t, repo, "haulmatic", domain.RoleAdmin)
	user := createUser(t, repo, "testuser", domain.RoleUser)

	if err := repo.Delete(ctx, admin.ID); !errors.Is(err, domain.ErrAdminProtected) {
		t.Fatalf("delete admin: expected ErrAdminProtected, got %v", err)
	}
	if _, err := repo.FindByID(ctx, admin.ID); err != nil {
		t.Fatalf("admin gone after refused delete: %v", err)
	}

	if err := repo.Delete(ctx, user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if err := repo.Delete(ctx, user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("second delete: expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_ListOrderAndPassword(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()
	for _, name := range []string{"charlie", "alpha", "bravo"} {
		createUser(t, repo, name, domain.RoleUser)
	}

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"charlie", "alpha", "bravo"}
	if len(users) != len(want) {
		t.Fatalf("expected %d users, got %d", len(want), len(users))
	}
	for i, u := range users {
		if u.Username != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], u.Username)
		}
		if u.PasswordHash != "" {
			t.Fatalf("password returned for %s", u.Username)
		}
	}
}
