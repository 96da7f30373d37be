package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/haulmatic/user-directory/internal/core/domain"
)

func newAuthSvc(repo *stubUserRepo, codec *stubCodec) *AuthService {
	return NewAuthService(repo, stubHasher{}, codec, zerolog.Nop())
}

func seedUser(t *testing.T, repo *stubUserRepo, username, password, role string) *domain.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &domain.User{
		Username:     username,
		Firstname:    "First",
		Lastname:     "Last",
		PasswordHash: "hashed:" + password,
		Role:         role,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", username, err)
	}
	return u
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	codec := &stubCodec{}
	seeded := seedUser(t, repo, "haulmatic", "123456", domain.RoleAdmin)

	token, user, err := newAuthSvc(repo, codec).Login(context.Background(), "haulmatic", "123456")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.ID != seeded.ID {
		t.Fatalf("unexpected user: %+v", user)
	}
	if len(codec.issued) != 1 {
		t.Fatalf("expected one token issued, got %d", len(codec.issued))
	}
	want := domain.Identity{UserID: seeded.ID, Username: "haulmatic", Role: domain.RoleAdmin}
	if codec.issued[0] != want {
		t.Fatalf("unexpected claims: %+v", codec.issued[0])
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), &stubCodec{})

	if _, _, err := svc.Login(context.Background(), "ghost", "pass"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	repo := newStubUserRepo()
	codec := &stubCodec{}
	seedUser(t, repo, "dave", "goodpass", domain.RoleUser)

	if _, _, err := newAuthSvc(repo, codec).Login(context.Background(), "dave", "badpass"); !errors.Is(err, domain.ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if len(codec.issued) != 0 {
		t.Fatalf("no token should be issued on bad password")
	}
}

func TestAuthService_Login_StoreError(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errStoreDown

	if _, _, err := newAuthSvc(repo, &stubCodec{}).Login(context.Background(), "dave", "x"); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestAuthService_Login_IssueError(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "dave", "goodpass", domain.RoleUser)
	issueErr := errors.New("signing failed")

	if _, _, err := newAuthSvc(repo, &stubCodec{issueErr: issueErr}).Login(context.Background(), "dave", "goodpass"); !errors.Is(err, issueErr) {
		t.Fatalf("expected signing error, got %v", err)
	}
}
