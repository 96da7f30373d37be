package security

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/haulmatic/user-directory/internal/core/domain"
)

func TestBcryptHasher_HashIsSaltedAndVerifies(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("user123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := h.Hash("user123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if first == "user123" {
		t.Fatalf("expected hash, got plaintext")
	}
	if first == second {
		t.Fatalf("expected different hashes for the same secret")
	}
	if !h.Verify("user123", first) || !h.Verify("user123", second) {
		t.Fatalf("expected both hashes to verify")
	}
}

func TestBcryptHasher_VerifyRejectsWrongSecret(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("123456")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h.Verify("654321", hash) {
		t.Fatalf("wrong secret verified")
	}
	if h.Verify("123456", "not-a-bcrypt-hash") {
		t.Fatalf("garbage hash verified")
	}
}

func TestBcryptHasher_EmptySecret(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	if _, err := h.Hash(""); !errors.Is(err, domain.ErrEmptySecret) {
		t.Fatalf("expected ErrEmptySecret, got %v", err)
	}
}

func TestNewBcryptHasher_CostOutOfRange(t *testing.T) {
	if h := NewBcryptHasher(0); h.cost != DefaultBcryptCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
	if h := NewBcryptHasher(bcrypt.MaxCost + 1); h.cost != DefaultBcryptCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
}
