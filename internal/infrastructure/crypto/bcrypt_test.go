package crypto

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash("pass1234")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if digest == "pass1234" {
		t.Fatalf("digest must not equal plaintext")
	}
	if !h.Verify("pass1234", digest) {
		t.Fatalf("expected match")
	}
	if h.Verify("pass12345", digest) {
		t.Fatalf("expected mismatch")
	}
	if h.Verify("pass1234", "") {
		t.Fatalf("empty digest must never verify")
	}
}

func TestBcryptHasher_RejectsEmptyPassword(t *testing.T) {
	if _, err := NewBcryptHasher(bcrypt.MinCost).Hash(""); err == nil {
		t.Fatalf("expected error for empty password")
	}
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	if h := NewBcryptHasher(0); h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
	if h := NewBcryptHasher(bcrypt.MaxCost + 1); h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
}
