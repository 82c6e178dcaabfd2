package credential

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
)

func TestStoreAndGetToken(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)

	if err := StoreToken(ring, "jane@example.com", "s3cr3t"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := Token(ring, "jane@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "s3cr3t" {
		t.Errorf("expected token %q, got %q", "s3cr3t", token)
	}
}

func TestTokenNotFound(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)

	_, err := Token(ring, "nobody@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
