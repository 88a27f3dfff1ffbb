package application

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

var testArgon2idParams = Argon2idParams{
	Memory:      8 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	t.Run("argon2id", func(t *testing.T) {
		t.Parallel()

		hash, err := CreatePasswordHash("s3cret", testArgon2idParams)
		if err != nil {
			t.Fatalf("create hash: %v", err)
		}
		if err := VerifyPassword(hash, "s3cret"); err != nil {
			t.Fatalf("expected password to verify, got %v", err)
		}
		if err := VerifyPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("bcrypt", func(t *testing.T) {
		t.Parallel()

		hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("bcrypt: %v", err)
		}
		if err := VerifyPassword(string(hash), "s3cret"); err != nil {
			t.Fatalf("expected password to verify, got %v", err)
		}
		if err := VerifyPassword(string(hash), "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("malformed hash", func(t *testing.T) {
		t.Parallel()

		for _, hash := range []string{"", "admin123", "$argon2id$v=19$bad", "$argon2i$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA"} {
			if err := VerifyPassword(hash, "admin123"); !errors.Is(err, ErrInvalidPasswordHash) {
				t.Fatalf("VerifyPassword(%q) = %v, want ErrInvalidPasswordHash", hash, err)
			}
		}
	})

	t.Run("empty password rejected at creation", func(t *testing.T) {
		t.Parallel()

		if _, err := CreatePasswordHash("", testArgon2idParams); err == nil {
			t.Fatalf("expected error for empty password")
		}
	})
}
