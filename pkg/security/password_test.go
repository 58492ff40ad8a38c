package security

import (
	"errors"
	"strings"
	"testing"

	"github.com/oakmart/storefront-backend/pkg/config"
)

// Small parameters keep the Argon2id work factor out of the test runtime.
func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func TestHashAndVerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format %q", hash)
	}

	ok, err := VerifyPassword("correct horse battery", hash)
	if err != nil {
		t.Fatalf("verify password: %v", err)
	}
	if !ok {
		t.Fatal("expected password to verify")
	}
}

func TestVerifyWrongPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	ok, err := VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("verify password: %v", err)
	}
	if ok {
		t.Fatal("expected mismatch")
	}
}

func TestHashesAreSalted(t *testing.T) {
	first, err := HashPassword("correct horse battery", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	second, err := HashPassword("correct horse battery", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct salts to produce distinct hashes")
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	if _, err := HashPassword("", testPasswordConfig()); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	cases := []string{
		"",
		"plainly not a hash",
		"$argon2i$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8,t=1,p=1$not-base64!$aGFzaA",
	}
	for _, encoded := range cases {
		if _, err := VerifyPassword("whatever", encoded); !errors.Is(err, ErrInvalidHash) {
			t.Fatalf("expected ErrInvalidHash for %q, got %v", encoded, err)
		}
	}
}
