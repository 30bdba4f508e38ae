package security

import (
	"strings"
	"testing"

	"github.com/shopstack-labs/shopstack-backend/pkg/config"
)

func testPasswordConfig() config.PasswordConfig {
	// Cheap parameters to keep the suite fast.
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter22", testPasswordConfig())
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword("hunter22", hash)
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if !ok {
		t.Fatal("expected matching password to verify")
	}

	ok, err = VerifyPassword("wrong", hash)
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if ok {
		t.Fatal("expected mismatched password to fail")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword("", testPasswordConfig()); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("pw", "$md5$nope"); err == nil {
		t.Fatal("expected malformed hash error")
	}
}

func TestNumericCodeLength(t *testing.T) {
	code, err := NumericCode(6)
	if err != nil {
		t.Fatalf("NumericCode failed: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6 digits, got %q", code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("expected numeric code, got %q", code)
		}
	}
}

func TestOpaqueTokenUnique(t *testing.T) {
	a, err := OpaqueToken(32)
	if err != nil {
		t.Fatalf("OpaqueToken failed: %v", err)
	}
	b, err := OpaqueToken(32)
	if err != nil {
		t.Fatalf("OpaqueToken failed: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct tokens")
	}
}
