package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewManagerAndTokenLifecycle(t *testing.T) {
	mgr, err := NewManager("test-secret", "issuer", time.Minute*30)
	if err != nil {
		t.Fatalf("unexpected error creating manager: %v", err)
	}

	token, expiresAt, err := mgr.GenerateToken(42)
	if err != nil {
		t.Fatalf("unexpected error generating token: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if expiresAt.Before(time.Now()) {
		t.Fatal("expected future expiry time")
	}

	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("unexpected error parsing token: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Issuer != "issuer" {
		t.Fatalf("expected issuer, got %s", claims.Issuer)
	}
}

func TestNewManagerDefaultsToOneDay(t *testing.T) {
	mgr, err := NewManager("secret", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, expiresAt, err := mgr.GenerateToken(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	remaining := time.Until(expiresAt)
	if remaining < 23*time.Hour || remaining > 24*time.Hour {
		t.Fatalf("expected roughly one day of validity, got %s", remaining)
	}
}

func TestNewManagerRequiresSecret(t *testing.T) {
	if _, err := NewManager("   ", "", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestGenerateTokenRejectsZeroUser(t *testing.T) {
	mgr, _ := NewManager("secret", "", time.Hour)
	if _, _, err := mgr.GenerateToken(0); err == nil {
		t.Fatal("expected error for zero user id")
	}
}

func TestParseTokenRejectsInvalidTokens(t *testing.T) {
	mgr, _ := NewManager("secret", "", time.Hour)
	other, _ := NewManager("another-secret", "", time.Hour)

	foreign, _, err := other.GenerateToken(7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expiredClaims := Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredClaims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 7}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := map[string]string{
		"empty":          "",
		"garbage":        "not-a-token",
		"foreign secret": foreign,
		"expired":        expired,
		"no expiry":      noExpiry,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := mgr.ParseToken(token); err == nil {
				t.Fatalf("expected %s token to be rejected", name)
			}
		})
	}
}
