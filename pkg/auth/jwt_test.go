package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParseJWT_Success(t *testing.T) {
	t.Parallel()

	tok, err := GenerateJWT(42, "admin")
	if err != nil {
		t.Fatalf("GenerateJWT error: %v", err)
	}

	claims, err := ParseJWT(tok)
	if err != nil {
		t.Fatalf("ParseJWT error: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("user id mismatch: got %d want 42", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Fatalf("role mismatch: got %q want %q", claims.Role, "admin")
	}
}

func TestGenerateJWT_ExpiresInOneHour(t *testing.T) {
	t.Parallel()

	tok, err := GenerateJWT(1, "user")
	if err != nil {
		t.Fatalf("GenerateJWT error: %v", err)
	}

	claims, err := ParseJWT(tok)
	if err != nil {
		t.Fatalf("ParseJWT error: %v", err)
	}

	left := time.Until(claims.ExpiresAt.Time)
	if left < 59*time.Minute || left > 61*time.Minute {
		t.Fatalf("expected ~1h expiry, got %v", left)
	}
}

func TestParseJWT_Expired(t *testing.T) {
	t.Parallel()

	claims := &Claims{
		UserID: 1,
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Minute)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	if _, err := ParseJWT(tok); err == nil {
		t.Fatalf("expected error for expired token, got nil")
	}
}

func TestParseJWT_WrongSecret(t *testing.T) {
	t.Parallel()

	claims := &Claims{
		UserID: 1,
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong-secret"))
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	if _, err := ParseJWT(tok); err == nil {
		t.Fatalf("expected error for invalid signature, got nil")
	}
}

func TestParseJWT_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := ParseJWT("not.a.jwt"); err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}

func TestResetToken_RoundTrip(t *testing.T) {
	t.Parallel()

	tok, err := GenerateResetToken("user@example.com")
	if err != nil {
		t.Fatalf("GenerateResetToken error: %v", err)
	}

	claims, err := ParseResetToken(tok)
	if err != nil {
		t.Fatalf("ParseResetToken error: %v", err)
	}
	if claims.Email != "user@example.com" {
		t.Fatalf("email mismatch: got %q", claims.Email)
	}
}

func TestResetToken_NotValidAsAccessToken(t *testing.T) {
	t.Parallel()

	tok, err := GenerateResetToken("user@example.com")
	if err != nil {
		t.Fatalf("GenerateResetToken error: %v", err)
	}

	if _, err := ParseJWT(tok); err == nil {
		t.Fatalf("expected reset token to be rejected by ParseJWT")
	}
}
