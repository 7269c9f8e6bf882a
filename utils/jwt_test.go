package utils

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func init() {
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(uuid.New(), "tokengen@test.com", "seller")
	if err != nil {
		t.Fatalf("expected no error generating token, got: %v", err)
	}

	if token == "" {
		t.Fatal("expected non-empty token string")
	}

	if dots := strings.Count(token, "."); dots != 2 {
		t.Errorf("expected JWT with 2 dots, got %d dots", dots)
	}
}

func TestValidateToken(t *testing.T) {
	userID := uuid.New()
	email := "validate@test.com"
	role := "admin"

	token, err := GenerateToken(userID, email, role)
	if err != nil {
		t.Fatalf("expected no error generating token, got: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("expected no error validating token, got: %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.Email != email {
		t.Errorf("expected email %s, got %s", email, claims.Email)
	}
	if claims.Role != role {
		t.Errorf("expected role %s, got %s", role, claims.Role)
	}
	if claims.Issuer != "marketplace-admin" {
		t.Errorf("expected issuer 'marketplace-admin', got %s", claims.Issuer)
	}
	if claims.Subject != userID.String() {
		t.Errorf("expected subject %s, got %s", userID, claims.Subject)
	}
}

func signClaims(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestExpiredTokenRejected(t *testing.T) {
	expired := signClaims(t, Claims{
		UserID: uuid.New(),
		Email:  "expired@test.com",
		Role:   "seller",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			Issuer:    "marketplace-admin",
		},
	}, os.Getenv("JWT_SECRET"))

	if _, err := ValidateToken(expired); err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
}

func TestForeignIssuerRejected(t *testing.T) {
	foreign := signClaims(t, Claims{
		UserID: uuid.New(),
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    "someone-else",
		},
	}, os.Getenv("JWT_SECRET"))

	if _, err := ValidateToken(foreign); err == nil {
		t.Fatal("expected error for token from another issuer")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	forged := signClaims(t, Claims{
		UserID: uuid.New(),
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    "marketplace-admin",
		},
	}, "not-the-secret")

	if _, err := ValidateToken(forged); err == nil {
		t.Fatal("expected error for token signed with another secret")
	}
}

func TestTokenTTLFromEnv(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "30")
	if got := TokenTTL(); got != 30*time.Minute {
		t.Errorf("expected 30m, got %s", got)
	}
}
