package config

import (
	"os"
	"testing"

	"go.uber.org/zap"
)

func TestLoadEnv(t *testing.T) {
	// LoadEnv returns nil when no .env file exists
	err := LoadEnv()
	if err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestValidateEnvAllSet(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("DATABASE_URL", "test-db-url")
	defer os.Unsetenv("JWT_SECRET")
	defer os.Unsetenv("DATABASE_URL")

	err := ValidateEnv(zap.NewNop())
	if err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestValidateEnvNilLogger(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("DATABASE_URL", "test-db-url")
	defer os.Unsetenv("JWT_SECRET")
	defer os.Unsetenv("DATABASE_URL")

	if err := ValidateEnv(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestValidateEnvMissingJWTSecret(t *testing.T) {
	os.Unsetenv("JWT_SECRET")
	os.Setenv("DATABASE_URL", "test-db-url")
	defer os.Unsetenv("DATABASE_URL")

	err := ValidateEnv(zap.NewNop())
	if err == nil {
		t.Error("expected error for missing JWT_SECRET")
	}
}

func TestValidateEnvMissingDatabaseURL(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Unsetenv("DATABASE_URL")
	defer os.Unsetenv("JWT_SECRET")

	err := ValidateEnv(zap.NewNop())
	if err == nil {
		t.Error("expected error for missing DATABASE_URL")
	}
}

func TestGetEnvExisting(t *testing.T) {
	os.Setenv("TEST_GET_ENV_KEY", "test-value")
	defer os.Unsetenv("TEST_GET_ENV_KEY")

	result := GetEnv("TEST_GET_ENV_KEY", "default")
	if result != "test-value" {
		t.Errorf("expected 'test-value', got '%s'", result)
	}
}

func TestGetEnvMissing(t *testing.T) {
	os.Unsetenv("TEST_GET_ENV_MISSING")
	result := GetEnv("TEST_GET_ENV_MISSING", "fallback")
	if result != "fallback" {
		t.Errorf("expected 'fallback', got '%s'", result)
	}
}

func TestGetEnvInt(t *testing.T) {
	os.Setenv("TEST_GET_ENV_INT", "42")
	defer os.Unsetenv("TEST_GET_ENV_INT")

	if got := GetEnvInt("TEST_GET_ENV_INT", 7); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	os.Setenv("TEST_GET_ENV_INT", "not-a-number")
	if got := GetEnvInt("TEST_GET_ENV_INT", 7); got != 7 {
		t.Errorf("expected fallback 7, got %d", got)
	}
}

func TestGetEnvFloat(t *testing.T) {
	os.Setenv("TEST_GET_ENV_FLOAT", "12.5")
	defer os.Unsetenv("TEST_GET_ENV_FLOAT")

	if got := GetEnvFloat("TEST_GET_ENV_FLOAT", 8); got != 12.5 {
		t.Errorf("expected 12.5, got %v", got)
	}
	os.Unsetenv("TEST_GET_ENV_FLOAT")
	if got := GetEnvFloat("TEST_GET_ENV_FLOAT", 8); got != 8 {
		t.Errorf("expected fallback 8, got %v", got)
	}
}
