package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// LoadEnv loads a .env file when one exists. Deployed environments set the
// variables directly, so a missing file is not an error.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil {
		return nil
	}
	return nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv(logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	var missing []string
	if os.Getenv("JWT_SECRET") == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if os.Getenv("DATABASE_URL") == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	optional := map[string]string{
		"FIREBASE_STORAGE_BUCKET":        "image uploads will fail",
		"GOOGLE_APPLICATION_CREDENTIALS": "Firebase features may not work",
		"ADMIN_URL":                      "CORS may not work correctly for the admin panel",
		"SELLER_URL":                     "CORS may not work correctly for the seller panel",
		"SMTP_HOST":                      "review notifications will not be sent",
		"SMTP_FROM":                      "review notifications will not be sent",
		"REDIS_URL":                      "category tree cache disabled",
	}
	for key, effect := range optional {
		if os.Getenv(key) == "" {
			logger.Warn("environment variable not set", zap.String("key", key), zap.String("effect", effect))
		}
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvInt returns the integer value of key, or defaultValue when unset or malformed.
func GetEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}
