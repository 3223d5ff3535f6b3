package config

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBPath        string
	MigrationsDir string
	UploadDir     string
	CSRFKey       []byte
	SessionKey    []byte
	AdminPhone    string
	WhatsAppPhone string
	CookieDomain  string
	CookieSecure  bool
}

func LoadConfig() (*Config, error) {
	// Optional .env for local development; env vars always win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8585"),
		DBPath:        getEnv("DB_PATH", "./cafe.db"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		UploadDir:     getEnv("UPLOAD_DIR", "static/uploads"),
		AdminPhone:    getEnv("ADMIN_PHONE", "7978692808"),
		WhatsAppPhone: getEnv("WHATSAPP_PHONE", "917894332390"),
		CookieDomain:  getEnv("COOKIE_DOMAIN", ""),
		CookieSecure:  getEnv("COOKIE_SECURE", "false") == "true",
	}

	cfg.CSRFKey = loadKey("CSRF_KEY")
	cfg.SessionKey = loadKey("SESSION_KEY")

	// Make sure port is valid
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", os.Getenv("PORT"))
		cfg.Port = "8585"
	}

	return cfg, nil
}

// loadKey reads a base64 key from the environment, falling back to a random
// development key when the variable is unset or too short. A random key means
// sessions and CSRF tokens do not survive a restart.
func loadKey(envVar string) []byte {
	raw := os.Getenv(envVar)
	if raw == "" {
		slog.Warn("Key not set, generating a random development key. Set it in production.", "var", envVar)
		return generateRandomBytes(32)
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(decoded) < 32 {
		slog.Warn("Key is invalid or shorter than 32 bytes, generating a random development key.", "var", envVar)
		return generateRandomBytes(32)
	}
	return decoded
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is unrecoverable for key material.
		slog.Error("Failed to read random bytes", "error", err)
		os.Exit(1)
	}
	return b
}
