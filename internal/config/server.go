package config

import (
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/joho/godotenv"
)

// Server holds the HTTP server settings.
type Server struct {
	Port           string
	MaxUploadBytes int
	LogLevel       string
	Delimiter      rune
	LayoutPath     string
}

// LoadServer reads settings from the environment, after loading a .env file
// from the working directory when one exists.
func LoadServer() (*Server, error) {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	cfg := &Server{
		Port:           getenv("PORT", "8080"),
		MaxUploadBytes: 32 << 20,
		LogLevel:       getenv("LOG_LEVEL", "info"),
		Delimiter:      '|',
		LayoutPath:     os.Getenv("LAYOUT_PATH"),
	}

	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		mb, err := strconv.Atoi(v)
		if err != nil || mb <= 0 {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_MB %q", v)
		}
		cfg.MaxUploadBytes = mb << 20
	}

	if v := os.Getenv("DEFAULT_DELIM"); v != "" {
		if utf8.RuneCountInString(v) != 1 {
			return nil, fmt.Errorf("DEFAULT_DELIM must be a single character, got %q", v)
		}
		cfg.Delimiter, _ = utf8.DecodeRuneInString(v)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
