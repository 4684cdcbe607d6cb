package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearServerEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "MAX_UPLOAD_MB", "LOG_LEVEL", "DEFAULT_DELIM", "LAYOUT_PATH"} {
		t.Setenv(key, "")
	}
}

func TestLoadServer_Defaults(t *testing.T) {
	clearServerEnv(t)

	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 32<<20, cfg.MaxUploadBytes)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, '|', cfg.Delimiter)
	assert.Empty(t, cfg.LayoutPath)
}

func TestLoadServer_FromEnv(t *testing.T) {
	clearServerEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_UPLOAD_MB", "5")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEFAULT_DELIM", ";")
	t.Setenv("LAYOUT_PATH", "/etc/layout.yaml")

	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5<<20, cfg.MaxUploadBytes)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ';', cfg.Delimiter)
	assert.Equal(t, "/etc/layout.yaml", cfg.LayoutPath)
}

func TestLoadServer_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"MAX_UPLOAD_MB", "lots"},
		{"MAX_UPLOAD_MB", "0"},
		{"DEFAULT_DELIM", "||"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearServerEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := LoadServer()
			assert.Error(t, err)
		})
	}
}
