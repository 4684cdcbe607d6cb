package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapitalOne(t *testing.T) {
	l := CapitalOne()
	require.NoError(t, l.Validate())
	assert.Equal(t, []string{"trans date"}, l.Header)
	assert.Contains(t, l.Footers, "total fees")
	assert.Len(t, l.Footers, 5)
	assert.Equal(t, l, l.Normalize())
}

func TestParseLayout(t *testing.T) {
	data := []byte(`
name: Custom Card
detect: ["Custom Bank"]
header:
  - "  Posted Date "
footers:
  - End Of Statement
  - ""
  - Fees
`)
	l, err := ParseLayout(data)
	require.NoError(t, err)
	assert.Equal(t, "Custom Card", l.Name)
	assert.Equal(t, []string{"custom bank"}, l.Detect)
	assert.Equal(t, []string{"posted date"}, l.Header)
	assert.Equal(t, []string{"end of statement", "fees"}, l.Footers)
}

func TestParseLayout_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid yaml", "header: [unclosed"},
		{"no header", "footers: [total]"},
		{"blank header", "header: ['  ']\nfooters: [total]"},
		{"no footers", "header: [trans date]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLayout([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("header: [Date]\nfooters: [Total]\n"), 0o644))

	l, err := LoadLayout(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"date"}, l.Header)

	_, err = LoadLayout(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
