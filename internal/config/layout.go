package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// Layout is the keyword profile that bounds the transaction table of a
// statement. Keywords match case-insensitively as substrings of a row.
type Layout struct {
	Name string `yaml:"name"`
	// Detect holds phrases identifying the issuer anywhere in the document.
	Detect []string `yaml:"detect"`
	// Header phrases open the transaction table.
	Header []string `yaml:"header"`
	// Footers close it: end-of-table, summary, issuer and fee banners.
	Footers []string `yaml:"footers"`
}

// CapitalOne returns the built-in Capital One monthly statement profile.
func CapitalOne() Layout {
	return Layout{
		Name:   "capitalone",
		Detect: []string{"capital one", "capitalone.com"},
		Header: []string{"trans date"},
		Footers: []string{
			"additional information",
			"transaction",
			"capital one",
			"total fees",
			"interest charge",
		},
	}
}

// LoadLayout reads a YAML layout profile from disk.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to read layout %q: %w", path, err)
	}
	return ParseLayout(data)
}

// ParseLayout decodes a YAML layout profile. Keywords are lowercased and
// trimmed.
func ParseLayout(data []byte) (Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("invalid layout YAML: %w", err)
	}
	l = l.Normalize()
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Normalize returns a copy with every keyword lowercased and trimmed, and
// blank keywords removed.
func (l Layout) Normalize() Layout {
	return Layout{
		Name:    strings.TrimSpace(l.Name),
		Detect:  normalizeKeywords(l.Detect),
		Header:  normalizeKeywords(l.Header),
		Footers: normalizeKeywords(l.Footers),
	}
}

// Validate checks that the table can both open and close.
func (l Layout) Validate() error {
	if len(l.Header) == 0 {
		return fmt.Errorf("layout %q: at least one header keyword is required", l.Name)
	}
	if len(l.Footers) == 0 {
		return fmt.Errorf("layout %q: at least one footer keyword is required", l.Name)
	}
	return nil
}

func normalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, kw := range in {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
