package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/hobbytag/pkg/hobbytag/ingest"
	"github.com/cognicore/hobbytag/pkg/hobbytag/internalerr"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Tables holds every static table the two tagging strategies use
type Tables struct {
	Rules RuleTables  `yaml:"rules" json:"rules"`
	Canon CanonTables `yaml:"canon" json:"canon"`
}

// RuleTables configures the area-rule pipeline
type RuleTables struct {
	MaxKeywords       int                  `yaml:"max_keywords" json:"max_keywords" validate:"min=1,max=64"`
	FallbackArea      string               `yaml:"fallback_area" json:"fallback_area" validate:"required"`
	KeepShort         []string             `yaml:"keep_short" json:"keep_short"`
	Stopwords         []string             `yaml:"stopwords" json:"stopwords"`
	NoiseWords        []string             `yaml:"noise_words" json:"noise_words"`
	PhraseCorrections []ingest.Correction  `yaml:"phrase_corrections" json:"phrase_corrections" validate:"dive"`
	Multiword         []ingest.PhraseEntry `yaml:"multiword" json:"multiword" validate:"dive"`
	TokenCorrections  map[string]string    `yaml:"token_corrections" json:"token_corrections"`
	Conflicts         []ingest.Conflict    `yaml:"conflicts" json:"conflicts"`
	Areas             []ingest.AreaRule    `yaml:"areas" json:"areas" validate:"min=1,dive"`
}

// CanonTables configures the canon dictionary pipeline
type CanonTables struct {
	Stopwords     []string `yaml:"stopwords" json:"stopwords"`
	NoisePhrases  []string `yaml:"noise_phrases" json:"noise_phrases"`
	InvalidValues []string `yaml:"invalid_values" json:"invalid_values"`
	RejectWords   []string `yaml:"reject_words" json:"reject_words"`
}

// DefaultTables returns the built-in tables
func DefaultTables() (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(defaultsYAML, &t); err != nil {
		return nil, fmt.Errorf("embedded defaults: %w", err)
	}
	return &t, nil
}

// ParseTables overlays a YAML document on the built-in tables. Sections the
// document sets replace the defaults; token_corrections entries are merged.
func ParseTables(data []byte) (*Tables, error) {
	t, err := DefaultTables()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := defaultValidator.Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadTables reads a rules file and overlays it on the built-in tables
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTables(data)
}
