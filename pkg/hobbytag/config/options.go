package config

import "regexp"

// Embedding providers accepted by the cluster command
const (
	ProviderHash   = "hash"
	ProviderOpenAI = "openai"
	ProviderHTTP   = "http"
)

// RunOptions are the per-invocation knobs shared by the commands. Zero values
// mean "use the default".
type RunOptions struct {
	MaxKeywords    int    `yaml:"max_keywords" validate:"omitempty,min=1,max=64"`
	K              int    `yaml:"k" validate:"omitempty,min=2"`
	Provider       string `yaml:"provider" validate:"omitempty,oneof=hash openai http"`
	Model          string `yaml:"model"`
	IncludeUnknown bool   `yaml:"include_unknown_as_tags"`
	StemFallback   bool   `yaml:"stem_fallback"`
	Progress       bool   `yaml:"progress"`
	SQLitePath     string `yaml:"sqlite"`
}

// Validate checks option ranges
func (o RunOptions) Validate() error {
	return defaultValidator.Validate(o)
}

var truthy = regexp.MustCompile(`(?i)^(1|true|yes)$`)

// ParseFlag reads an environment-style boolean: 1, true or yes in any case.
// Everything else, including an empty string, is false.
func ParseFlag(value string) bool {
	return truthy.MatchString(value)
}
