package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose    bool             `mapstructure:"verbose"`
	Config     string           `mapstructure:"config"`
	Project    ProjectConfig    `mapstructure:"project" validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
}

// ProjectConfig holds project-related settings
type ProjectConfig struct {
	RootDir       string `mapstructure:"rootDir" validate:"required"`
	ProvidersFile string `mapstructure:"providersFile" validate:"required"`
	ContextsFile  string `mapstructure:"contextsFile" validate:"required"`
	TemplatesDir  string `mapstructure:"templatesDir" validate:"required"`
	OutputDir     string `mapstructure:"outputDir" validate:"required"`
	DataFormat    string `mapstructure:"dataFormat" validate:"required,oneof=json yaml toml"`
}

// GenerationConfig holds tunables for spec generation runs
type GenerationConfig struct {
	Mode            string  `mapstructure:"mode" validate:"omitempty,oneof=standard detailed"`
	Temperature     float64 `mapstructure:"temperature" validate:"omitempty,min=0,max=2"`
	MaxOutputTokens int     `mapstructure:"maxOutputTokens" validate:"omitempty,min=1"`
	// RequestTimeoutSeconds controls the per-call timeout for completion requests
	RequestTimeoutSeconds int `mapstructure:"requestTimeoutSeconds" validate:"omitempty,min=5,max=600"`
	// GateThreshold is the ambiguity score above which the clarification round fires
	GateThreshold float64 `mapstructure:"gateThreshold" validate:"omitempty,min=0,max=1"`
	// Debug enables extra request/response logging within the provider adapters
	Debug bool `mapstructure:"debug"`
}

// ProviderKind identifies the wire format a completion backend speaks.
type ProviderKind string

const (
	KindOpenAICompatible ProviderKind = "openai-compatible"
	KindAnthropicStyle   ProviderKind = "anthropic-style"
	KindLocalHTTP        ProviderKind = "local-http"
	KindLocalGenerate    ProviderKind = "local-generate-endpoint"
)

// ProviderConfig describes one completion backend. Kind selects the wire
// format; the remaining fields carry what that backend needs.
type ProviderConfig struct {
	ID           string       `json:"id" mapstructure:"id" validate:"required,min=1"`
	Kind         ProviderKind `json:"kind" mapstructure:"kind" validate:"required,oneof=openai-compatible anthropic-style local-http local-generate-endpoint"`
	Endpoint     string       `json:"endpoint,omitempty" mapstructure:"endpoint" validate:"omitempty,url"`
	Model        string       `json:"model" mapstructure:"model" validate:"required,min=1"`
	APIKey       string       `json:"apiKey,omitempty" mapstructure:"apiKey"`
	Organization string       `json:"organization,omitempty" mapstructure:"organization"`
}

// validate is a single shared instance; it caches struct info.
var validate = validator.New()

// RequiresCredential reports whether configurations of the given kind need
// an API key (cloud-hosted backends do, local inference servers do not).
func RequiresCredential(kind ProviderKind) bool {
	switch kind {
	case KindOpenAICompatible, KindAnthropicStyle:
		return true
	default:
		return false
	}
}

// MissingFields reports required fields that are absent, without any
// network calls. Used by the configuration manager's ValidateAll.
func (c ProviderConfig) MissingFields() []string {
	var missing []string
	if c.ID == "" {
		missing = append(missing, "id")
	}
	if c.Kind == "" {
		missing = append(missing, "kind")
	}
	if c.Model == "" {
		missing = append(missing, "model")
	}
	if RequiresCredential(c.Kind) && c.APIKey == "" {
		missing = append(missing, "apiKey")
	}
	switch c.Kind {
	case KindLocalHTTP, KindLocalGenerate:
		if c.Endpoint == "" {
			missing = append(missing, "endpoint")
		}
	}
	return missing
}

// Validate checks the configuration shape against the provider-specific
// schema. It does not verify that the backend is reachable.
func (c ProviderConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid provider configuration %q: %w", c.ID, err)
	}
	if missing := c.MissingFields(); len(missing) > 0 {
		return fmt.Errorf("invalid provider configuration %q: missing fields %v", c.ID, missing)
	}
	return nil
}
