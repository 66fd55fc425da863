package llm

import (
	"fmt"

	"github.com/jasonhulbert/specgen/types"
)

// NewProvider constructs the adapter for a configuration's kind. The
// configuration is validated first so adapters can assume a usable
// shape.
func NewProvider(cfg types.ProviderConfig, debug bool) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case types.KindOpenAICompatible:
		return NewOpenAIProvider(cfg, debug), nil
	case types.KindAnthropicStyle:
		return NewAnthropicProvider(cfg, debug), nil
	case types.KindLocalHTTP:
		return NewOllamaChatProvider(cfg, debug), nil
	case types.KindLocalGenerate:
		return NewOllamaGenerateProvider(cfg, debug), nil
	default:
		return nil, fmt.Errorf("unsupported provider kind: %s", cfg.Kind)
	}
}
