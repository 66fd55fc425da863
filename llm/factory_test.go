package llm

import (
	"testing"

	"github.com/jasonhulbert/specgen/types"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   types.ProviderConfig
		wantName string
		wantErr  bool
	}{
		{
			name: "openai compatible",
			config: types.ProviderConfig{
				ID: "openai", Kind: types.KindOpenAICompatible,
				Model: "gpt-4o-mini", APIKey: "sk-test",
			},
			wantName: "openai",
		},
		{
			name: "anthropic style",
			config: types.ProviderConfig{
				ID: "claude", Kind: types.KindAnthropicStyle,
				Model: "claude-sonnet-4-5", APIKey: "sk-ant-test",
			},
			wantName: "anthropic",
		},
		{
			name: "local chat endpoint",
			config: types.ProviderConfig{
				ID: "local", Kind: types.KindLocalHTTP,
				Model: "llama3.2", Endpoint: "http://localhost:11434",
			},
			wantName: "ollama",
		},
		{
			name: "local generate endpoint",
			config: types.ProviderConfig{
				ID: "local-gen", Kind: types.KindLocalGenerate,
				Model: "llama3.2", Endpoint: "http://localhost:11434",
			},
			wantName: "ollama-generate",
		},
		{
			name: "unknown kind",
			config: types.ProviderConfig{
				ID: "x", Kind: "grpc", Model: "m",
			},
			wantErr: true,
		},
		{
			name: "cloud kind without api key",
			config: types.ProviderConfig{
				ID: "openai", Kind: types.KindOpenAICompatible, Model: "gpt-4o-mini",
			},
			wantErr: true,
		},
		{
			name: "local kind without endpoint",
			config: types.ProviderConfig{
				ID: "local", Kind: types.KindLocalHTTP, Model: "llama3.2",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.config, false)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider() error: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Fatalf("Name() = %s, want %s", p.Name(), tt.wantName)
			}
		})
	}
}
