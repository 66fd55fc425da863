package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jasonhulbert/specgen/types"
)

const (
	defaultAnthropicBase    = "https://api.anthropic.com"
	anthropicAPIVersion     = "2023-06-01"
	anthropicMessagesSuffix = "/v1/messages"
)

// AnthropicProvider speaks the Anthropic messages wire format. The
// system prompt travels in a dedicated top-level field, so the first
// system message is hoisted out of the conversation before sending.
type AnthropicProvider struct {
	config types.ProviderConfig
	client httpDoer
	debug  bool
}

func NewAnthropicProvider(cfg types.ProviderConfig, debug bool) *AnthropicProvider {
	return &AnthropicProvider{config: cfg, client: &http.Client{}, debug: debug}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

type anthropicRequest struct {
	Model       string          `json:"model"`
	System      string          `json:"system,omitempty"`
	Messages    []types.Message `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	TopP        *float64        `json:"top_p,omitempty"`
}

type anthropicResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (p *AnthropicProvider) GenerateCompletion(ctx context.Context, messages []types.Message, opts types.CompletionOptions) (*types.CompletionResponse, error) {
	system, rest := hoistSystemMessage(messages)

	reqBody := anthropicRequest{
		Model:       p.config.Model,
		System:      system,
		Messages:    rest,
		MaxTokens:   opts.EffectiveMaxTokens(),
		Temperature: opts.EffectiveTemperature(),
		TopP:        opts.TopP,
	}

	headers := map[string]string{
		"x-api-key":         p.config.APIKey,
		"anthropic-version": anthropicAPIVersion,
	}

	base := p.config.Endpoint
	if base == "" {
		base = defaultAnthropicBase
	}
	timeout := opts.EffectiveTimeout()

	status, raw, err := postJSON(ctx, p.client, strings.TrimSuffix(base, "/")+anthropicMessagesSuffix, headers, reqBody, timeout, p.debug)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, &types.RequestTimeoutError{Provider: p.Name(), Timeout: timeout}
		}
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return nil, &types.ProviderError{Provider: p.Name(), Status: status, Body: string(raw)}
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse anthropic response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return nil, fmt.Errorf("anthropic response contained no content blocks")
	}

	usage := &types.Usage{
		PromptTokens:     parsed.Usage.InputTokens,
		CompletionTokens: parsed.Usage.OutputTokens,
		TotalTokens:      parsed.Usage.InputTokens + parsed.Usage.OutputTokens,
	}
	return &types.CompletionResponse{
		Content:      parsed.Content[0].Text,
		Model:        parsed.Model,
		Usage:        usage,
		FinishReason: parsed.StopReason,
	}, nil
}

// hoistSystemMessage splits the first system message off the
// conversation. Any further system messages are demoted to user turns so
// no instruction silently disappears.
func hoistSystemMessage(messages []types.Message) (string, []types.Message) {
	system := ""
	rest := make([]types.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == types.RoleSystem {
			if system == "" {
				system = m.Content
				continue
			}
			m.Role = types.RoleUser
		}
		rest = append(rest, m)
	}
	return system, rest
}
