package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jasonhulbert/specgen/types"
)

const defaultOpenAIBase = "https://api.openai.com/v1"

// OpenAIProvider speaks the OpenAI chat completions wire format. It also
// covers any compatible gateway when the configuration sets a custom
// endpoint.
type OpenAIProvider struct {
	config types.ProviderConfig
	client httpDoer
	debug  bool
}

func NewOpenAIProvider(cfg types.ProviderConfig, debug bool) *OpenAIProvider {
	return &OpenAIProvider{config: cfg, client: &http.Client{}, debug: debug}
}

func (p *OpenAIProvider) Name() string { return "openai" }

type openAIChatRequest struct {
	Model            string          `json:"model"`
	Messages         []types.Message `json:"messages"`
	Temperature      float64         `json:"temperature"`
	MaxTokens        int             `json:"max_tokens,omitempty"`
	TopP             *float64        `json:"top_p,omitempty"`
	FrequencyPenalty *float64        `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64        `json:"presence_penalty,omitempty"`
	ResponseFormat   *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type openAIChatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *types.Usage `json:"usage"`
}

func (p *OpenAIProvider) GenerateCompletion(ctx context.Context, messages []types.Message, opts types.CompletionOptions) (*types.CompletionResponse, error) {
	reqBody := openAIChatRequest{
		Model:            p.config.Model,
		Messages:         messages,
		Temperature:      opts.EffectiveTemperature(),
		MaxTokens:        opts.EffectiveMaxTokens(),
		TopP:             opts.TopP,
		FrequencyPenalty: opts.FrequencyPenalty,
		PresencePenalty:  opts.PresencePenalty,
	}
	if opts.JSONMode && modelSupportsJSONMode(p.config.Model) {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	headers := map[string]string{
		"Authorization": "Bearer " + p.config.APIKey,
	}
	if p.config.Organization != "" {
		headers["OpenAI-Organization"] = p.config.Organization
	}

	base := p.config.Endpoint
	if base == "" {
		base = defaultOpenAIBase
	}
	timeout := opts.EffectiveTimeout()

	status, raw, err := postJSON(ctx, p.client, strings.TrimSuffix(base, "/")+"/chat/completions", headers, reqBody, timeout, p.debug)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, &types.RequestTimeoutError{Provider: p.Name(), Timeout: timeout}
		}
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return nil, &types.ProviderError{Provider: p.Name(), Status: status, Body: string(raw)}
	}

	var parsed openAIChatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse openai response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("openai response contained no choices")
	}

	return &types.CompletionResponse{
		Content:      parsed.Choices[0].Message.Content,
		Model:        parsed.Model,
		Usage:        parsed.Usage,
		FinishReason: parsed.Choices[0].FinishReason,
	}, nil
}

// modelSupportsJSONMode gates the response_format parameter to model
// families known to accept it; older models reject the parameter
// outright.
func modelSupportsJSONMode(model string) bool {
	m := strings.ToLower(model)
	for _, prefix := range []string{"gpt-4", "gpt-4o", "gpt-3.5-turbo", "o1", "o3"} {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}
