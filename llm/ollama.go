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
	defaultOllamaBase  = "http://localhost:11434"
	defaultOllamaModel = "llama3.2"
)

// ollamaOptions mirrors the tuning block both local endpoints accept.
type ollamaOptions struct {
	Temperature float64  `json:"temperature"`
	NumPredict  int      `json:"num_predict,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
}

// OllamaChatProvider talks to a local inference server over its chat
// endpoint (/api/chat), which accepts role-tagged messages directly.
type OllamaChatProvider struct {
	config types.ProviderConfig
	client httpDoer
	debug  bool
}

func NewOllamaChatProvider(cfg types.ProviderConfig, debug bool) *OllamaChatProvider {
	return &OllamaChatProvider{config: cfg, client: &http.Client{}, debug: debug}
}

func (p *OllamaChatProvider) Name() string { return "ollama" }

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []types.Message `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format,omitempty"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaChatResponse struct {
	Model   string `json:"model"`
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	DoneReason      string `json:"done_reason"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

func (p *OllamaChatProvider) GenerateCompletion(ctx context.Context, messages []types.Message, opts types.CompletionOptions) (*types.CompletionResponse, error) {
	reqBody := ollamaChatRequest{
		Model:    modelOrDefault(p.config.Model),
		Messages: messages,
		Stream:   false,
		Options: ollamaOptions{
			Temperature: opts.EffectiveTemperature(),
			NumPredict:  opts.EffectiveMaxTokens(),
			TopP:        opts.TopP,
		},
	}
	if opts.JSONMode {
		reqBody.Format = "json"
	}

	timeout := opts.EffectiveTimeout()
	status, raw, err := postJSON(ctx, p.client, ollamaBase(p.config)+"/api/chat", nil, reqBody, timeout, p.debug)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, &types.RequestTimeoutError{Provider: p.Name(), Timeout: timeout}
		}
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return nil, &types.ProviderError{Provider: p.Name(), Status: status, Body: string(raw)}
	}

	var parsed ollamaChatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse ollama response: %w", err)
	}

	return &types.CompletionResponse{
		Content:      parsed.Message.Content,
		Model:        parsed.Model,
		Usage:        ollamaUsage(parsed.PromptEvalCount, parsed.EvalCount),
		FinishReason: parsed.DoneReason,
	}, nil
}

// OllamaGenerateProvider talks to a local inference server over its
// single-prompt endpoint (/api/generate). The conversation is flattened
// into one role-labelled prompt because the endpoint has no message
// structure.
type OllamaGenerateProvider struct {
	config types.ProviderConfig
	client httpDoer
	debug  bool
}

func NewOllamaGenerateProvider(cfg types.ProviderConfig, debug bool) *OllamaGenerateProvider {
	return &OllamaGenerateProvider{config: cfg, client: &http.Client{}, debug: debug}
}

func (p *OllamaGenerateProvider) Name() string { return "ollama-generate" }

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Format  string        `json:"format,omitempty"`
	Options ollamaOptions `json:"options"`
}

type ollamaGenerateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	DoneReason      string `json:"done_reason"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

func (p *OllamaGenerateProvider) GenerateCompletion(ctx context.Context, messages []types.Message, opts types.CompletionOptions) (*types.CompletionResponse, error) {
	system, rest := hoistSystemMessage(messages)

	reqBody := ollamaGenerateRequest{
		Model:  modelOrDefault(p.config.Model),
		Prompt: flattenMessages(rest),
		System: system,
		Stream: false,
		Options: ollamaOptions{
			Temperature: opts.EffectiveTemperature(),
			NumPredict:  opts.EffectiveMaxTokens(),
			TopP:        opts.TopP,
		},
	}
	if opts.JSONMode {
		reqBody.Format = "json"
	}

	timeout := opts.EffectiveTimeout()
	status, raw, err := postJSON(ctx, p.client, ollamaBase(p.config)+"/api/generate", nil, reqBody, timeout, p.debug)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, &types.RequestTimeoutError{Provider: p.Name(), Timeout: timeout}
		}
		return nil, fmt.Errorf("ollama generate request failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return nil, &types.ProviderError{Provider: p.Name(), Status: status, Body: string(raw)}
	}

	var parsed ollamaGenerateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse ollama generate response: %w", err)
	}

	return &types.CompletionResponse{
		Content:      parsed.Response,
		Model:        parsed.Model,
		Usage:        ollamaUsage(parsed.PromptEvalCount, parsed.EvalCount),
		FinishReason: parsed.DoneReason,
	}, nil
}

// flattenMessages renders the remaining turns as a role-labelled
// transcript ending with an open assistant turn.
func flattenMessages(messages []types.Message) string {
	var sb strings.Builder
	for _, m := range messages {
		label := "User"
		if m.Role == types.RoleAssistant {
			label = "Assistant"
		}
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(m.Content)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Assistant:")
	return sb.String()
}

func ollamaBase(cfg types.ProviderConfig) string {
	if cfg.Endpoint == "" {
		return defaultOllamaBase
	}
	return strings.TrimSuffix(cfg.Endpoint, "/")
}

func modelOrDefault(model string) string {
	if model == "" {
		return defaultOllamaModel
	}
	return model
}

func ollamaUsage(promptEval, eval int) *types.Usage {
	if promptEval == 0 && eval == 0 {
		return nil
	}
	return &types.Usage{
		PromptTokens:     promptEval,
		CompletionTokens: eval,
		TotalTokens:      promptEval + eval,
	}
}
