package types

import "time"

// Message roles understood by every adapter.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of the ordered conversation sent to a backend.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Wire contract defaults applied when the caller leaves a field unset.
const (
	DefaultTemperature = 0.1
	DefaultMaxTokens   = 4000
	DefaultTimeout     = 60 * time.Second
)

// CompletionOptions carries per-call tuning for a completion request.
// Temperature is a pointer so an explicit zero (used by connection tests)
// is distinguishable from "use the default".
type CompletionOptions struct {
	Temperature      *float64
	MaxTokens        int
	Timeout          time.Duration
	TopP             *float64
	FrequencyPenalty *float64
	PresencePenalty  *float64
	// JSONMode asks the backend for a JSON object response. Adapters enable
	// it only when the target model is known to support it.
	JSONMode bool
}

// EffectiveTemperature resolves the temperature to send on the wire.
func (o CompletionOptions) EffectiveTemperature() float64 {
	if o.Temperature == nil {
		return DefaultTemperature
	}
	return *o.Temperature
}

// EffectiveMaxTokens resolves the token budget to send on the wire.
func (o CompletionOptions) EffectiveMaxTokens() int {
	if o.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return o.MaxTokens
}

// EffectiveTimeout resolves the per-call timeout.
func (o CompletionOptions) EffectiveTimeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

// Usage holds normalized token accounting. Adapters translate backend-specific
// field names into this shape and synthesize TotalTokens when the backend
// reports only partial counts.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionResponse is the normalized result of one adapter call.
type CompletionResponse struct {
	Content      string `json:"content"`
	Model        string `json:"model"`
	Usage        *Usage `json:"usage,omitempty"`
	FinishReason string `json:"finish_reason,omitempty"`
}
