package llm

import (
	"context"
	"time"

	"github.com/jasonhulbert/specgen/types"
)

// TestConnection sends a minimal deterministic request and reports
// whether the backend produced any content. Errors are swallowed; the
// caller only needs reachability, not diagnostics.
func TestConnection(ctx context.Context, p Provider) bool {
	zero := 0.0
	opts := types.CompletionOptions{
		Temperature: &zero,
		MaxTokens:   8,
		Timeout:     10 * time.Second,
	}
	messages := []types.Message{
		{Role: types.RoleUser, Content: "Reply with the single word: ok"},
	}
	resp, err := p.GenerateCompletion(ctx, messages, opts)
	if err != nil {
		return false
	}
	return resp.Content != ""
}
