/*
Package llm contains the completion backend adapters and the
configuration manager that selects between them. Each adapter owns the
wire format of one backend family and normalizes requests and responses
into the shared types.
*/
package llm

import (
	"context"

	"github.com/jasonhulbert/specgen/types"
)

// Provider is the completion backend contract. Implementations shape the
// ordered message list into their backend's wire format and normalize
// the result. They never retry; retry policy belongs to the caller.
type Provider interface {
	// GenerateCompletion sends the conversation and returns the normalized
	// response. Timeouts surface as *types.RequestTimeoutError, non-2xx
	// responses as *types.ProviderError.
	GenerateCompletion(ctx context.Context, messages []types.Message, opts types.CompletionOptions) (*types.CompletionResponse, error)

	// Name identifies the adapter for error reporting and logging.
	Name() string
}
