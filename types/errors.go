package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for conditions callers branch on with errors.Is.
var (
	// ErrConfigurationNotFound is returned when a configuration id is unknown
	// to the configuration manager or its backing store.
	ErrConfigurationNotFound = errors.New("configuration not found")
	// ErrNoActiveConfiguration is returned when a completion is requested but
	// no provider configuration is currently active.
	ErrNoActiveConfiguration = errors.New("no active provider configuration")
	// ErrContextNotFound signals a project without any stored context version.
	// The resolver treats it as "not yet configured", never as a failure.
	ErrContextNotFound = errors.New("project context not found")
	// ErrNoStructuredOutput is returned when no parseable JSON region can be
	// located in a model response.
	ErrNoStructuredOutput = errors.New("no structured output in model response")
)

// RequestTimeoutError marks a completion call that exceeded its per-call
// timeout, distinguishable from a remote error response.
type RequestTimeoutError struct {
	Provider string
	Timeout  time.Duration
}

func (e *RequestTimeoutError) Error() string {
	return fmt.Sprintf("%s request timed out after %s", e.Provider, e.Timeout)
}

// ProviderError carries a non-2xx response from a completion backend.
// Callers must not retry at the adapter layer; retry policy belongs to
// whoever re-invokes the whole operation.
type ProviderError struct {
	Provider string
	Status   int
	Body     string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.Status, e.Body)
}

// FieldViolation identifies one schema rule a parsed response broke.
type FieldViolation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Value string `json:"value,omitempty"`
}

// SchemaValidationError is returned when a parsed model response does not
// satisfy the operation's schema. Violations are never coerced or repaired.
type SchemaValidationError struct {
	Violations []FieldViolation
}

func (e *SchemaValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, fmt.Sprintf("%s (%s)", v.Field, v.Rule))
	}
	return fmt.Sprintf("model response failed schema validation: %s", strings.Join(fields, ", "))
}
