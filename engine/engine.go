/*
Package engine orchestrates the generation pipeline: it renders prompts,
drives the active completion backend, extracts and validates the
structured result, and tracks each run through its lifecycle states.
*/
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jasonhulbert/specgen/llm"
	"github.com/jasonhulbert/specgen/models"
	"github.com/jasonhulbert/specgen/prompts"
	"github.com/jasonhulbert/specgen/types"
)

// ProviderSource yields the completion backend a flow should use. The
// configuration manager is the production implementation.
type ProviderSource interface {
	Active() (llm.Provider, error)
}

// Engine holds the pieces shared by all flows: the provider source that
// selects the completion backend, the templates directory for prompt
// overrides, and generation tunables.
type Engine struct {
	providers    ProviderSource
	templatesDir string
	generation   types.GenerationConfig
}

func New(providers ProviderSource, templatesDir string, generation types.GenerationConfig) *Engine {
	return &Engine{
		providers:    providers,
		templatesDir: templatesDir,
		generation:   generation,
	}
}

// NewFlow starts a fresh generation run.
func (e *Engine) NewFlow() *Flow {
	return &Flow{engine: e, state: StateIdle}
}

// completionOptions maps the generation tunables onto per-call options.
// Unset tunables fall through to the wire contract defaults.
func (e *Engine) completionOptions() types.CompletionOptions {
	opts := types.CompletionOptions{JSONMode: true}
	if e.generation.Temperature > 0 {
		t := e.generation.Temperature
		opts.Temperature = &t
	}
	if e.generation.MaxOutputTokens > 0 {
		opts.MaxTokens = e.generation.MaxOutputTokens
	}
	if e.generation.RequestTimeoutSeconds > 0 {
		opts.Timeout = time.Duration(e.generation.RequestTimeoutSeconds) * time.Second
	}
	return opts
}

// complete renders the named prompt, sends it with the shared system
// prompt, and returns the parsed JSON payload plus any leading prose.
func (e *Engine) complete(ctx context.Context, key prompts.PromptKey, vars map[string]any) ([]byte, string, error) {
	systemTmpl, err := prompts.GetPrompt(prompts.KeySystem, e.templatesDir)
	if err != nil {
		return nil, "", err
	}
	userTmpl, err := prompts.GetPrompt(key, e.templatesDir)
	if err != nil {
		return nil, "", err
	}

	messages := []types.Message{
		{Role: types.RoleSystem, Content: prompts.Render(systemTmpl, vars)},
		{Role: types.RoleUser, Content: prompts.Render(userTmpl, vars)},
	}

	provider, err := e.providers.Active()
	if err != nil {
		return nil, "", err
	}
	resp, err := provider.GenerateCompletion(ctx, messages, e.completionOptions())
	if err != nil {
		return nil, "", err
	}
	return ExtractJSON(resp.Content)
}

// GenerateSpec runs the full drafting pass: one completion call, JSON
// extraction, schema validation, and identifier stamping. The input and
// resolved context are echoed into the artifact so it is self-contained.
func (f *Flow) GenerateSpec(ctx context.Context, input models.FeatureInput, rc models.ResolvedContext, mode string) (*models.SpecOutput, error) {
	f.setState(StateDrafting)
	if mode == "" {
		mode = "standard"
	}

	payload, summary, err := f.engine.complete(ctx, prompts.KeySpecGeneration, map[string]any{
		"mode":    mode,
		"input":   input,
		"context": rc,
	})
	if err != nil {
		f.setState(StateFailed)
		return nil, fmt.Errorf("generate spec: %w", err)
	}

	f.setState(StateFinalizing)
	var spec models.SpecOutput
	if err := json.Unmarshal(payload, &spec); err != nil {
		f.setState(StateFailed)
		return nil, fmt.Errorf("generate spec: response is not a specification object: %w", err)
	}
	spec.ID = newSpecID(time.Now())
	spec.Input = input
	spec.Context = rc
	spec.Summary = summary

	if err := models.ValidateSpec(&spec); err != nil {
		f.setState(StateFailed)
		return nil, fmt.Errorf("generate spec: %w", err)
	}

	f.setState(StateDone)
	return &spec, nil
}

// GenerateClarifyingQuestions runs the clarification round. The flow
// parks in the clarification-pending state; the caller collects answers
// and decides whether to re-enter drafting.
func (f *Flow) GenerateClarifyingQuestions(ctx context.Context, input models.FeatureInput, rc models.ResolvedContext) (*models.ClarifyingQuestionSet, error) {
	f.setState(StateDrafting)

	payload, _, err := f.engine.complete(ctx, prompts.KeyClarifyingQuestions, map[string]any{
		"input":   input,
		"context": rc,
	})
	if err != nil {
		f.setState(StateFailed)
		return nil, fmt.Errorf("generate clarifying questions: %w", err)
	}

	var set models.ClarifyingQuestionSet
	if err := json.Unmarshal(payload, &set); err != nil {
		f.setState(StateFailed)
		return nil, fmt.Errorf("generate clarifying questions: response is not a question set: %w", err)
	}
	if err := models.ValidateQuestionSet(&set); err != nil {
		f.setState(StateFailed)
		return nil, fmt.Errorf("generate clarifying questions: %w", err)
	}

	f.setState(StateClarificationPending)
	return &set, nil
}

// RefineSpec asks the backend to revise an existing spec in light of the
// answered clarifications. It returns only the changed fields; merging
// is the caller's decision via models.MergeSpec.
func (f *Flow) RefineSpec(ctx context.Context, original models.SpecOutput, answers []models.ClarificationAnswer) (*models.SpecPatch, error) {
	f.setState(StateFinalizing)

	payload, _, err := f.engine.complete(ctx, prompts.KeyRefineSpec, map[string]any{
		"original": original,
		"answers":  answers,
	})
	if err != nil {
		f.setState(StateFailed)
		return nil, fmt.Errorf("refine spec: %w", err)
	}

	var patch models.SpecPatch
	if err := json.Unmarshal(payload, &patch); err != nil {
		f.setState(StateFailed)
		return nil, fmt.Errorf("refine spec: response is not a patch object: %w", err)
	}
	if err := models.ValidatePatch(&patch); err != nil {
		f.setState(StateFailed)
		return nil, fmt.Errorf("refine spec: %w", err)
	}

	f.setState(StateDone)
	return &patch, nil
}

// newSpecID stamps a spec identifier: the compact date plus a short
// random suffix, e.g. SPEC-20260824-1a2b3c4d.
func newSpecID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("SPEC-%s-%s", prompts.TodayID(now), suffix)
}
