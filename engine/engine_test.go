package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jasonhulbert/specgen/llm"
	"github.com/jasonhulbert/specgen/models"
	"github.com/jasonhulbert/specgen/types"
)

// fakeProvider returns canned content and records what it was sent.
type fakeProvider struct {
	content  string
	err      error
	messages []types.Message
	opts     types.CompletionOptions
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) GenerateCompletion(_ context.Context, messages []types.Message, opts types.CompletionOptions) (*types.CompletionResponse, error) {
	f.messages = messages
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return &types.CompletionResponse{Content: f.content, Model: "fake-model"}, nil
}

type fakeSource struct{ provider llm.Provider }

func (s fakeSource) Active() (llm.Provider, error) { return s.provider, nil }

func newTestEngine(p llm.Provider) *Engine {
	return New(fakeSource{provider: p}, "", types.GenerationConfig{})
}

func featureInput() models.FeatureInput {
	return models.FeatureInput{
		ProjectID:   "p1",
		Title:       "Saved articles",
		Description: "Readers can save up to 100 articles for later reading.",
	}
}

func specJSON(t *testing.T) string {
	t.Helper()
	spec := models.SpecOutput{
		Story: "As a reader, I want to save articles so that I can return to them.",
		FunctionalRequirements: []models.FunctionalRequirement{
			{ID: "FR-01", Title: "Save article", Priority: "high"},
		},
		Tasks: []models.SpecTask{
			{ID: "T-01", Title: "Add save endpoint", Area: models.AreaBackend},
		},
		Estimation: models.Estimation{Confidence: 0.8, Complexity: models.ComplexityMedium},
	}
	raw, err := json.Marshal(spec)
	if err != nil {
		t.Fatal(err)
	}
	return string(raw)
}

func TestGenerateSpecRoundTrip(t *testing.T) {
	provider := &fakeProvider{content: "Draft ready. " + specJSON(t)}
	flow := newTestEngine(provider).NewFlow()

	spec, err := flow.GenerateSpec(context.Background(), featureInput(), models.EmptyResolvedContext(), "standard")
	if err != nil {
		t.Fatalf("GenerateSpec: %v", err)
	}

	if !strings.HasPrefix(spec.ID, "SPEC-") {
		t.Errorf("spec id not stamped: %q", spec.ID)
	}
	if spec.Input.ProjectID != "p1" {
		t.Error("input not echoed into the artifact")
	}
	if spec.Summary != "Draft ready." {
		t.Errorf("summary = %q", spec.Summary)
	}
	if flow.State() != StateDone {
		t.Errorf("state = %s, want %s", flow.State(), StateDone)
	}

	// The conversation carries a system prompt and a rendered user prompt.
	if len(provider.messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(provider.messages))
	}
	if provider.messages[0].Role != types.RoleSystem {
		t.Error("first message must be the system prompt")
	}
	if !strings.Contains(provider.messages[1].Content, "Saved articles") {
		t.Error("user prompt must embed the feature input")
	}
	if !provider.opts.JSONMode {
		t.Error("completions must request JSON mode")
	}
}

func TestGenerateSpecNoStructuredOutput(t *testing.T) {
	provider := &fakeProvider{content: "I cannot produce that."}
	flow := newTestEngine(provider).NewFlow()

	_, err := flow.GenerateSpec(context.Background(), featureInput(), models.EmptyResolvedContext(), "")
	if !errors.Is(err, types.ErrNoStructuredOutput) {
		t.Fatalf("expected ErrNoStructuredOutput, got %v", err)
	}
	if flow.State() != StateFailed {
		t.Errorf("state = %s, want %s", flow.State(), StateFailed)
	}
}

func TestGenerateSpecSchemaViolation(t *testing.T) {
	// Story present but no tasks: fails the schema, never repaired.
	provider := &fakeProvider{content: `{"story":"s","functional_requirements":[{"title":"r"}],"tasks":[]}`}
	flow := newTestEngine(provider).NewFlow()

	_, err := flow.GenerateSpec(context.Background(), featureInput(), models.EmptyResolvedContext(), "")
	var sve *types.SchemaValidationError
	if !errors.As(err, &sve) {
		t.Fatalf("expected SchemaValidationError, got %v", err)
	}
	if flow.State() != StateFailed {
		t.Errorf("state = %s, want %s", flow.State(), StateFailed)
	}
}

func TestGenerateSpecProviderErrorPreserved(t *testing.T) {
	provider := &fakeProvider{err: &types.ProviderError{Provider: "openai", Status: 500, Body: "boom"}}
	flow := newTestEngine(provider).NewFlow()

	_, err := flow.GenerateSpec(context.Background(), featureInput(), models.EmptyResolvedContext(), "")
	var perr *types.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("cause must survive wrapping, got %v", err)
	}
	if perr.Status != 500 {
		t.Fatalf("unexpected ProviderError: %+v", perr)
	}
}

func TestGenerateClarifyingQuestions(t *testing.T) {
	provider := &fakeProvider{content: `{
		"questions": [
			{"question": "How many articles can be saved?", "topic": "limits"}
		],
		"estimated_confidence": 0.55
	}`}
	flow := newTestEngine(provider).NewFlow()

	set, err := flow.GenerateClarifyingQuestions(context.Background(), featureInput(), models.EmptyResolvedContext())
	if err != nil {
		t.Fatalf("GenerateClarifyingQuestions: %v", err)
	}
	if len(set.Questions) != 1 || set.EstimatedConfidence != 0.55 {
		t.Fatalf("unexpected question set: %+v", set)
	}
	if flow.State() != StateClarificationPending {
		t.Errorf("state = %s, want %s", flow.State(), StateClarificationPending)
	}
}

func TestGenerateClarifyingQuestionsEmptySetRejected(t *testing.T) {
	provider := &fakeProvider{content: `{"questions": [], "estimated_confidence": 0.9}`}
	flow := newTestEngine(provider).NewFlow()

	_, err := flow.GenerateClarifyingQuestions(context.Background(), featureInput(), models.EmptyResolvedContext())
	var sve *types.SchemaValidationError
	if !errors.As(err, &sve) {
		t.Fatalf("expected SchemaValidationError, got %v", err)
	}
}

func TestRefineSpecPartialPatch(t *testing.T) {
	provider := &fakeProvider{content: `{"assumptions": ["Users are authenticated"]}`}
	flow := newTestEngine(provider).NewFlow()

	var original models.SpecOutput
	if err := json.Unmarshal([]byte(specJSON(t)), &original); err != nil {
		t.Fatal(err)
	}
	original.Assumptions = []string{"old assumption"}

	answers := []models.ClarificationAnswer{
		{Question: "Who can save?", Answer: "Only signed-in readers."},
	}
	patch, err := flow.RefineSpec(context.Background(), original, answers)
	if err != nil {
		t.Fatalf("RefineSpec: %v", err)
	}
	if patch.IsEmpty() {
		t.Fatal("patch must carry the changed field")
	}

	merged := models.MergeSpec(original, *patch)
	if len(merged.Assumptions) != 1 || merged.Assumptions[0] != "Users are authenticated" {
		t.Fatalf("merge result wrong: %v", merged.Assumptions)
	}
	if merged.Story != original.Story {
		t.Fatal("fields absent from the patch must keep their original value")
	}

	// The refinement prompt must carry both the original spec and answers.
	if !strings.Contains(provider.messages[1].Content, "Only signed-in readers.") {
		t.Error("answers not rendered into the prompt")
	}
	if !strings.Contains(provider.messages[1].Content, original.Story) {
		t.Error("original spec not rendered into the prompt")
	}
}

func TestFlowStateLifecycle(t *testing.T) {
	flow := newTestEngine(&fakeProvider{content: specJSON(t)}).NewFlow()
	if flow.State() != StateIdle {
		t.Fatalf("new flow state = %s, want %s", flow.State(), StateIdle)
	}
	if _, err := flow.GenerateSpec(context.Background(), featureInput(), models.EmptyResolvedContext(), ""); err != nil {
		t.Fatal(err)
	}
	if flow.State() != StateDone {
		t.Fatalf("state = %s, want %s", flow.State(), StateDone)
	}
}
