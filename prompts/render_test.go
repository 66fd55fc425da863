package prompts

import (
	"strings"
	"testing"
	"time"
)

var renderClock = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

func TestRenderSimpleVariables(t *testing.T) {
	out := RenderAt("mode={{mode}} n={{count}}", map[string]any{"mode": "standard", "count": 3}, renderClock)
	if out != "mode=standard n=3" {
		t.Fatalf("unexpected render: %q", out)
	}
}

func TestRenderJSONStringify(t *testing.T) {
	out := RenderAt("ctx: {{JSON.stringify(ctx)}}", map[string]any{
		"ctx": map[string]string{"env": "prod"},
	}, renderClock)
	if !strings.Contains(out, "\"env\": \"prod\"") {
		t.Fatalf("expected pretty-printed JSON, got %q", out)
	}
}

func TestRenderComputedDateVariables(t *testing.T) {
	out := RenderAt("id={{today_id}} date={{today_date}}", nil, renderClock)
	if out != "id=20260824 date=2026-08-24" {
		t.Fatalf("unexpected date render: %q", out)
	}
}

func TestRenderUnknownVariablesStayLiteral(t *testing.T) {
	// Callers rely on partial rendering during validation, so unknown
	// placeholders must survive untouched.
	tpl := "known={{mode}} unknown={{missing}} blob={{JSON.stringify(absent)}}"
	out := RenderAt(tpl, map[string]any{"mode": "detailed"}, renderClock)
	want := "known=detailed unknown={{missing}} blob={{JSON.stringify(absent)}}"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestRenderWhitespaceTolerant(t *testing.T) {
	out := RenderAt("{{ mode }} / {{ JSON.stringify( v ) }}", map[string]any{"mode": "standard", "v": 1}, renderClock)
	if out != "standard / 1" {
		t.Fatalf("unexpected render: %q", out)
	}
}

func TestDefaultTemplatesRenderTheirVariables(t *testing.T) {
	vars := map[string]any{
		"mode":     "standard",
		"context":  map[string]any{"glossary": map[string]string{}},
		"input":    map[string]any{"title": "x"},
		"original": map[string]any{"story": "s"},
		"answers":  []map[string]string{{"question": "q", "answer": "a"}},
	}
	for _, tpl := range []string{SpecGenerationPrompt, ClarifyingQuestionsPrompt, RefineSpecPrompt} {
		out := RenderAt(tpl, vars, renderClock)
		for _, leftover := range []string{"{{JSON.stringify(context)}}", "{{JSON.stringify(input)}}", "{{JSON.stringify(original)}}", "{{JSON.stringify(answers)}}", "{{mode}}", "{{today_id}}"} {
			if strings.Contains(out, leftover) {
				t.Fatalf("template left %s unrendered", leftover)
			}
		}
	}
}
