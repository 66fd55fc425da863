package models

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jasonhulbert/specgen/types"
)

func validSpec() SpecOutput {
	return SpecOutput{
		ID:    "SPEC-20260101-abc123",
		Story: "As a reader, I want saved articles so that I can return to them later.",
		FunctionalRequirements: []FunctionalRequirement{
			{ID: "FR-20260101-01", Title: "Save article", Priority: "high"},
		},
		Tasks: []SpecTask{
			{ID: "T-20260101-01", Title: "Add save endpoint", Area: AreaBackend},
		},
		Estimation: Estimation{Confidence: 0.8, Complexity: ComplexityMedium},
	}
}

func TestValidateSpec(t *testing.T) {
	s := validSpec()
	if err := ValidateSpec(&s); err != nil {
		t.Fatalf("valid spec rejected: %v", err)
	}
}

func TestValidateSpecViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SpecOutput)
	}{
		{"missing story", func(s *SpecOutput) { s.Story = "" }},
		{"no requirements", func(s *SpecOutput) { s.FunctionalRequirements = nil }},
		{"no tasks", func(s *SpecOutput) { s.Tasks = nil }},
		{"unknown task area", func(s *SpecOutput) { s.Tasks[0].Area = "marketing" }},
		{"confidence out of range", func(s *SpecOutput) { s.Estimation.Confidence = 1.5 }},
		{"unknown complexity tier", func(s *SpecOutput) { s.Estimation.Complexity = "enormous" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSpec()
			tt.mutate(&s)
			err := ValidateSpec(&s)
			if err == nil {
				t.Fatal("expected schema validation error, got nil")
			}
			var sve *types.SchemaValidationError
			if !errors.As(err, &sve) {
				t.Fatalf("expected *types.SchemaValidationError, got %T", err)
			}
			if len(sve.Violations) == 0 {
				t.Fatal("expected at least one violation")
			}
		})
	}
}

func TestValidatePatchSkipsAbsentFields(t *testing.T) {
	p := SpecPatch{}
	if err := ValidatePatch(&p); err != nil {
		t.Fatalf("empty patch should validate: %v", err)
	}
	if !p.IsEmpty() {
		t.Fatal("empty patch should report IsEmpty")
	}

	bad := SpecPatch{Tasks: &[]SpecTask{{Title: "x", Area: "marketing"}}}
	if err := ValidatePatch(&bad); err == nil {
		t.Fatal("present field with bad enum should fail validation")
	}
}

func TestMergeSpecShallowReplace(t *testing.T) {
	original := validSpec()
	original.Assumptions = []string{"a", "b"}
	original.EdgeCases = []string{"offline"}

	patch := SpecPatch{Assumptions: &[]string{"x"}}
	merged := MergeSpec(original, patch)

	if !reflect.DeepEqual(merged.Assumptions, []string{"x"}) {
		t.Fatalf("assumptions not replaced: %v", merged.Assumptions)
	}
	// Every other field stays identical to the original.
	merged.Assumptions = original.Assumptions
	if !reflect.DeepEqual(merged, original) {
		t.Fatal("merge modified fields absent from the patch")
	}
	if !reflect.DeepEqual(original.Assumptions, []string{"a", "b"}) {
		t.Fatal("merge mutated the original")
	}
}

func TestMergeSpecListFieldReplacesWholesale(t *testing.T) {
	original := validSpec()
	patch := SpecPatch{Tasks: &[]SpecTask{
		{ID: "T-2", Title: "Rework schema", Area: AreaDatabase},
	}}
	merged := MergeSpec(original, patch)
	if len(merged.Tasks) != 1 || merged.Tasks[0].ID != "T-2" {
		t.Fatalf("tasks should be replaced, not unioned: %+v", merged.Tasks)
	}
}
