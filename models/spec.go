package models

// TaskArea is the fixed set of delivery areas a generated task may target.
type TaskArea string

const (
	AreaFrontend TaskArea = "frontend"
	AreaBackend  TaskArea = "backend"
	AreaDatabase TaskArea = "database"
	AreaAPI      TaskArea = "api"
	AreaInfra    TaskArea = "infra"
	AreaTesting  TaskArea = "testing"
	AreaDocs     TaskArea = "docs"
)

// Complexity is the five-point estimation tier.
type Complexity string

const (
	ComplexityTrivial  Complexity = "trivial"
	ComplexityLow      Complexity = "low"
	ComplexityMedium   Complexity = "medium"
	ComplexityHigh     Complexity = "high"
	ComplexityVeryHigh Complexity = "very-high"
)

// Clarification is a single question/topic/rationale triple used to reduce
// specification ambiguity.
type Clarification struct {
	Question  string `json:"question" validate:"required"`
	Topic     string `json:"topic,omitempty"`
	Rationale string `json:"rationale,omitempty"`
}

// ClarificationAnswer pairs a clarifying question with the user's answer.
type ClarificationAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ClarifyingQuestionSet is the transient result of the clarification round.
// It exists only between the ambiguity gate firing and the user answering
// or skipping.
type ClarifyingQuestionSet struct {
	Questions           []Clarification `json:"questions" validate:"required,min=1,dive"`
	EstimatedConfidence float64         `json:"estimated_confidence" validate:"min=0,max=1"`
}

// FunctionalRequirement is one verifiable requirement of the specification.
type FunctionalRequirement struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title" validate:"required"`
	Description        string   `json:"description"`
	Priority           string   `json:"priority" validate:"omitempty,oneof=low medium high"`
	AcceptanceCriteria []string `json:"acceptance_criteria,omitempty"`
}

// SpecTask is one actionable engineering task derived from the requirements.
type SpecTask struct {
	ID          string   `json:"id"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Area        TaskArea `json:"area" validate:"required,oneof=frontend backend database api infra testing docs"`
	Estimate    string   `json:"estimate,omitempty"`
	DependsOn   []string `json:"depends_on,omitempty"`
}

// Estimation summarizes the model's confidence and complexity judgment.
type Estimation struct {
	Confidence float64    `json:"confidence" validate:"min=0,max=1"`
	Complexity Complexity `json:"complexity" validate:"required,oneof=trivial low medium high very-high"`
	Drivers    []string   `json:"drivers,omitempty"`
}

// Risk is one identified delivery risk.
type Risk struct {
	Description string `json:"description" validate:"required"`
	Severity    string `json:"severity" validate:"omitempty,oneof=low medium high"`
	Mitigation  string `json:"mitigation,omitempty"`
}

// SpecOutput is the structured specification produced by one generation
// call. Input and Context echo what the spec was generated from; Summary
// carries any human-readable text the model emitted before its JSON.
type SpecOutput struct {
	// Input and Context are echoed by the pipeline, not produced by the
	// model, so schema validation skips them.
	ID      string          `json:"id"`
	Input   FeatureInput    `json:"input" validate:"-"`
	Context ResolvedContext `json:"context" validate:"-"`
	Summary string          `json:"summary,omitempty"`

	Story                  string                  `json:"story" validate:"required"`
	NeedsClarification     []Clarification         `json:"needs_clarification,omitempty" validate:"omitempty,dive"`
	Assumptions            []string                `json:"assumptions,omitempty"`
	Dependencies           []string                `json:"dependencies,omitempty"`
	EdgeCases              []string                `json:"edge_cases,omitempty"`
	FunctionalRequirements []FunctionalRequirement `json:"functional_requirements" validate:"required,min=1,dive"`
	Tasks                  []SpecTask              `json:"tasks" validate:"required,min=1,dive"`
	Estimation             Estimation              `json:"estimation"`
	Risks                  []Risk                  `json:"risks,omitempty" validate:"omitempty,dive"`
}

// SpecPatch is the partial result of a refinement call: every top-level
// field optional. A present field wholly replaces the original field on
// merge; there is no deep splice.
type SpecPatch struct {
	Story                  *string                  `json:"story,omitempty"`
	NeedsClarification     *[]Clarification         `json:"needs_clarification,omitempty" validate:"omitempty,dive"`
	Assumptions            *[]string                `json:"assumptions,omitempty"`
	Dependencies           *[]string                `json:"dependencies,omitempty"`
	EdgeCases              *[]string                `json:"edge_cases,omitempty"`
	FunctionalRequirements *[]FunctionalRequirement `json:"functional_requirements,omitempty" validate:"omitempty,dive"`
	Tasks                  *[]SpecTask              `json:"tasks,omitempty" validate:"omitempty,dive"`
	Estimation             *Estimation              `json:"estimation,omitempty"`
	Risks                  *[]Risk                  `json:"risks,omitempty" validate:"omitempty,dive"`
}

// IsEmpty reports whether the refinement changed nothing.
func (p SpecPatch) IsEmpty() bool {
	return p.Story == nil && p.NeedsClarification == nil && p.Assumptions == nil &&
		p.Dependencies == nil && p.EdgeCases == nil && p.FunctionalRequirements == nil &&
		p.Tasks == nil && p.Estimation == nil && p.Risks == nil
}

// MergeSpec applies a refinement patch over an original spec with shallow
// top-level replacement: each field present in the patch replaces the
// original field wholesale. The original value is not modified.
func MergeSpec(original SpecOutput, patch SpecPatch) SpecOutput {
	merged := original
	if patch.Story != nil {
		merged.Story = *patch.Story
	}
	if patch.NeedsClarification != nil {
		merged.NeedsClarification = *patch.NeedsClarification
	}
	if patch.Assumptions != nil {
		merged.Assumptions = *patch.Assumptions
	}
	if patch.Dependencies != nil {
		merged.Dependencies = *patch.Dependencies
	}
	if patch.EdgeCases != nil {
		merged.EdgeCases = *patch.EdgeCases
	}
	if patch.FunctionalRequirements != nil {
		merged.FunctionalRequirements = *patch.FunctionalRequirements
	}
	if patch.Tasks != nil {
		merged.Tasks = *patch.Tasks
	}
	if patch.Estimation != nil {
		merged.Estimation = *patch.Estimation
	}
	if patch.Risks != nil {
		merged.Risks = *patch.Risks
	}
	return merged
}
