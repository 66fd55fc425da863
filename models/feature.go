/*
Package models holds the domain models for the specification pipeline:
feature inputs, resolved project contexts, and the structured outputs
produced from model responses.
*/
package models

// FeatureInput is the caller-owned description of one feature to specify.
// It is immutable once submitted for a generation request.
type FeatureInput struct {
	ProjectID   string       `json:"project_id" validate:"required"`
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description" validate:"required"`
	Context     InputContext `json:"context"`
}

// InputContext carries feature-level context hints and overrides. When
// InheritFromProject is set the resolver merges these on top of the
// project's active context; otherwise they are ignored and the project
// context is used verbatim.
type InputContext struct {
	Stakeholders       []string       `json:"stakeholders,omitempty"`
	Constraints        []string       `json:"constraints,omitempty"`
	NonFunctional      []string       `json:"non_functional,omitempty"`
	References         []string       `json:"references,omitempty"`
	InheritFromProject bool           `json:"inherit_from_project"`
	Overrides          map[string]any `json:"overrides,omitempty"`
}
