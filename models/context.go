package models

import "time"

// Stakeholder is one named party with an interest in the project.
type Stakeholder struct {
	Name      string   `json:"name" validate:"required"`
	Role      string   `json:"role"`
	Interests []string `json:"interests"`
}

// PlaceholderRole is assigned to stakeholders introduced by a feature-level
// override list without further detail.
const PlaceholderRole = "unspecified"

// APIEntry describes one API surface the project exposes or consumes.
type APIEntry struct {
	Name        string `json:"name"`
	Endpoint    string `json:"endpoint,omitempty"`
	Description string `json:"description,omitempty"`
}

// DataModelEntry describes one entity of the project's data model.
type DataModelEntry struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Fields      []string `json:"fields,omitempty"`
}

// ResolvedContext is the canonical merged project+feature context passed to
// a model. It is produced fresh per request and never mutated after
// construction; every resolution yields a new value.
type ResolvedContext struct {
	Glossary      map[string]string `json:"glossary"`
	Stakeholders  []Stakeholder     `json:"stakeholders"`
	Constraints   []string          `json:"constraints"`
	NonFunctional []string          `json:"non_functional"`
	APIs          []APIEntry        `json:"apis"`
	DataModels    []DataModelEntry  `json:"data_models"`
	Environments  []string          `json:"environments"`
	Labels        map[string]string `json:"labels"`
}

// EmptyResolvedContext returns the documented default context used for
// projects that have not been configured yet: all collections empty, maps
// allocated so callers never see nil.
func EmptyResolvedContext() ResolvedContext {
	return ResolvedContext{
		Glossary:      map[string]string{},
		Stakeholders:  []Stakeholder{},
		Constraints:   []string{},
		NonFunctional: []string{},
		APIs:          []APIEntry{},
		DataModels:    []DataModelEntry{},
		Environments:  []string{},
		Labels:        map[string]string{},
	}
}

// Clone returns a deep copy so merge steps never alias the stored context.
func (c ResolvedContext) Clone() ResolvedContext {
	out := ResolvedContext{
		Glossary:      make(map[string]string, len(c.Glossary)),
		Stakeholders:  make([]Stakeholder, len(c.Stakeholders)),
		Constraints:   append([]string{}, c.Constraints...),
		NonFunctional: append([]string{}, c.NonFunctional...),
		APIs:          append([]APIEntry{}, c.APIs...),
		DataModels:    make([]DataModelEntry, len(c.DataModels)),
		Environments:  append([]string{}, c.Environments...),
		Labels:        make(map[string]string, len(c.Labels)),
	}
	for k, v := range c.Glossary {
		out.Glossary[k] = v
	}
	for k, v := range c.Labels {
		out.Labels[k] = v
	}
	for i, s := range c.Stakeholders {
		s.Interests = append([]string{}, s.Interests...)
		out.Stakeholders[i] = s
	}
	for i, d := range c.DataModels {
		d.Fields = append([]string{}, d.Fields...)
		out.DataModels[i] = d
	}
	return out
}

// ProjectContextVersion is one append-only revision of a project's default
// context. At most one version per project is active at a time; "update"
// means "create version N+1 and activate it".
type ProjectContextVersion struct {
	ID        string          `json:"id"`
	ProjectID string          `json:"project_id"`
	Context   ResolvedContext `json:"context"`
	Version   int             `json:"version"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}
