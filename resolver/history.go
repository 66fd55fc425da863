package resolver

import (
	"encoding/json"
	"fmt"

	"github.com/jasonhulbert/specgen/models"
)

// FieldDiff records one top-level context field that changed between two
// consecutive versions, with both sides as raw JSON for display.
type FieldDiff struct {
	Field  string          `json:"field"`
	Before json.RawMessage `json:"before"`
	After  json.RawMessage `json:"after"`
}

// VersionEntry is one history row: a stored version plus the diff against
// its predecessor. The first version carries no diff.
type VersionEntry struct {
	Version models.ProjectContextVersion `json:"version"`
	Changes []FieldDiff                  `json:"changes,omitempty"`
}

// History returns all versions of a project in ascending order, each
// annotated with the top-level fields it changed relative to the version
// before it.
func (r *Resolver) History(projectID string) ([]VersionEntry, error) {
	versions, err := r.contexts.ListVersions(projectID)
	if err != nil {
		return nil, fmt.Errorf("list context versions: %w", err)
	}

	entries := make([]VersionEntry, 0, len(versions))
	for i, v := range versions {
		entry := VersionEntry{Version: v}
		if i > 0 {
			changes, err := diffContexts(versions[i-1].Context, v.Context)
			if err != nil {
				return nil, err
			}
			entry.Changes = changes
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func diffContexts(before, after models.ResolvedContext) ([]FieldDiff, error) {
	beforeMap, err := contextToMap(before)
	if err != nil {
		return nil, err
	}
	afterMap, err := contextToMap(after)
	if err != nil {
		return nil, err
	}

	// Iterate the canonical field order rather than map order so diff
	// output is stable.
	fields := []string{
		"glossary", "stakeholders", "constraints", "non_functional",
		"apis", "data_models", "environments", "labels",
	}
	var diffs []FieldDiff
	for _, f := range fields {
		if string(beforeMap[f]) == string(afterMap[f]) {
			continue
		}
		diffs = append(diffs, FieldDiff{Field: f, Before: beforeMap[f], After: afterMap[f]})
	}
	return diffs, nil
}

func contextToMap(ctx models.ResolvedContext) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(ctx)
	if err != nil {
		return nil, fmt.Errorf("marshal context for diff: %w", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("unmarshal context for diff: %w", err)
	}
	return m, nil
}
