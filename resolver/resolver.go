/*
Package resolver produces the context a generation request runs under:
the project's active context, optionally merged with feature-level
additions and overrides. Resolution is read-only; saving a context is an
explicit, versioned operation.
*/
package resolver

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jasonhulbert/specgen/models"
	"github.com/jasonhulbert/specgen/store"
	"github.com/jasonhulbert/specgen/types"
)

// Resolver reads project contexts from the context store and applies the
// documented precedence rules.
type Resolver struct {
	contexts store.ContextStore
}

func New(contexts store.ContextStore) *Resolver {
	return &Resolver{contexts: contexts}
}

// Resolve returns the effective context for a request. Projects without
// a stored context get the empty default. When input is nil or does not
// opt into inheritance, the project context is returned verbatim;
// otherwise feature-level hints merge on top, and explicit overrides win
// last.
func (r *Resolver) Resolve(projectID string, input *models.InputContext) (models.ResolvedContext, error) {
	base := models.EmptyResolvedContext()
	if active, err := r.contexts.GetActiveContext(projectID); err == nil {
		base = active.Context.Clone()
	} else if !errors.Is(err, types.ErrContextNotFound) {
		return models.ResolvedContext{}, fmt.Errorf("load active context: %w", err)
	}

	if input == nil || !input.InheritFromProject {
		return base, nil
	}

	mergeStakeholderNames(&base, input.Stakeholders)
	base.Constraints = unionOrdered(base.Constraints, input.Constraints)
	base.NonFunctional = unionOrdered(base.NonFunctional, input.NonFunctional)

	if len(input.Overrides) > 0 {
		merged, err := applyOverrides(base, input.Overrides)
		if err != nil {
			return models.ResolvedContext{}, err
		}
		base = merged
	}
	return base, nil
}

// SaveVersion appends a new context version for the project and makes it
// the active one.
func (r *Resolver) SaveVersion(projectID string, ctx models.ResolvedContext) (models.ProjectContextVersion, error) {
	return r.contexts.CreateVersion(projectID, ctx, true)
}

// mergeStakeholderNames appends feature-level stakeholder names that are
// not already present, with the placeholder role. Existing entries keep
// their detail.
func mergeStakeholderNames(ctx *models.ResolvedContext, names []string) {
	known := make(map[string]bool, len(ctx.Stakeholders))
	for _, s := range ctx.Stakeholders {
		known[s.Name] = true
	}
	for _, name := range names {
		if name == "" || known[name] {
			continue
		}
		known[name] = true
		ctx.Stakeholders = append(ctx.Stakeholders, models.Stakeholder{
			Name: name,
			Role: models.PlaceholderRole,
		})
	}
}

// unionOrdered appends items from add that base does not already contain,
// preserving base order first and add order second.
func unionOrdered(base, add []string) []string {
	seen := make(map[string]bool, len(base))
	for _, s := range base {
		seen[s] = true
	}
	out := base
	for _, s := range add {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// applyOverrides deep-merges the override map onto the context through
// its JSON representation: nested maps merge recursively, arrays replace
// wholesale, scalars replace.
func applyOverrides(ctx models.ResolvedContext, overrides map[string]any) (models.ResolvedContext, error) {
	raw, err := json.Marshal(ctx)
	if err != nil {
		return models.ResolvedContext{}, fmt.Errorf("marshal context for override merge: %w", err)
	}
	var asMap map[string]any
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return models.ResolvedContext{}, fmt.Errorf("unmarshal context for override merge: %w", err)
	}

	deepMerge(asMap, overrides)

	merged, err := json.Marshal(asMap)
	if err != nil {
		return models.ResolvedContext{}, fmt.Errorf("marshal merged context: %w", err)
	}
	var out models.ResolvedContext
	if err := json.Unmarshal(merged, &out); err != nil {
		return models.ResolvedContext{}, fmt.Errorf("overrides do not fit the context shape: %w", err)
	}
	return out, nil
}

func deepMerge(dst map[string]any, src map[string]any) {
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]any)
		dstMap, dstIsMap := dst[k].(map[string]any)
		if srcIsMap && dstIsMap {
			deepMerge(dstMap, srcMap)
			continue
		}
		dst[k] = v
	}
}
