package resolver

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jasonhulbert/specgen/models"
	"github.com/jasonhulbert/specgen/store"
)

func newResolver(t *testing.T) (*Resolver, store.ContextStore) {
	t.Helper()
	cs, err := store.NewFileContextStore(filepath.Join(t.TempDir(), "contexts.json"), "json")
	if err != nil {
		t.Fatalf("NewFileContextStore: %v", err)
	}
	return New(cs), cs
}

func projectContext() models.ResolvedContext {
	ctx := models.EmptyResolvedContext()
	ctx.Glossary = map[string]string{"SLA": "service level agreement"}
	ctx.Stakeholders = []models.Stakeholder{
		{Name: "Alice", Role: "product", Interests: []string{"roadmap"}},
	}
	ctx.Constraints = []string{"PostgreSQL 15", "Go services only"}
	ctx.NonFunctional = []string{"p99 < 200ms"}
	ctx.Labels = map[string]string{"team": "platform", "tier": "1"}
	return ctx
}

func TestResolveUnknownProjectGetsEmptyDefault(t *testing.T) {
	r, _ := newResolver(t)
	got, err := r.Resolve("ghost", nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !reflect.DeepEqual(got, models.EmptyResolvedContext()) {
		t.Fatalf("expected empty default context, got %+v", got)
	}
	if got.Glossary == nil || got.Labels == nil {
		t.Fatal("default context maps must be allocated")
	}
}

func TestResolveWithoutInheritanceIsVerbatim(t *testing.T) {
	r, cs := newResolver(t)
	if _, err := cs.CreateVersion("p1", projectContext(), true); err != nil {
		t.Fatal(err)
	}

	in := &models.InputContext{
		Stakeholders:       []string{"Bob"},
		Constraints:        []string{"Kubernetes"},
		InheritFromProject: false,
	}
	got, err := r.Resolve("p1", in)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !reflect.DeepEqual(got, projectContext()) {
		t.Fatalf("feature hints must be ignored without inheritance, got %+v", got)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	r, cs := newResolver(t)
	if _, err := cs.CreateVersion("p1", projectContext(), true); err != nil {
		t.Fatal(err)
	}
	in := &models.InputContext{
		Stakeholders:       []string{"Bob"},
		Constraints:        []string{"Kubernetes"},
		InheritFromProject: true,
	}
	first, err := r.Resolve("p1", in)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Resolve("p1", in)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("resolution must not mutate the stored context")
	}
}

func TestResolveStakeholderMerge(t *testing.T) {
	r, cs := newResolver(t)
	if _, err := cs.CreateVersion("p1", projectContext(), true); err != nil {
		t.Fatal(err)
	}
	in := &models.InputContext{
		Stakeholders:       []string{"Alice", "Bob"},
		InheritFromProject: true,
	}
	got, err := r.Resolve("p1", in)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Stakeholders) != 2 {
		t.Fatalf("expected 2 stakeholders, got %+v", got.Stakeholders)
	}
	// Alice keeps her stored detail; Bob arrives with the placeholder role.
	if got.Stakeholders[0].Name != "Alice" || got.Stakeholders[0].Role != "product" {
		t.Fatalf("existing stakeholder must keep detail: %+v", got.Stakeholders[0])
	}
	if got.Stakeholders[1].Name != "Bob" || got.Stakeholders[1].Role != models.PlaceholderRole {
		t.Fatalf("new stakeholder must get placeholder role: %+v", got.Stakeholders[1])
	}
}

func TestResolveConstraintUnionDeduplicates(t *testing.T) {
	r, cs := newResolver(t)
	if _, err := cs.CreateVersion("p1", projectContext(), true); err != nil {
		t.Fatal(err)
	}
	in := &models.InputContext{
		Constraints:        []string{"Go services only", "Kubernetes"},
		NonFunctional:      []string{"p99 < 200ms", "99.9% uptime"},
		InheritFromProject: true,
	}
	got, err := r.Resolve("p1", in)
	if err != nil {
		t.Fatal(err)
	}
	wantConstraints := []string{"PostgreSQL 15", "Go services only", "Kubernetes"}
	if !reflect.DeepEqual(got.Constraints, wantConstraints) {
		t.Fatalf("constraints = %v, want %v", got.Constraints, wantConstraints)
	}
	wantNFR := []string{"p99 < 200ms", "99.9% uptime"}
	if !reflect.DeepEqual(got.NonFunctional, wantNFR) {
		t.Fatalf("non-functional = %v, want %v", got.NonFunctional, wantNFR)
	}
}

func TestResolveOverrides(t *testing.T) {
	r, cs := newResolver(t)
	if _, err := cs.CreateVersion("p1", projectContext(), true); err != nil {
		t.Fatal(err)
	}
	in := &models.InputContext{
		InheritFromProject: true,
		Overrides: map[string]any{
			// Nested maps merge key by key.
			"labels": map[string]any{"tier": "2"},
			// Arrays replace wholesale.
			"environments": []any{"staging", "prod"},
		},
	}
	got, err := r.Resolve("p1", in)
	if err != nil {
		t.Fatal(err)
	}
	if got.Labels["tier"] != "2" || got.Labels["team"] != "platform" {
		t.Fatalf("labels merge wrong: %v", got.Labels)
	}
	if !reflect.DeepEqual(got.Environments, []string{"staging", "prod"}) {
		t.Fatalf("environments = %v, want wholesale replacement", got.Environments)
	}
	if got.Glossary["SLA"] == "" {
		t.Fatal("untouched fields must survive the override merge")
	}
}

func TestSaveVersionActivates(t *testing.T) {
	r, cs := newResolver(t)
	if _, err := r.SaveVersion("p1", projectContext()); err != nil {
		t.Fatal(err)
	}
	updated := projectContext()
	updated.Constraints = append(updated.Constraints, "Terraform")
	v2, err := r.SaveVersion("p1", updated)
	if err != nil {
		t.Fatal(err)
	}
	if v2.Version != 2 || !v2.IsActive {
		t.Fatalf("expected active version 2, got %+v", v2)
	}

	active, err := cs.GetActiveContext("p1")
	if err != nil {
		t.Fatal(err)
	}
	if active.Version != 2 {
		t.Fatalf("store must report version 2 active, got %d", active.Version)
	}
}

func TestHistoryDiffs(t *testing.T) {
	r, _ := newResolver(t)
	if _, err := r.SaveVersion("p1", projectContext()); err != nil {
		t.Fatal(err)
	}
	updated := projectContext()
	updated.Constraints = append(updated.Constraints, "Terraform")
	updated.Labels["tier"] = "2"
	if _, err := r.SaveVersion("p1", updated); err != nil {
		t.Fatal(err)
	}

	entries, err := r.History("p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(entries))
	}
	if len(entries[0].Changes) != 0 {
		t.Fatalf("first version must carry no diff, got %+v", entries[0].Changes)
	}

	changed := map[string]bool{}
	for _, d := range entries[1].Changes {
		changed[d.Field] = true
		if len(d.Before) == 0 || len(d.After) == 0 {
			t.Fatalf("diff sides must be populated: %+v", d)
		}
	}
	if !changed["constraints"] || !changed["labels"] {
		t.Fatalf("expected constraints and labels diffs, got %v", changed)
	}
	if changed["glossary"] {
		t.Fatal("unchanged fields must not appear in the diff")
	}
}
