package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jasonhulbert/specgen/models"
	"github.com/jasonhulbert/specgen/types"
)

func newConfigStore(t *testing.T, format string) *FileConfigStore {
	t.Helper()
	s, err := NewFileConfigStore(filepath.Join(t.TempDir(), "providers."+format), format)
	if err != nil {
		t.Fatalf("NewFileConfigStore: %v", err)
	}
	return s
}

func record(id string, active bool) ConfigRecord {
	return ConfigRecord{
		ProviderConfig: types.ProviderConfig{
			ID:       id,
			Kind:     types.KindOpenAICompatible,
			Model:    "gpt-4o-mini",
			APIKey:   "sk-test",
			Endpoint: "https://api.openai.com/v1",
		},
		Active: active,
	}
}

func TestConfigStoreRoundTrip(t *testing.T) {
	for _, format := range []string{"json", "yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			s := newConfigStore(t, format)

			if err := s.UpsertConfig(record("openai", true)); err != nil {
				t.Fatalf("UpsertConfig: %v", err)
			}
			got, err := s.GetConfig("openai")
			if err != nil {
				t.Fatalf("GetConfig: %v", err)
			}
			if got.Kind != types.KindOpenAICompatible || got.Model != "gpt-4o-mini" || !got.Active {
				t.Fatalf("unexpected record: %+v", got)
			}
			if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
				t.Fatal("timestamps must be set on upsert")
			}
		})
	}
}

func TestConfigStoreGetUnknown(t *testing.T) {
	s := newConfigStore(t, "json")
	if _, err := s.GetConfig("missing"); !errors.Is(err, types.ErrConfigurationNotFound) {
		t.Fatalf("expected ErrConfigurationNotFound, got %v", err)
	}
}

func TestConfigStoreActiveExclusivity(t *testing.T) {
	s := newConfigStore(t, "json")
	if err := s.UpsertConfig(record("a", true)); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertConfig(record("b", true)); err != nil {
		t.Fatal(err)
	}

	recs, err := s.ListConfigs()
	if err != nil {
		t.Fatal(err)
	}
	activeCount := 0
	for _, r := range recs {
		if r.Active {
			activeCount++
			if r.ID != "b" {
				t.Fatalf("expected b active, got %s", r.ID)
			}
		}
	}
	if activeCount != 1 {
		t.Fatalf("expected exactly one active config, got %d", activeCount)
	}
}

func TestConfigStoreUpsertPreservesCreatedAt(t *testing.T) {
	s := newConfigStore(t, "json")
	if err := s.UpsertConfig(record("a", false)); err != nil {
		t.Fatal(err)
	}
	first, err := s.GetConfig("a")
	if err != nil {
		t.Fatal(err)
	}

	updated := record("a", false)
	updated.Model = "gpt-4o"
	if err := s.UpsertConfig(updated); err != nil {
		t.Fatal(err)
	}
	second, err := s.GetConfig("a")
	if err != nil {
		t.Fatal(err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatal("CreatedAt must survive replacement")
	}
	if second.Model != "gpt-4o" {
		t.Fatalf("expected updated model, got %s", second.Model)
	}
}

func TestConfigStoreDelete(t *testing.T) {
	s := newConfigStore(t, "json")
	if err := s.UpsertConfig(record("a", false)); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteConfig("a"); err != nil {
		t.Fatalf("DeleteConfig: %v", err)
	}
	if err := s.DeleteConfig("a"); !errors.Is(err, types.ErrConfigurationNotFound) {
		t.Fatalf("expected ErrConfigurationNotFound, got %v", err)
	}
}

func TestConfigStoreChecksumMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "providers.json")
	s, err := NewFileConfigStore(path, "json")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertConfig(record("a", false)); err != nil {
		t.Fatal(err)
	}

	// Tamper with the data file behind the store's back.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.ListConfigs(); err == nil {
		t.Fatal("expected checksum mismatch error")
	}
}

func newContextStore(t *testing.T) *FileContextStore {
	t.Helper()
	s, err := NewFileContextStore(filepath.Join(t.TempDir(), "contexts.json"), "json")
	if err != nil {
		t.Fatalf("NewFileContextStore: %v", err)
	}
	return s
}

func sampleContext(constraint string) models.ResolvedContext {
	ctx := models.EmptyResolvedContext()
	ctx.Constraints = []string{constraint}
	return ctx
}

func TestContextStoreVersionNumbering(t *testing.T) {
	s := newContextStore(t)

	v1, err := s.CreateVersion("p1", sampleContext("one"), true)
	if err != nil {
		t.Fatal(err)
	}
	v2, err := s.CreateVersion("p1", sampleContext("two"), true)
	if err != nil {
		t.Fatal(err)
	}
	other, err := s.CreateVersion("p2", sampleContext("other"), true)
	if err != nil {
		t.Fatal(err)
	}

	if v1.Version != 1 || v2.Version != 2 {
		t.Fatalf("version numbering wrong: %d, %d", v1.Version, v2.Version)
	}
	if other.Version != 1 {
		t.Fatalf("numbering must be per project, got %d", other.Version)
	}
	if v1.ID == v2.ID {
		t.Fatal("version ids must be unique")
	}
}

func TestContextStoreSingleActivePerProject(t *testing.T) {
	s := newContextStore(t)
	v1, err := s.CreateVersion("p1", sampleContext("one"), true)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateVersion("p1", sampleContext("two"), true); err != nil {
		t.Fatal(err)
	}

	active, err := s.GetActiveContext("p1")
	if err != nil {
		t.Fatal(err)
	}
	if active.Version != 2 {
		t.Fatalf("expected version 2 active, got %d", active.Version)
	}

	if err := s.ActivateVersion(v1.ID); err != nil {
		t.Fatal(err)
	}
	active, err = s.GetActiveContext("p1")
	if err != nil {
		t.Fatal(err)
	}
	if active.Version != 1 {
		t.Fatalf("expected version 1 active after activation, got %d", active.Version)
	}

	versions, err := s.ListVersions("p1")
	if err != nil {
		t.Fatal(err)
	}
	activeCount := 0
	for _, v := range versions {
		if v.IsActive {
			activeCount++
		}
	}
	if activeCount != 1 {
		t.Fatalf("expected exactly one active version, got %d", activeCount)
	}
}

func TestContextStoreCreateWithoutActivate(t *testing.T) {
	s := newContextStore(t)
	if _, err := s.CreateVersion("p1", sampleContext("one"), true); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateVersion("p1", sampleContext("two"), false); err != nil {
		t.Fatal(err)
	}

	active, err := s.GetActiveContext("p1")
	if err != nil {
		t.Fatal(err)
	}
	if active.Version != 1 {
		t.Fatalf("inactive create must not steal activation, active is %d", active.Version)
	}
}

func TestContextStoreNotFound(t *testing.T) {
	s := newContextStore(t)
	if _, err := s.GetActiveContext("nope"); !errors.Is(err, types.ErrContextNotFound) {
		t.Fatalf("expected ErrContextNotFound, got %v", err)
	}
	if err := s.ActivateVersion("nope"); !errors.Is(err, types.ErrContextNotFound) {
		t.Fatalf("expected ErrContextNotFound, got %v", err)
	}
}

func TestContextStoreListVersionsAscending(t *testing.T) {
	s := newContextStore(t)
	for _, c := range []string{"one", "two", "three"} {
		if _, err := s.CreateVersion("p1", sampleContext(c), false); err != nil {
			t.Fatal(err)
		}
	}
	versions, err := s.ListVersions("p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(versions) != 3 {
		t.Fatalf("expected 3 versions, got %d", len(versions))
	}
	for i, v := range versions {
		if v.Version != i+1 {
			t.Fatalf("versions out of order: %+v", versions)
		}
	}
}
