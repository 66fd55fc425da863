package llm

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jasonhulbert/specgen/store"
	"github.com/jasonhulbert/specgen/types"
)

// DefaultConfigID names the configuration synthesized for an empty
// store, pointing at a local inference server.
const DefaultConfigID = "local-ollama"

// Manager owns the set of provider configurations and the adapter cache.
// It loads from the store exactly once, regardless of how many
// goroutines race on first use, then serves from memory.
type Manager struct {
	configs store.ConfigStore
	debug   bool

	loadOnce sync.Once
	loadErr  error

	mu       sync.RWMutex
	records  map[string]store.ConfigRecord
	active   string
	adapters map[string]Provider
}

func NewManager(configs store.ConfigStore, debug bool) *Manager {
	return &Manager{
		configs:  configs,
		debug:    debug,
		records:  map[string]store.ConfigRecord{},
		adapters: map[string]Provider{},
	}
}

// ensureLoaded performs the one-time initial load. An empty store gets a
// synthesized local default so first use works without any setup.
func (m *Manager) ensureLoaded() error {
	m.loadOnce.Do(func() {
		m.loadErr = m.reload()
		if m.loadErr != nil {
			return
		}
		m.mu.Lock()
		empty := len(m.records) == 0
		m.mu.Unlock()
		if empty {
			m.loadErr = m.seedDefault()
		}
	})
	return m.loadErr
}

// reload replaces the in-memory view with the store's contents and drops
// every cached adapter.
func (m *Manager) reload() error {
	recs, err := m.configs.ListConfigs()
	if err != nil {
		return fmt.Errorf("load provider configurations: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(map[string]store.ConfigRecord, len(recs))
	m.active = ""
	m.adapters = map[string]Provider{}
	for _, rec := range recs {
		m.records[rec.ID] = rec
		if rec.Active {
			m.active = rec.ID
		}
	}
	return nil
}

func (m *Manager) seedDefault() error {
	rec := store.ConfigRecord{
		ProviderConfig: types.ProviderConfig{
			ID:       DefaultConfigID,
			Kind:     types.KindLocalHTTP,
			Endpoint: defaultOllamaBase,
			Model:    defaultOllamaModel,
		},
		Active: true,
	}
	if err := m.configs.UpsertConfig(rec); err != nil {
		return fmt.Errorf("seed default configuration: %w", err)
	}
	m.mu.Lock()
	m.records[rec.ID] = rec
	m.active = rec.ID
	m.mu.Unlock()
	return nil
}

// List returns all configurations sorted by id.
func (m *Manager) List() ([]store.ConfigRecord, error) {
	if err := m.ensureLoaded(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]store.ConfigRecord, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ActiveID returns the id of the active configuration, or
// types.ErrNoActiveConfiguration.
func (m *Manager) ActiveID() (string, error) {
	if err := m.ensureLoaded(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.active == "" {
		return "", types.ErrNoActiveConfiguration
	}
	return m.active, nil
}

// Active returns the adapter for the active configuration.
func (m *Manager) Active() (Provider, error) {
	id, err := m.ActiveID()
	if err != nil {
		return nil, err
	}
	return m.Provider(id)
}

// Provider returns a cached adapter for the identified configuration,
// constructing it on first use.
func (m *Manager) Provider(id string) (Provider, error) {
	if err := m.ensureLoaded(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	if p, ok := m.adapters[id]; ok {
		m.mu.RUnlock()
		return p, nil
	}
	rec, ok := m.records[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("provider %q: %w", id, types.ErrConfigurationNotFound)
	}

	p, err := NewProvider(rec.ProviderConfig, m.debug)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.adapters[id] = p
	m.mu.Unlock()
	return p, nil
}

// SetActive switches the active configuration, persisting the change so
// exactly one record is active after the write.
func (m *Manager) SetActive(id string) error {
	if err := m.ensureLoaded(); err != nil {
		return err
	}

	m.mu.RLock()
	rec, ok := m.records[id]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("activate %q: %w", id, types.ErrConfigurationNotFound)
	}

	rec.Active = true
	if err := m.configs.UpsertConfig(rec); err != nil {
		return fmt.Errorf("activate %q: %w", id, err)
	}

	m.mu.Lock()
	for rid, r := range m.records {
		r.Active = rid == id
		m.records[rid] = r
	}
	m.active = id
	m.mu.Unlock()
	return nil
}

// AddConfiguration validates and stores a new configuration, optionally
// activating it.
func (m *Manager) AddConfiguration(cfg types.ProviderConfig, makeActive bool) error {
	if err := m.ensureLoaded(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	rec := store.ConfigRecord{ProviderConfig: cfg, Active: makeActive}
	if err := m.configs.UpsertConfig(rec); err != nil {
		return fmt.Errorf("store configuration %q: %w", cfg.ID, err)
	}

	m.mu.Lock()
	if makeActive {
		for rid, r := range m.records {
			r.Active = false
			m.records[rid] = r
		}
		m.active = cfg.ID
	}
	m.records[cfg.ID] = rec
	delete(m.adapters, cfg.ID)
	m.mu.Unlock()
	return nil
}

// RemoveConfiguration deletes a configuration. When the active one is
// removed, the remaining configuration with the smallest id is promoted,
// or none if the store is now empty. The successor is promoted before
// the delete so a concurrent store reader never sees zero active
// configurations while others remain.
func (m *Manager) RemoveConfiguration(id string) error {
	if err := m.ensureLoaded(); err != nil {
		return err
	}

	m.mu.RLock()
	rec, ok := m.records[id]
	var successor string
	if ok && rec.Active {
		for rid := range m.records {
			if rid == id {
				continue
			}
			if successor == "" || rid < successor {
				successor = rid
			}
		}
	}
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("remove configuration %q: %w", id, types.ErrConfigurationNotFound)
	}

	if successor != "" {
		if err := m.SetActive(successor); err != nil {
			return fmt.Errorf("remove configuration %q: promote %q: %w", id, successor, err)
		}
	}

	if err := m.configs.DeleteConfig(id); err != nil {
		return fmt.Errorf("remove configuration %q: %w", id, err)
	}

	m.mu.Lock()
	if m.active == id {
		m.active = ""
	}
	delete(m.records, id)
	delete(m.adapters, id)
	m.mu.Unlock()
	return nil
}

// ValidateAll reports missing required fields per configuration without
// any network calls. An empty map means every configuration is complete.
func (m *Manager) ValidateAll() (map[string][]string, error) {
	if err := m.ensureLoaded(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	problems := map[string][]string{}
	for id, rec := range m.records {
		if missing := rec.MissingFields(); len(missing) > 0 {
			problems[id] = missing
		}
	}
	return problems, nil
}
