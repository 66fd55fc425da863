package store

import (
	"time"

	"github.com/jasonhulbert/specgen/types"
)

// FileConfigStore persists provider configurations in a single data
// file, guarded by an inter-process lock.
type FileConfigStore struct {
	file *dataFile
}

// configFileData is the on-disk shape of the configuration store.
type configFileData struct {
	Configs []ConfigRecord `json:"configs" yaml:"configs" toml:"configs"`
}

// NewFileConfigStore opens (or lazily creates) the configuration store
// at path, using the given serialization format (json, yaml or toml).
func NewFileConfigStore(path, format string) (*FileConfigStore, error) {
	file, err := newDataFile(path, format)
	if err != nil {
		return nil, err
	}
	return &FileConfigStore{file: file}, nil
}

func (s *FileConfigStore) ListConfigs() ([]ConfigRecord, error) {
	var data configFileData
	err := s.file.withLock(func() error {
		return s.file.load(&data)
	})
	if err != nil {
		return nil, err
	}
	return data.Configs, nil
}

func (s *FileConfigStore) GetConfig(id string) (ConfigRecord, error) {
	var out ConfigRecord
	err := s.file.withLock(func() error {
		var data configFileData
		if err := s.file.load(&data); err != nil {
			return err
		}
		for _, rec := range data.Configs {
			if rec.ID == id {
				out = rec
				return nil
			}
		}
		return types.ErrConfigurationNotFound
	})
	return out, err
}

func (s *FileConfigStore) UpsertConfig(rec ConfigRecord) error {
	return s.file.withLock(func() error {
		var data configFileData
		if err := s.file.load(&data); err != nil {
			return err
		}

		now := time.Now().UTC()
		rec.UpdatedAt = now

		replaced := false
		for i := range data.Configs {
			if data.Configs[i].ID == rec.ID {
				rec.CreatedAt = data.Configs[i].CreatedAt
				data.Configs[i] = rec
				replaced = true
				break
			}
		}
		if !replaced {
			rec.CreatedAt = now
			data.Configs = append(data.Configs, rec)
		}

		// Active exclusivity is enforced inside the same write, so a
		// reader never sees two active configurations.
		if rec.Active {
			for i := range data.Configs {
				if data.Configs[i].ID != rec.ID {
					data.Configs[i].Active = false
				}
			}
		}

		return s.file.save(&data)
	})
}

func (s *FileConfigStore) DeleteConfig(id string) error {
	return s.file.withLock(func() error {
		var data configFileData
		if err := s.file.load(&data); err != nil {
			return err
		}
		kept := data.Configs[:0]
		found := false
		for _, rec := range data.Configs {
			if rec.ID == id {
				found = true
				continue
			}
			kept = append(kept, rec)
		}
		if !found {
			return types.ErrConfigurationNotFound
		}
		data.Configs = kept
		return s.file.save(&data)
	})
}
