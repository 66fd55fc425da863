package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/jasonhulbert/specgen/models"
	"github.com/jasonhulbert/specgen/types"
)

// FileContextStore persists versioned project contexts in a single data
// file, guarded by an inter-process lock. Versions are append-only.
type FileContextStore struct {
	file *dataFile
}

type contextFileData struct {
	Versions []models.ProjectContextVersion `json:"versions" yaml:"versions" toml:"versions"`
}

// NewFileContextStore opens (or lazily creates) the context store at
// path, using the given serialization format (json, yaml or toml).
func NewFileContextStore(path, format string) (*FileContextStore, error) {
	file, err := newDataFile(path, format)
	if err != nil {
		return nil, err
	}
	return &FileContextStore{file: file}, nil
}

func (s *FileContextStore) GetActiveContext(projectID string) (*models.ProjectContextVersion, error) {
	var out *models.ProjectContextVersion
	err := s.file.withLock(func() error {
		var data contextFileData
		if err := s.file.load(&data); err != nil {
			return err
		}
		for i := range data.Versions {
			v := &data.Versions[i]
			if v.ProjectID == projectID && v.IsActive {
				cp := *v
				cp.Context = v.Context.Clone()
				out = &cp
				return nil
			}
		}
		return types.ErrContextNotFound
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FileContextStore) ListVersions(projectID string) ([]models.ProjectContextVersion, error) {
	var out []models.ProjectContextVersion
	err := s.file.withLock(func() error {
		var data contextFileData
		if err := s.file.load(&data); err != nil {
			return err
		}
		for _, v := range data.Versions {
			if v.ProjectID == projectID {
				out = append(out, v)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Versions are appended in numbering order, but sort defensively on
	// the invariant callers rely on: ascending version numbers.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Version > out[j].Version; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out, nil
}

func (s *FileContextStore) CreateVersion(projectID string, ctx models.ResolvedContext, activate bool) (models.ProjectContextVersion, error) {
	var created models.ProjectContextVersion
	err := s.file.withLock(func() error {
		var data contextFileData
		if err := s.file.load(&data); err != nil {
			return err
		}

		maxVersion := 0
		for _, v := range data.Versions {
			if v.ProjectID == projectID && v.Version > maxVersion {
				maxVersion = v.Version
			}
		}

		created = models.ProjectContextVersion{
			ID:        uuid.New().String(),
			ProjectID: projectID,
			Context:   ctx.Clone(),
			Version:   maxVersion + 1,
			IsActive:  activate,
			CreatedAt: time.Now().UTC(),
		}

		if activate {
			for i := range data.Versions {
				if data.Versions[i].ProjectID == projectID {
					data.Versions[i].IsActive = false
				}
			}
		}
		data.Versions = append(data.Versions, created)
		return s.file.save(&data)
	})
	if err != nil {
		return models.ProjectContextVersion{}, err
	}
	return created, nil
}

func (s *FileContextStore) ActivateVersion(id string) error {
	return s.file.withLock(func() error {
		var data contextFileData
		if err := s.file.load(&data); err != nil {
			return err
		}
		var target *models.ProjectContextVersion
		for i := range data.Versions {
			if data.Versions[i].ID == id {
				target = &data.Versions[i]
				break
			}
		}
		if target == nil {
			return types.ErrContextNotFound
		}
		for i := range data.Versions {
			if data.Versions[i].ProjectID == target.ProjectID {
				data.Versions[i].IsActive = false
			}
		}
		target.IsActive = true
		return s.file.save(&data)
	})
}
