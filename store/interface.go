/*
Package store provides the two external collaborator stores of the
pipeline: the Configuration Store (provider configurations) and the
Context Store (versioned project contexts). Both are simple record
stores backed by a single data file with inter-process locking.
*/
package store

import (
	"time"

	"github.com/jasonhulbert/specgen/models"
	"github.com/jasonhulbert/specgen/types"
)

// ConfigRecord is one stored provider configuration plus its lifecycle
// metadata. Exactly one record is active at a time (or none).
type ConfigRecord struct {
	types.ProviderConfig `yaml:",inline"`
	Active               bool      `json:"active" yaml:"active" toml:"active"`
	CreatedAt            time.Time `json:"created_at" yaml:"created_at" toml:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" yaml:"updated_at" toml:"updated_at"`
}

// ConfigStore defines the Configuration Store collaborator contract.
type ConfigStore interface {
	// ListConfigs returns all stored configurations.
	ListConfigs() ([]ConfigRecord, error)

	// GetConfig retrieves one configuration by id. It returns
	// types.ErrConfigurationNotFound when the id is unknown.
	GetConfig(id string) (ConfigRecord, error)

	// UpsertConfig creates or replaces the record with the given id.
	// When the record is marked active, all other records are deactivated
	// in the same write so a concurrent reader never observes two active
	// configurations.
	UpsertConfig(rec ConfigRecord) error

	// DeleteConfig removes a configuration by id. It returns
	// types.ErrConfigurationNotFound when the id is unknown.
	DeleteConfig(id string) error
}

// ContextStore defines the Context Store collaborator contract. Versions
// are append-only and never edited in place.
type ContextStore interface {
	// GetActiveContext returns the active version for a project, or
	// types.ErrContextNotFound when the project has none.
	GetActiveContext(projectID string) (*models.ProjectContextVersion, error)

	// ListVersions returns a project's versions ordered by version number
	// ascending.
	ListVersions(projectID string) ([]models.ProjectContextVersion, error)

	// CreateVersion appends a new version numbered (max existing)+1, or 1
	// if none exist. When activate is set, all other versions of the
	// project are deactivated in the same write.
	CreateVersion(projectID string, ctx models.ResolvedContext, activate bool) (models.ProjectContextVersion, error)

	// ActivateVersion makes the identified version the only active one for
	// its project. It returns types.ErrContextNotFound for unknown ids.
	ActivateVersion(id string) error
}
