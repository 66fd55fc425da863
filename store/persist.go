package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	yaml "gopkg.in/yaml.v3"
)

const (
	formatJSON     = "json"
	formatYAML     = "yaml"
	formatTOML     = "toml"
	checksumSuffix = ".checksum"
	lockSuffix     = ".lock"
)

// dataFile handles the shared persistence mechanics of both stores:
// format-aware (de)serialization, inter-process file locking, a sha256
// checksum sidecar to detect out-of-band corruption, and atomic writes
// via a temp file rename.
type dataFile struct {
	path   string
	format string
	flk    *flock.Flock
}

func newDataFile(path, format string) (*dataFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = formatJSON
	}
	switch format {
	case formatJSON, formatYAML, formatTOML:
	default:
		return nil, fmt.Errorf("unsupported data format: %s (supported: json, yaml, toml)", format)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory for %s: %w", path, err)
	}
	return &dataFile{
		path:   path,
		format: format,
		flk:    flock.New(path + lockSuffix),
	}, nil
}

// withLock runs fn while holding the exclusive inter-process lock.
func (d *dataFile) withLock(fn func() error) error {
	if err := d.flk.Lock(); err != nil {
		return fmt.Errorf("failed to lock %s: %w", d.path, err)
	}
	defer func() { _ = d.flk.Unlock() }()
	return fn()
}

// load reads and unmarshals the data file into v. A missing file is not
// an error; v keeps its zero value.
func (d *dataFile) load(v any) error {
	raw, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", d.path, err)
	}

	if sum, err := os.ReadFile(d.path + checksumSuffix); err == nil {
		want := strings.TrimSpace(string(sum))
		got := checksum(raw)
		if want != "" && want != got {
			return fmt.Errorf("checksum mismatch for %s: data file was modified outside the store", d.path)
		}
	}

	switch d.format {
	case formatJSON:
		err = json.Unmarshal(raw, v)
	case formatYAML:
		err = yaml.Unmarshal(raw, v)
	case formatTOML:
		err = toml.Unmarshal(raw, v)
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s as %s: %w", d.path, d.format, err)
	}
	return nil
}

// save marshals v and atomically replaces the data file, then refreshes
// the checksum sidecar.
func (d *dataFile) save(v any) error {
	var (
		raw []byte
		err error
	)
	switch d.format {
	case formatJSON:
		raw, err = json.MarshalIndent(v, "", "  ")
	case formatYAML:
		raw, err = yaml.Marshal(v)
	case formatTOML:
		var sb strings.Builder
		if encErr := toml.NewEncoder(&sb).Encode(v); encErr != nil {
			err = encErr
		} else {
			raw = []byte(sb.String())
		}
	}
	if err != nil {
		return fmt.Errorf("failed to marshal %s data: %w", d.format, err)
	}

	tmp := d.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, d.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", d.path, err)
	}
	if err := os.WriteFile(d.path+checksumSuffix, []byte(checksum(raw)), 0o644); err != nil {
		return fmt.Errorf("failed to write checksum for %s: %w", d.path, err)
	}
	return nil
}

func checksum(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
