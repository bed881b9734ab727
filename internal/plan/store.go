// Package plan keeps a history of rendered plans per project.
package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/faize-ai/archbox/internal/config"
)

// ErrNotFound is returned when no record matches an id or project
var ErrNotFound = errors.New("plan record not found")

// Store manages record persistence at ~/.archbox/plans/
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating it if needed
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create plans directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// NewDefaultStore creates a store under the archbox config directory
func NewDefaultStore() (*Store, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}
	return NewStore(filepath.Join(dir, "plans"))
}

// Save persists a record to disk
func (s *Store) Save(r *Record) error {
	path := filepath.Join(s.dir, r.ID+".json")

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan record: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write plan record: %w", err)
	}

	return nil
}

// Load reads a record by full id or unique id prefix
func (s *Store) Load(id string) (*Record, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrNotFound)
	}

	path := filepath.Join(s.dir, id+".json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		full, err := s.resolvePrefix(id)
		if err != nil {
			return nil, err
		}
		path = filepath.Join(s.dir, full+".json")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read plan record: %w", err)
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan record: %w", err)
	}

	return &r, nil
}

// List returns all saved records, newest first
func (s *Store) List() ([]*Record, error) {
	ids, err := s.ids()
	if err != nil {
		return nil, err
	}

	records := []*Record{}
	for _, id := range ids {
		r, err := s.Load(id)
		if err != nil {
			continue // Skip unreadable records
		}
		records = append(records, r)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// Latest returns the newest record for a project directory
func (s *Store) Latest(projectDir string) (*Record, error) {
	records, err := s.List()
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.ProjectDir == projectDir {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: no plan for %s", ErrNotFound, projectDir)
}

// Delete removes a record file
func (s *Store) Delete(id string) error {
	path := filepath.Join(s.dir, id+".json")

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete plan record: %w", err)
	}

	return nil
}

// Dir returns the record storage directory
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) ids() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read plans directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return ids, nil
}

func (s *Store) resolvePrefix(prefix string) (string, error) {
	ids, err := s.ids()
	if err != nil {
		return "", err
	}

	var match string
	for _, id := range ids {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("ambiguous plan id prefix: %s", prefix)
		}
		match = id
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	}
	return match, nil
}
