package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ludo-technologies/pmdview/domain"
	"gopkg.in/yaml.v3"
)

// lastFileState is the on-disk layout of the state file
type lastFileState struct {
	LastFile string `yaml:"last_file"`
	OpenedAt string `yaml:"opened_at,omitempty"`
}

// LastFileStoreImpl remembers the last opened report in a YAML file
type LastFileStoreImpl struct {
	path string
	now  func() time.Time
}

// NewLastFileStore creates a store backed by the file at path
func NewLastFileStore(path string) *LastFileStoreImpl {
	return &LastFileStoreImpl{path: path, now: time.Now}
}

// Path returns the state file location
func (s *LastFileStoreImpl) Path() string {
	return s.path
}

// Load returns the last opened path, or "" if nothing was opened yet
func (s *LastFileStoreImpl) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read state file %s: %w", s.path, err)
	}

	var state lastFileState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return "", fmt.Errorf("failed to parse state file %s: %w", s.path, err)
	}
	return state.LastFile, nil
}

// Save records path as the last opened report
func (s *LastFileStoreImpl) Save(path string) error {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	data, err := yaml.Marshal(lastFileState{
		LastFile: path,
		OpenedAt: s.now().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", s.path, err)
	}
	return nil
}

// NoOpLastFileStore forgets everything; used when remembering is disabled
type NoOpLastFileStore struct{}

func (NoOpLastFileStore) Load() (string, error) { return "", nil }
func (NoOpLastFileStore) Save(string) error     { return nil }

var (
	_ domain.LastFileStore = (*LastFileStoreImpl)(nil)
	_ domain.LastFileStore = NoOpLastFileStore{}
)
