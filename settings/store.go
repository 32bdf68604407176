package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// Settings is the persisted user state
type Settings struct {
	DarkMode bool   `json:"dark_mode"`
	Page     int    `json:"page"`
	Search   string `json:"search"`
}

// Store loads and saves Settings
type Store interface {
	Load() (Settings, error)
	Save(Settings) error
}

// FileStore keeps settings as a JSON document on a filesystem
type FileStore struct {
	fs   afero.Fs
	path string
}

// NewFileStore creates a store backed by path on fs
func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

// Load reads the settings file. A missing or empty file yields zero settings.
func (s *FileStore) Load() (Settings, error) {
	var out Settings

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return out, fmt.Errorf("read settings: %w", err)
	}
	if len(data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode settings: %w", err)
	}
	return out, nil
}

// Save writes the settings file through a temporary file and rename
func (s *FileStore) Save(settings Settings) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("rename settings: %w", err)
	}
	return nil
}

// MemoryStore keeps settings in memory
type MemoryStore struct {
	mu       sync.Mutex
	settings Settings
	saves    int
}

// NewMemoryStore creates a store holding initial
func NewMemoryStore(initial Settings) *MemoryStore {
	return &MemoryStore{settings: initial}
}

// Load implements Store
func (s *MemoryStore) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings, nil
}

// Save implements Store
func (s *MemoryStore) Save(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.saves++
	return nil
}

// Saves returns how many times Save was called
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
