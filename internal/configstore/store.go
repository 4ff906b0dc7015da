// Package configstore persists named target configurations as JSON
// documents on disk, schema-validated on write.
package configstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/tabhound/internal/model"
)

// SavedConfig is one named target-configuration document.
type SavedConfig struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	UpdatedAt   string               `json:"updated_at"`
	Targets     []model.TargetConfig `json:"targets"`
}

// Store manages the configuration directory.
type Store struct {
	dir string
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

var (
	spacePattern  = regexp.MustCompile(`\s+`)
	unsafePattern = regexp.MustCompile(`[^A-Za-z0-9_-]`)
)

// Slugify maps a display name to its filename stem.
func Slugify(name string) string {
	s := spacePattern.ReplaceAllString(strings.TrimSpace(name), "-")
	s = unsafePattern.ReplaceAllString(s, "")
	s = strings.ToLower(s)
	if s == "" {
		return "config"
	}
	return s
}

// List returns every readable saved configuration, sorted by filename.
// Unreadable or invalid files are skipped.
func (s *Store) List() ([]SavedConfig, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var out []SavedConfig
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			continue
		}
		var cfg SavedConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			continue
		}
		if cfg.Name == "" {
			cfg.Name = strings.TrimSuffix(name, ".json")
		}
		out = append(out, cfg)
	}
	return out, nil
}

// Get loads one saved configuration by name.
func (s *Store) Get(name string) (*SavedConfig, error) {
	path := filepath.Join(s.dir, Slugify(name)+".json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config not found: %s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := ValidateDocument(data); err != nil {
		return nil, fmt.Errorf("config %s: %w", name, err)
	}
	var cfg SavedConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Save validates and writes a configuration, stamping the update time.
func (s *Store) Save(cfg SavedConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("config name is required")
	}
	cfg.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := ValidateDocument(data); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	path := filepath.Join(s.dir, Slugify(cfg.Name)+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Delete removes a saved configuration.
func (s *Store) Delete(name string) error {
	path := filepath.Join(s.dir, Slugify(name)+".json")
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("config not found: %s", name)
		}
		return fmt.Errorf("delete config: %w", err)
	}
	return nil
}
