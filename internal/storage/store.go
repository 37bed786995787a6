package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/partisim/internal/config"
	"gopkg.in/yaml.v3"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type Metadata struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Classes   int       `json:"classes"`
	Particles int       `json:"particles"`
	Note      string    `json:"note,omitempty"`
}

// Save writes the settings as yaml next to a json metadata file and returns the id.
func (s *Store) Save(settings config.Settings, note string) (string, error) {
	now := time.Now()
	id := fmt.Sprintf("settings_%d", now.UnixNano())
	dir := filepath.Join(s.baseDir, id)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, "settings.yaml"), data, 0644); err != nil {
		return "", err
	}

	meta := Metadata{
		ID:        id,
		Timestamp: now,
		Classes:   len(settings.Classes),
		Particles: settings.TotalParticles(),
		Note:      note,
	}
	metaFile, err := os.Create(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}
	return id, nil
}

// List returns saved metadata, oldest first. A missing directory yields an empty list.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	saves := make([]Metadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.LoadMetadata(entry.Name())
		if err != nil {
			continue
		}
		saves = append(saves, *meta)
	}
	sort.Slice(saves, func(i, j int) bool { return saves[i].Timestamp.Before(saves[j].Timestamp) })
	return saves, nil
}

func (s *Store) LoadMetadata(id string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) Load(id string) (config.Settings, error) {
	var settings config.Settings
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "settings.yaml"))
	if err != nil {
		return settings, err
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, err
	}
	return settings, nil
}

// Latest returns the id of the most recent save, or "" when nothing is saved.
func (s *Store) Latest() (string, error) {
	saves, err := s.List()
	if err != nil || len(saves) == 0 {
		return "", err
	}
	return saves[len(saves)-1].ID, nil
}
