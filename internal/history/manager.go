// Package history keeps a small list of recently opened projects
package history

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

// maxRecent is how many recently opened project IDs are kept
const maxRecent = 10

// Manager handles loading and saving the recent-projects list to a TOML file
type Manager struct {
	historyDir string
}

// recentFile represents the structure of the history TOML file
type recentFile struct {
	Projects []string `toml:"projects"`
}

// NewManager creates a history manager with its directory at
// ~/.local/share/manuscript/history/
func NewManager() (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewManagerAt(filepath.Join(homeDir, ".local", "share", "manuscript", "history"))
}

// NewManagerAt creates a history manager rooted at a specific directory
func NewManagerAt(dir string) (*Manager, error) {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &Manager{
		historyDir: dir,
	}, nil
}

// Recent returns the recently opened project IDs, most recent first
func (m *Manager) Recent() ([]string, error) {
	filePath := filepath.Join(m.historyDir, "recent.toml")

	// If file doesn't exist, return empty slice
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var file recentFile
	if err := toml.Unmarshal(data, &file); err != nil {
		// If parse error, return empty and continue (don't fail on corrupted file)
		return []string{}, nil
	}

	return file.Projects, nil
}

// Record moves projectID to the front of the recent list and persists it.
// The list is capped; the oldest entry falls off.
func (m *Manager) Record(projectID string) error {
	recent, err := m.Recent()
	if err != nil {
		return err
	}

	recent = slices.DeleteFunc(recent, func(id string) bool { return id == projectID })
	recent = append([]string{projectID}, recent...)
	if len(recent) > maxRecent {
		recent = recent[:maxRecent]
	}

	return m.save(recent)
}

// Forget removes projectID from the recent list, for projects that were
// deleted
func (m *Manager) Forget(projectID string) error {
	recent, err := m.Recent()
	if err != nil {
		return err
	}

	trimmed := slices.DeleteFunc(recent, func(id string) bool { return id == projectID })
	if len(trimmed) == len(recent) {
		return nil
	}

	return m.save(trimmed)
}

func (m *Manager) save(projects []string) error {
	data, err := toml.Marshal(recentFile{Projects: projects})
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(m.historyDir, "recent.toml"), data, 0644)
}
