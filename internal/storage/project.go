package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pstuifzand/manuscript/internal/model"
)

// LoadProject reads the metadata record for a project, normalizes it and
// recomputes aggregate word counts. If normalization changed the record it
// is written back. Returns nil when the record does not exist or cannot be
// parsed; a corrupt record is deliberately treated the same as a missing one.
func (w Workspace) LoadProject(projectID string) (*model.Project, error) {
	data, err := os.ReadFile(w.metadataPath(projectID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read project record: %w", err)
	}

	var p model.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, nil
	}

	changed := Migrate(&p, time.Now())

	words := model.RecomputeWordCounts(p.Chapters)
	if words != p.Stats.Words {
		p.Stats.Words = words
		changed = true
	}

	if changed {
		if err := w.SaveProject(&p); err != nil {
			return nil, err
		}
	}

	return &p, nil
}

// SaveProject writes the full metadata record for a project
func (w Workspace) SaveProject(p *model.Project) error {
	if err := os.MkdirAll(w.projectDir(p.ID), 0o755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project record: %w", err)
	}

	if err := os.WriteFile(w.metadataPath(p.ID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write project record: %w", err)
	}

	return nil
}

// Touch updates the project's last-modified timestamp. Called after every
// mutating operation.
func Touch(p *model.Project) {
	p.UpdatedAt = time.Now()
}

// DeleteProject removes a project and everything under its directory:
// metadata, chapter content, drafts and snapshots
func (w Workspace) DeleteProject(projectID string) error {
	if err := os.RemoveAll(w.projectDir(projectID)); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// ListProjects loads every readable project record in the workspace.
// Unreadable or corrupt records are skipped.
func (w Workspace) ListProjects() ([]*model.Project, error) {
	entries, err := os.ReadDir(w.projectsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read projects directory: %w", err)
	}

	var projects []*model.Project
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		p, err := w.LoadProject(entry.Name())
		if err != nil {
			return nil, err
		}
		if p != nil {
			projects = append(projects, p)
		}
	}

	return projects, nil
}
