// Package storage persists projects, chapter content, drafts and snapshots
// under a workspace directory.
//
// Layout:
//
//	workspace/
//	  projects.json                 # display order of projects
//	  projects/<projectID>/
//	    project.json                # metadata record
//	    chapters/<chapterID>.md     # committed content
//	    autosave/<chapterID>.draft  # pending uncommitted content
//	    timeline/<chapterID>/<timestampMs>.snapshot
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is a handle to the directory all project data lives under. It is
// passed explicitly to every operation so stores can run against any
// directory, including temporary ones in tests.
type Workspace struct {
	root string
}

// NewWorkspace creates a workspace handle rooted at the given directory,
// creating the directory structure if needed
func NewWorkspace(root string) (Workspace, error) {
	if err := os.MkdirAll(filepath.Join(root, "projects"), 0o755); err != nil {
		return Workspace{}, fmt.Errorf("failed to create workspace directory: %w", err)
	}
	return Workspace{root: root}, nil
}

// Root returns the workspace root directory
func (w Workspace) Root() string {
	return w.root
}

func (w Workspace) orderPath() string {
	return filepath.Join(w.root, "projects.json")
}

func (w Workspace) projectsDir() string {
	return filepath.Join(w.root, "projects")
}

func (w Workspace) projectDir(projectID string) string {
	return filepath.Join(w.projectsDir(), projectID)
}

func (w Workspace) metadataPath(projectID string) string {
	return filepath.Join(w.projectDir(projectID), "project.json")
}

func (w Workspace) chapterPath(projectID, chapterID string) string {
	return filepath.Join(w.projectDir(projectID), "chapters", chapterID+".md")
}

func (w Workspace) autosavePath(projectID, chapterID string) string {
	return filepath.Join(w.projectDir(projectID), "autosave", chapterID+".draft")
}

func (w Workspace) timelineDir(projectID, chapterID string) string {
	return filepath.Join(w.projectDir(projectID), "timeline", chapterID)
}

func (w Workspace) snapshotPath(projectID, chapterID string, timestampMs int64) string {
	return filepath.Join(w.timelineDir(projectID, chapterID), fmt.Sprintf("%d.snapshot", timestampMs))
}
