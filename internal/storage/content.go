package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/pstuifzand/manuscript/internal/model"
)

// ReadChapter returns the committed content for a chapter, or an empty
// string when no content has been committed yet
func (w Workspace) ReadChapter(projectID, chapterID string) (string, error) {
	data, err := os.ReadFile(w.chapterPath(projectID, chapterID))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read chapter: %w", err)
	}
	return string(data), nil
}

// WriteChapter overwrites the committed content file for a chapter
func (w Workspace) WriteChapter(projectID, chapterID, content string) error {
	path := w.chapterPath(projectID, chapterID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create chapters directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write chapter: %w", err)
	}
	return nil
}

// WriteAutosave stores content as the pending draft for a chapter and
// returns the draft file's modification time. The committed content file
// and the snapshot timeline are not touched.
func (w Workspace) WriteAutosave(projectID, chapterID, content string) (time.Time, error) {
	path := w.autosavePath(projectID, chapterID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return time.Time{}, fmt.Errorf("failed to create autosave directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return time.Time{}, fmt.Errorf("failed to write autosave: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to stat autosave: %w", err)
	}
	return info.ModTime(), nil
}

// RemoveAutosave deletes the pending draft for a chapter, if any. Best
// effort: the draft is superseded once a commit lands, so a failure here
// must not fail the commit.
func (w Workspace) RemoveAutosave(projectID, chapterID string) {
	os.Remove(w.autosavePath(projectID, chapterID))
}

// Materialize decides whether the committed content or the pending draft is
// authoritative for a chapter and returns it. A draft that is strictly newer
// than the committed file wins and sets the node's pending-autosave
// timestamp; otherwise the committed content wins and the marker is cleared.
// Missing files count as modified at the epoch, so a lone draft survives a
// restart and a chapter with neither file materializes as empty.
func (w Workspace) Materialize(projectID string, n *model.Node) (string, error) {
	committedAt := modTime(w.chapterPath(projectID, n.ID))
	draftAt := modTime(w.autosavePath(projectID, n.ID))

	if draftAt.After(committedAt) {
		data, err := os.ReadFile(w.autosavePath(projectID, n.ID))
		if err == nil {
			n.AutosavedAt = &draftAt
			return string(data), nil
		}
		// Draft vanished between stat and read; fall through to committed
	}

	n.AutosavedAt = nil
	return w.ReadChapter(projectID, n.ID)
}

// RemoveChapterFiles deletes the committed content, pending draft and
// snapshot timeline for each chapter ID. Used when a subtree is deleted.
// Cleanup is best effort.
func (w Workspace) RemoveChapterFiles(projectID string, chapterIDs []string) {
	for _, id := range chapterIDs {
		os.Remove(w.chapterPath(projectID, id))
		os.Remove(w.autosavePath(projectID, id))
		os.RemoveAll(w.timelineDir(projectID, id))
	}
}

// modTime returns the modification time of a file, or the zero time when
// the file does not exist
func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// ContentEqual reports whether two chapter texts are the same once trailing
// whitespace is stripped. Saves of content that only differ in trailing
// whitespace are treated as no-ops so autosave-triggered re-saves do not
// pollute the timeline.
func ContentEqual(a, b string) bool {
	return strings.TrimRightFunc(a, unicode.IsSpace) == strings.TrimRightFunc(b, unicode.IsSpace)
}
