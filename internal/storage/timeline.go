package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pstuifzand/manuscript/internal/model"
)

const (
	// SnapshotRetention is the maximum number of snapshots kept per chapter.
	// Older snapshots are evicted first.
	SnapshotRetention = 20

	// previewLength is the character budget for snapshot previews
	previewLength = 200

	snapshotSuffix = ".snapshot"
)

// AppendSnapshot records content as a new snapshot for a chapter, keyed by
// the current time, and evicts the oldest snapshots beyond the retention
// cap. When two commits land within the same millisecond the timestamp is
// bumped until the filename is free, so a rapid save never overwrites an
// earlier snapshot.
func (w Workspace) AppendSnapshot(projectID, chapterID, content string) (time.Time, error) {
	dir := w.timelineDir(projectID, chapterID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return time.Time{}, fmt.Errorf("failed to create timeline directory: %w", err)
	}

	ts := time.Now().UnixMilli()
	for {
		if _, err := os.Stat(w.snapshotPath(projectID, chapterID, ts)); os.IsNotExist(err) {
			break
		}
		ts++
	}

	if err := os.WriteFile(w.snapshotPath(projectID, chapterID, ts), []byte(content), 0o644); err != nil {
		return time.Time{}, fmt.Errorf("failed to write snapshot: %w", err)
	}

	w.evictSnapshots(projectID, chapterID)

	return time.UnixMilli(ts), nil
}

// evictSnapshots removes the oldest snapshots of a chapter until at most
// SnapshotRetention remain. Filenames are millisecond timestamps of equal
// width, so a lexicographic sort puts the oldest first. Best effort.
func (w Workspace) evictSnapshots(projectID, chapterID string) {
	names := w.snapshotNames(projectID, chapterID)
	if len(names) <= SnapshotRetention {
		return
	}
	slices.Sort(names)
	for _, name := range names[:len(names)-SnapshotRetention] {
		os.Remove(filepath.Join(w.timelineDir(projectID, chapterID), name))
	}
}

// snapshotNames lists the snapshot filenames for a chapter, unordered
func (w Workspace) snapshotNames(projectID, chapterID string) []string {
	entries, err := os.ReadDir(w.timelineDir(projectID, chapterID))
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), snapshotSuffix) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names
}

// ListSnapshots returns the snapshots of a chapter sorted newest first,
// each with its word count and a truncated preview. A chapter without a
// timeline yields an empty list.
func (w Workspace) ListSnapshots(projectID, chapterID string) ([]model.Snapshot, error) {
	names := w.snapshotNames(projectID, chapterID)

	snapshots := make([]model.Snapshot, 0, len(names))
	for _, name := range names {
		ms, err := strconv.ParseInt(strings.TrimSuffix(name, snapshotSuffix), 10, 64)
		if err != nil {
			continue // not one of ours
		}
		data, err := os.ReadFile(filepath.Join(w.timelineDir(projectID, chapterID), name))
		if err != nil {
			continue
		}
		content := string(data)
		snapshots = append(snapshots, model.Snapshot{
			Timestamp: time.UnixMilli(ms),
			Words:     model.CountWords(content),
			Preview:   makePreview(content),
		})
	}

	slices.SortFunc(snapshots, func(a, b model.Snapshot) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	return snapshots, nil
}

// ReadSnapshot returns the exact content of one snapshot. The second return
// value is false when the snapshot does not exist.
func (w Workspace) ReadSnapshot(projectID, chapterID string, timestamp time.Time) (string, bool, error) {
	data, err := os.ReadFile(w.snapshotPath(projectID, chapterID, timestamp.UnixMilli()))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return string(data), true, nil
}

// DeleteSnapshot removes one snapshot file. Deleting a snapshot never
// affects the committed chapter content. Removing a snapshot that is
// already gone is not an error.
func (w Workspace) DeleteSnapshot(projectID, chapterID string, timestamp time.Time) error {
	err := os.Remove(w.snapshotPath(projectID, chapterID, timestamp.UnixMilli()))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// makePreview collapses runs of whitespace to single spaces and truncates
// the result to the preview budget, appending an ellipsis when truncated
func makePreview(content string) string {
	collapsed := strings.Join(strings.Fields(content), " ")
	runes := []rune(collapsed)
	if len(runes) <= previewLength {
		return collapsed
	}
	return string(runes[:previewLength]) + "…"
}
