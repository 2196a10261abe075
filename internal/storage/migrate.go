package storage

import (
	"time"

	"github.com/pstuifzand/manuscript/internal/model"
)

// Migrate normalizes a project record loaded from disk, filling in fields
// that records written by older versions may lack. It is a pure function:
// the caller decides whether to persist the result. Returns true when
// anything was changed.
//
// now is used as the fallback for missing document timestamps; node
// timestamps fall back to the document's updatedAt.
func Migrate(p *model.Project, now time.Time) bool {
	changed := false

	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
		changed = true
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
		changed = true
	}
	if p.Chapters == nil {
		p.Chapters = make([]*model.Node, 0)
		changed = true
	}
	if p.Notes == nil {
		p.Notes = make([]model.Note, 0)
		changed = true
	}
	if p.Progress.Checkpoints == nil {
		p.Progress.Checkpoints = make([]model.Checkpoint, 0)
		changed = true
	}

	for _, n := range p.Chapters {
		if migrateNode(n, p.UpdatedAt) {
			changed = true
		}
	}

	return changed
}

// migrateNode fills defaults on a single node and recurses into children.
// Records that predate the tree feature have no kind field; those nodes are
// chapters.
func migrateNode(n *model.Node, fallback time.Time) bool {
	changed := false

	if n.Kind == "" {
		n.Kind = model.KindChapter
		changed = true
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = fallback
		changed = true
	}
	for _, child := range n.Children {
		if migrateNode(child, fallback) {
			changed = true
		}
	}

	return changed
}
