// Package model contains the model for writing projects and their node trees
package model

import (
	"time"

	"github.com/google/uuid"
)

// NodeKind distinguishes content-bearing chapters from container groups
type NodeKind string

const (
	KindChapter NodeKind = "chapter"
	KindGroup   NodeKind = "group"
)

// Node represents a single element in the project tree: either a chapter
// (holds text content on disk) or a group (holds an ordered list of children)
type Node struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Kind        NodeKind   `json:"kind"`
	Variant     string     `json:"variant,omitempty"`
	Words       int        `json:"words"`
	Status      string     `json:"status"`
	Pace        string     `json:"pace"`
	Mood        string     `json:"mood"`
	Summary     string     `json:"summary"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	AutosavedAt *time.Time `json:"autosavedAt,omitempty"` // set while an uncommitted draft is newer than the chapter file
	Children    []*Node    `json:"children,omitempty"`
}

// Stats holds the aggregate counters for a project
type Stats struct {
	Words      int `json:"words"`
	Characters int `json:"characters"`
}

// Note is a free-form note attached to a project
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// Checkpoint marks a word-count milestone in the progress summary
type Checkpoint struct {
	Label string    `json:"label"`
	Words int       `json:"words"`
	At    time.Time `json:"at"`
}

// Progress summarizes how far along a project is
type Progress struct {
	Overall     int          `json:"overall"`
	Checkpoints []Checkpoint `json:"checkpoints"`
}

// Project represents a top-level writing project and its chapter tree
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Stats       Stats     `json:"stats"`
	Chapters    []*Node   `json:"chapters"`
	Notes       []Note    `json:"notes"`
	Progress    Progress  `json:"progress"`
}

// Snapshot is an immutable copy of a chapter's committed content, identified
// by its creation timestamp
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Words     int       `json:"words"`
	Preview   string    `json:"preview"`
}

// NewProject creates a new project with a generated ID
func NewProject(title, description string) *Project {
	now := time.Now()
	return &Project{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Chapters:    make([]*Node, 0),
		Notes:       make([]Note, 0),
	}
}

// NewNode creates a new tree node with a generated ID. An empty kind
// defaults to chapter.
func NewNode(title string, kind NodeKind, variant string) *Node {
	if kind == "" {
		kind = KindChapter
	}
	return &Node{
		ID:        uuid.NewString(),
		Title:     title,
		Kind:      kind,
		Variant:   variant,
		UpdatedAt: time.Now(),
	}
}

// IsChapter reports whether the node holds editable content
func (n *Node) IsChapter() bool {
	return n.Kind == KindChapter
}
