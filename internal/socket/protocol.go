package socket

import (
	"github.com/pstuifzand/manuscript/internal/model"
	"github.com/pstuifzand/manuscript/internal/project"
	"github.com/pstuifzand/manuscript/internal/search"
)

// Request represents an operation sent to a running manuscript instance
type Request struct {
	Command     string   `json:"command"`
	ProjectID   string   `json:"projectId,omitempty"`
	NodeID      string   `json:"nodeId,omitempty"`
	ParentID    string   `json:"parentId,omitempty"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Kind        string   `json:"kind,omitempty"`
	Variant     string   `json:"variant,omitempty"`
	Content     string   `json:"content,omitempty"`
	Order       []string `json:"order,omitempty"`
	Timestamp   int64    `json:"timestamp,omitempty"` // snapshot identity, milliseconds
	Query       string   `json:"query,omitempty"`
}

// Response represents the response from the server. Document is set on
// mutating commands; a missing Document on a successful mutation means the
// target no longer exists and the caller should refresh its view.
type Response struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message,omitempty"`
	Document  *project.Document `json:"document,omitempty"`
	Projects  []*model.Project  `json:"projects,omitempty"`
	Snapshots []model.Snapshot  `json:"snapshots,omitempty"`
	Content   string            `json:"content,omitempty"`
	Found     bool              `json:"found,omitempty"`
	Order     []string          `json:"order,omitempty"`
	Matches   []search.Match    `json:"matches,omitempty"`
}

// Command types
const (
	CommandListProjects      = "list_projects"
	CommandCreateProject     = "create_project"
	CommandRenameProject     = "rename_project"
	CommandUpdateDescription = "update_description"
	CommandDeleteProject     = "delete_project"
	CommandReorderProjects   = "reorder_projects"
	CommandGetProject        = "get_project"
	CommandCreateNode        = "create_node"
	CommandDeleteNode        = "delete_node"
	CommandMoveNode          = "move_node"
	CommandReorderSiblings   = "reorder_siblings"
	CommandSaveChapter       = "save_chapter"
	CommandAutosaveChapter   = "autosave_chapter"
	CommandListSnapshots     = "list_snapshots"
	CommandReadSnapshot      = "read_snapshot"
	CommandDeleteSnapshot    = "delete_snapshot"
	CommandSearch            = "search"
)
