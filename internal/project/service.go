// Package project implements the operations a front end performs against
// the store: creating and mutating projects and their chapter trees,
// committing and autosaving content, and managing the snapshot timeline.
// Every mutating operation returns the fully materialized document, or nil
// when the target no longer exists, so callers never need a second fetch.
package project

import (
	"time"
	"unicode/utf8"

	importer "github.com/pstuifzand/manuscript/internal/import"
	"github.com/pstuifzand/manuscript/internal/model"
	"github.com/pstuifzand/manuscript/internal/storage"
)

// Service exposes the store operations over a single workspace
type Service struct {
	ws storage.Workspace
}

// NewService creates a service working against the given workspace
func NewService(ws storage.Workspace) *Service {
	return &Service{ws: ws}
}

// ChapterContent is one flattened chapter with its authoritative content
type ChapterContent struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Draft   bool   `json:"draft"` // true when the content comes from a pending autosave
}

// Document is a fully materialized project: the metadata record, plus the
// flattened chapter list in document order with each chapter's reconciled
// content
type Document struct {
	Project  *model.Project   `json:"project"`
	Chapters []ChapterContent `json:"chapters"`
}

// materialize assembles the Document for a loaded project. Each chapter's
// content is reconciled against its pending draft, and the character count
// is recomputed from the content that was read anyway.
func (s *Service) materialize(p *model.Project) (*Document, error) {
	flat := model.FlattenChapters(p.Chapters)
	chapters := make([]ChapterContent, 0, len(flat))
	characters := 0
	for _, n := range flat {
		content, err := s.ws.Materialize(p.ID, n)
		if err != nil {
			return nil, err
		}
		characters += utf8.RuneCountInString(content)
		chapters = append(chapters, ChapterContent{
			ID:      n.ID,
			Title:   n.Title,
			Content: content,
			Draft:   n.AutosavedAt != nil,
		})
	}

	p.Stats.Words = model.RecomputeWordCounts(p.Chapters)
	p.Stats.Characters = characters

	return &Document{Project: p, Chapters: chapters}, nil
}

// knownProjects returns every project in the workspace along with the
// id -> creation time map the ordering store needs
func (s *Service) knownProjects() ([]*model.Project, map[string]time.Time, error) {
	projects, err := s.ws.ListProjects()
	if err != nil {
		return nil, nil, err
	}
	known := make(map[string]time.Time, len(projects))
	for _, p := range projects {
		known[p.ID] = p.CreatedAt
	}
	return projects, known, nil
}

// ListProjects returns all projects in their user-controlled display order.
// The persisted order is re-validated on every listing.
func (s *Service) ListProjects() ([]*model.Project, error) {
	projects, known, err := s.knownProjects()
	if err != nil {
		return nil, err
	}
	order, err := s.ws.NormalizeOrder(known)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*model.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}
	ordered := make([]*model.Project, 0, len(projects))
	for _, id := range order {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// GetProject materializes one project, or nil when it does not exist
func (s *Service) GetProject(projectID string) (*Document, error) {
	p, err := s.ws.LoadProject(projectID)
	if p == nil || err != nil {
		return nil, err
	}
	return s.materialize(p)
}

// CreateProject creates an empty project and appends it to the display order
func (s *Service) CreateProject(title, description string) (*Document, error) {
	p := model.NewProject(title, description)
	if err := s.ws.SaveProject(p); err != nil {
		return nil, err
	}
	if _, known, err := s.knownProjects(); err == nil {
		s.ws.NormalizeOrder(known)
	}
	return s.materialize(p)
}

// ImportMarkdown creates a new project from a single markdown manuscript.
// Headings become the chapter tree and body text is committed as chapter
// content, each chapter starting its timeline with one snapshot.
// fallbackTitle is used when the manuscript has no top-level heading.
func (s *Service) ImportMarkdown(content, fallbackTitle string) (*Document, error) {
	parsed, err := importer.FromMarkdown(content)
	if err != nil {
		return nil, err
	}

	title := parsed.Title
	if title == "" {
		title = fallbackTitle
	}
	p := model.NewProject(title, parsed.Description)
	p.Chapters = parsed.Chapters
	if err := s.ws.SaveProject(p); err != nil {
		return nil, err
	}

	for _, n := range model.FlattenChapters(p.Chapters) {
		text := parsed.Content[n.ID]
		n.Words = model.CountWords(text)
		if text == "" {
			continue
		}
		if err := s.ws.WriteChapter(p.ID, n.ID, text); err != nil {
			return nil, err
		}
		if _, err := s.ws.AppendSnapshot(p.ID, n.ID, text); err != nil {
			return nil, err
		}
	}

	if _, known, err := s.knownProjects(); err == nil {
		s.ws.NormalizeOrder(known)
	}
	return s.persist(p)
}

// RenameProject sets a project's title
func (s *Service) RenameProject(projectID, title string) (*Document, error) {
	p, err := s.ws.LoadProject(projectID)
	if p == nil || err != nil {
		return nil, err
	}
	p.Title = title
	return s.persist(p)
}

// UpdateDescription sets a project's description
func (s *Service) UpdateDescription(projectID, description string) (*Document, error) {
	p, err := s.ws.LoadProject(projectID)
	if p == nil || err != nil {
		return nil, err
	}
	p.Description = description
	return s.persist(p)
}

// DeleteProject removes a project and all its files. Returns false when the
// project did not exist.
func (s *Service) DeleteProject(projectID string) (bool, error) {
	p, err := s.ws.LoadProject(projectID)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, nil
	}
	if err := s.ws.DeleteProject(projectID); err != nil {
		return false, err
	}
	// Drop the ID from the display order
	if _, known, err := s.knownProjects(); err == nil {
		s.ws.NormalizeOrder(known)
	}
	return true, nil
}

// ReorderProjects persists a new display order and returns the normalized
// result
func (s *Service) ReorderProjects(order []string) ([]string, error) {
	_, known, err := s.knownProjects()
	if err != nil {
		return nil, err
	}
	return s.ws.ReorderProjects(order, known)
}

// CreateNode adds a chapter or group under parentID, or at the root level
// when parentID is empty. Returns nil when the project or the parent does
// not exist.
func (s *Service) CreateNode(projectID, title, parentID string, kind model.NodeKind, variant string) (*Document, error) {
	p, err := s.ws.LoadProject(projectID)
	if p == nil || err != nil {
		return nil, err
	}
	node := model.NewNode(title, kind, variant)
	chapters, ok := model.Insert(p.Chapters, parentID, node)
	if !ok {
		return nil, nil
	}
	p.Chapters = chapters
	return s.persist(p)
}

// DeleteNode removes a node and its whole subtree, along with the content,
// draft and timeline files of every chapter in it. Returns nil when the
// project or the node does not exist.
func (s *Service) DeleteNode(projectID, nodeID string) (*Document, error) {
	p, err := s.ws.LoadProject(projectID)
	if p == nil || err != nil {
		return nil, err
	}
	chapters, removed := model.Remove(p.Chapters, nodeID)
	if removed == nil {
		return nil, nil
	}
	p.Chapters = chapters
	s.ws.RemoveChapterFiles(projectID, model.CollectChapterIDs(removed))
	return s.persist(p)
}

// MoveNode reparents a node under targetParentID (root level when empty).
// A move that would place a node inside its own subtree is rejected and the
// document is returned unchanged. Returns nil when the project or the node
// does not exist.
func (s *Service) MoveNode(projectID, nodeID, targetParentID string) (*Document, error) {
	p, err := s.ws.LoadProject(projectID)
	if p == nil || err != nil {
		return nil, err
	}
	if model.Find(p.Chapters, nodeID) == nil {
		return nil, nil
	}
	chapters, ok := model.Move(p.Chapters, nodeID, targetParentID)
	if !ok {
		// Cycle or missing target: no-op
		return s.materialize(p)
	}
	p.Chapters = chapters
	return s.persist(p)
}

// ReorderSiblings rearranges the children of parentID (root level when
// empty). IDs of already-deleted siblings are ignored and unnamed children
// keep their prior relative order. Returns nil when the project or the
// parent does not exist.
func (s *Service) ReorderSiblings(projectID, parentID string, orderedIDs []string) (*Document, error) {
	p, err := s.ws.LoadProject(projectID)
	if p == nil || err != nil {
		return nil, err
	}
	chapters, ok := model.ReorderSiblings(p.Chapters, parentID, orderedIDs)
	if !ok {
		return nil, nil
	}
	p.Chapters = chapters
	return s.persist(p)
}

// SaveChapter is the committed save path. Content that matches the already
// committed text up to trailing whitespace is a no-op: no write, no
// snapshot, no timestamp bump. Otherwise the metadata is updated and
// persisted, the content file is overwritten, a snapshot is recorded and
// the pending draft is dropped. Returns nil when the project or the chapter
// does not exist.
func (s *Service) SaveChapter(projectID, chapterID, content string) (*Document, error) {
	p, err := s.ws.LoadProject(projectID)
	if p == nil || err != nil {
		return nil, err
	}
	node := model.Find(p.Chapters, chapterID)
	if node == nil || !node.IsChapter() {
		return nil, nil
	}

	old, err := s.ws.ReadChapter(projectID, chapterID)
	if err != nil {
		return nil, err
	}
	if storage.ContentEqual(old, content) {
		return s.materialize(p)
	}

	node.Words = model.CountWords(content)
	node.UpdatedAt = time.Now()
	node.AutosavedAt = nil
	p.Stats.Words = model.RecomputeWordCounts(p.Chapters)
	storage.Touch(p)
	if err := s.ws.SaveProject(p); err != nil {
		return nil, err
	}

	if err := s.ws.WriteChapter(projectID, chapterID, content); err != nil {
		return nil, err
	}
	if _, err := s.ws.AppendSnapshot(projectID, chapterID, content); err != nil {
		return nil, err
	}
	s.ws.RemoveAutosave(projectID, chapterID)

	return s.materialize(p)
}

// AutosaveChapter stores content as the chapter's pending draft. The
// committed file and the timeline are untouched; the next commit either
// subsumes or discards the draft. Returns nil when the project or the
// chapter does not exist.
func (s *Service) AutosaveChapter(projectID, chapterID, content string) (*Document, error) {
	p, err := s.ws.LoadProject(projectID)
	if p == nil || err != nil {
		return nil, err
	}
	node := model.Find(p.Chapters, chapterID)
	if node == nil || !node.IsChapter() {
		return nil, nil
	}

	savedAt, err := s.ws.WriteAutosave(projectID, chapterID, content)
	if err != nil {
		return nil, err
	}
	node.Words = model.CountWords(content)
	node.UpdatedAt = savedAt
	node.AutosavedAt = &savedAt
	return s.persist(p)
}

// ListSnapshots returns a chapter's snapshots newest first. Returns nil
// when the project does not exist.
func (s *Service) ListSnapshots(projectID, chapterID string) ([]model.Snapshot, error) {
	p, err := s.ws.LoadProject(projectID)
	if p == nil || err != nil {
		return nil, err
	}
	return s.ws.ListSnapshots(projectID, chapterID)
}

// ReadSnapshot returns the exact content of one snapshot; ok is false when
// the project or the snapshot does not exist
func (s *Service) ReadSnapshot(projectID, chapterID string, timestamp time.Time) (string, bool, error) {
	p, err := s.ws.LoadProject(projectID)
	if p == nil || err != nil {
		return "", false, err
	}
	return s.ws.ReadSnapshot(projectID, chapterID, timestamp)
}

// DeleteSnapshot removes one snapshot. The live chapter content is never
// affected. Returns nil when the project does not exist.
func (s *Service) DeleteSnapshot(projectID, chapterID string, timestamp time.Time) (*Document, error) {
	p, err := s.ws.LoadProject(projectID)
	if p == nil || err != nil {
		return nil, err
	}
	if err := s.ws.DeleteSnapshot(projectID, chapterID, timestamp); err != nil {
		return nil, err
	}
	return s.materialize(p)
}

// persist recomputes aggregates, bumps the modification timestamp, writes
// the record and materializes the result
func (s *Service) persist(p *model.Project) (*Document, error) {
	p.Stats.Words = model.RecomputeWordCounts(p.Chapters)
	storage.Touch(p)
	if err := s.ws.SaveProject(p); err != nil {
		return nil, err
	}
	return s.materialize(p)
}
