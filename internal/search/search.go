// Package search finds projects and chapters by title
package search

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pstuifzand/manuscript/internal/model"
)

// Match is one search hit. NodeID is empty when the project title itself
// matched.
type Match struct {
	ProjectID    string `json:"projectId"`
	ProjectTitle string `json:"projectTitle"`
	NodeID       string `json:"nodeId,omitempty"`
	Title        string `json:"title"`
}

// Matcher decides whether a title matches a query
type Matcher interface {
	Matches(title string) bool
}

// TextMatcher matches titles containing the term (case-insensitive)
type TextMatcher struct {
	term string
}

func NewTextMatcher(term string) *TextMatcher {
	return &TextMatcher{term: strings.ToLower(term)}
}

func (m *TextMatcher) Matches(title string) bool {
	return strings.Contains(strings.ToLower(title), m.term)
}

// FuzzyMatcher matches titles that fuzzy-match the term (case-insensitive)
type FuzzyMatcher struct {
	term string
}

func NewFuzzyMatcher(term string) *FuzzyMatcher {
	return &FuzzyMatcher{term: term}
}

func (m *FuzzyMatcher) Matches(title string) bool {
	return fuzzy.MatchFold(m.term, title)
}

// Titles returns every project and node whose title fuzzy-matches the
// query, in project display order and document order within a project. An
// empty query matches nothing.
func Titles(projects []*model.Project, query string) []Match {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	return TitlesWith(projects, NewFuzzyMatcher(query))
}

// TitlesWith runs a title search with a caller-supplied matcher
func TitlesWith(projects []*model.Project, m Matcher) []Match {
	var matches []Match
	for _, p := range projects {
		if m.Matches(p.Title) {
			matches = append(matches, Match{
				ProjectID:    p.ID,
				ProjectTitle: p.Title,
				Title:        p.Title,
			})
		}
		matches = append(matches, nodeMatches(p, p.Chapters, m)...)
	}
	return matches
}

func nodeMatches(p *model.Project, nodes []*model.Node, m Matcher) []Match {
	var matches []Match
	for _, n := range nodes {
		if m.Matches(n.Title) {
			matches = append(matches, Match{
				ProjectID:    p.ID,
				ProjectTitle: p.Title,
				NodeID:       n.ID,
				Title:        n.Title,
			})
		}
		matches = append(matches, nodeMatches(p, n.Children, m)...)
	}
	return matches
}
