package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/manuscript/internal/model"
)

func testProjects() []*model.Project {
	novel := model.NewProject("The Winter Novel", "")
	part := model.NewNode("Part I", model.KindGroup, "")
	part.Children = []*model.Node{
		model.NewNode("The First Snow", model.KindChapter, ""),
		model.NewNode("Thaw", model.KindChapter, ""),
	}
	novel.Chapters = []*model.Node{part}

	notes := model.NewProject("Research Notes", "")
	notes.Chapters = []*model.Node{
		model.NewNode("Winter customs", model.KindChapter, ""),
	}

	return []*model.Project{novel, notes}
}

func TestTitlesMatchesProjectsAndNodes(t *testing.T) {
	matches := Titles(testProjects(), "winter")

	require.Len(t, matches, 2)
	assert.Equal(t, "The Winter Novel", matches[0].Title)
	assert.Empty(t, matches[0].NodeID, "project match carries no node ID")
	assert.Equal(t, "Winter customs", matches[1].Title)
	assert.NotEmpty(t, matches[1].NodeID)
}

func TestTitlesFuzzy(t *testing.T) {
	matches := Titles(testProjects(), "fsnow")
	require.Len(t, matches, 1)
	assert.Equal(t, "The First Snow", matches[0].Title)
}

func TestTitlesEmptyQuery(t *testing.T) {
	assert.Nil(t, Titles(testProjects(), ""))
	assert.Nil(t, Titles(testProjects(), "   "))
}

func TestTextMatcher(t *testing.T) {
	m := NewTextMatcher("SNOW")
	assert.True(t, m.Matches("The First Snow"))
	assert.False(t, m.Matches("Thaw"))

	matches := TitlesWith(testProjects(), NewTextMatcher("part"))
	require.Len(t, matches, 1)
	assert.Equal(t, "Part I", matches[0].Title)
}
