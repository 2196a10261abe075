package storage

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/manuscript/internal/model"
)

func testWorkspace(t *testing.T) Workspace {
	t.Helper()
	ws, err := NewWorkspace(t.TempDir())
	require.NoError(t, err)
	return ws
}

func TestReadChapterMissing(t *testing.T) {
	ws := testWorkspace(t)
	content, err := ws.ReadChapter("p1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "", content)
}

func TestWriteReadChapter(t *testing.T) {
	ws := testWorkspace(t)
	require.NoError(t, ws.WriteChapter("p1", "c1", "Hello"))

	content, err := ws.ReadChapter("p1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "Hello", content)
}

func TestMaterializePrefersNewerDraft(t *testing.T) {
	ws := testWorkspace(t)
	require.NoError(t, ws.WriteChapter("p1", "c1", "committed"))

	// Make the committed file clearly older than the draft
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(ws.chapterPath("p1", "c1"), old, old))

	_, err := ws.WriteAutosave("p1", "c1", "draft")
	require.NoError(t, err)

	n := &model.Node{ID: "c1", Kind: model.KindChapter}
	content, err := ws.Materialize("p1", n)
	require.NoError(t, err)
	assert.Equal(t, "draft", content)
	require.NotNil(t, n.AutosavedAt)
}

func TestMaterializePrefersNewerCommit(t *testing.T) {
	ws := testWorkspace(t)
	_, err := ws.WriteAutosave("p1", "c1", "draft")
	require.NoError(t, err)

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(ws.autosavePath("p1", "c1"), old, old))

	require.NoError(t, ws.WriteChapter("p1", "c1", "committed"))

	at := time.Now()
	n := &model.Node{ID: "c1", Kind: model.KindChapter, AutosavedAt: &at}
	content, err := ws.Materialize("p1", n)
	require.NoError(t, err)
	assert.Equal(t, "committed", content)
	assert.Nil(t, n.AutosavedAt, "pending-autosave marker should be cleared")
}

func TestMaterializeDraftOnly(t *testing.T) {
	// A draft with no committed file must survive a restart: the missing
	// committed file counts as epoch, so the draft always wins
	ws := testWorkspace(t)
	_, err := ws.WriteAutosave("p1", "c1", "recovered")
	require.NoError(t, err)

	n := &model.Node{ID: "c1", Kind: model.KindChapter}
	content, err := ws.Materialize("p1", n)
	require.NoError(t, err)
	assert.Equal(t, "recovered", content)
	assert.NotNil(t, n.AutosavedAt)
}

func TestMaterializeNothingOnDisk(t *testing.T) {
	ws := testWorkspace(t)
	n := &model.Node{ID: "c1", Kind: model.KindChapter}
	content, err := ws.Materialize("p1", n)
	require.NoError(t, err)
	assert.Equal(t, "", content)
	assert.Nil(t, n.AutosavedAt)
}

func TestRemoveChapterFiles(t *testing.T) {
	ws := testWorkspace(t)
	require.NoError(t, ws.WriteChapter("p1", "c1", "text"))
	_, err := ws.WriteAutosave("p1", "c1", "draft")
	require.NoError(t, err)
	_, err = ws.AppendSnapshot("p1", "c1", "text")
	require.NoError(t, err)

	ws.RemoveChapterFiles("p1", []string{"c1"})

	content, err := ws.ReadChapter("p1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "", content)

	_, statErr := os.Stat(ws.autosavePath("p1", "c1"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(ws.timelineDir("p1", "c1"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestContentEqual(t *testing.T) {
	assert.True(t, ContentEqual("Hello", "Hello"))
	assert.True(t, ContentEqual("Hello", "Hello \n"))
	assert.True(t, ContentEqual("Hello\t\n", "Hello"))
	assert.False(t, ContentEqual("Hello", "Hello!"))
	assert.False(t, ContentEqual(" Hello", "Hello"))
}
