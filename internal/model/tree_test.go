package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chapter(title string, words int) *Node {
	n := NewNode(title, KindChapter, "")
	n.Words = words
	return n
}

func group(title string, children ...*Node) *Node {
	n := NewNode(title, KindGroup, "")
	n.Children = children
	return n
}

func TestRecomputeWordCounts(t *testing.T) {
	part := group("Part I", chapter("Ch1", 100), chapter("Ch2", 50))
	forest := []*Node{part, chapter("Epilogue", 10)}

	total := RecomputeWordCounts(forest)

	assert.Equal(t, 150, part.Words)
	assert.Equal(t, 160, total)
}

func TestRecomputeWordCountsNested(t *testing.T) {
	inner := group("Act 1", chapter("Scene 1", 7), chapter("Scene 2", 3))
	outer := group("Book", inner, chapter("Interlude", 5))
	total := RecomputeWordCounts([]*Node{outer})

	assert.Equal(t, 10, inner.Words)
	assert.Equal(t, 15, outer.Words)
	assert.Equal(t, 15, total)
}

func TestRecomputeWordCountsEmptyGroup(t *testing.T) {
	g := group("Empty")
	g.Words = 42 // stale
	total := RecomputeWordCounts([]*Node{g})

	assert.Equal(t, 0, g.Words)
	assert.Equal(t, 0, total)
}

// buildRandomForest generates a small random tree for the aggregate property
// test. Returns the forest and the sum of all chapter word counts.
func buildRandomForest(r *rand.Rand, depth int) ([]*Node, int) {
	count := r.Intn(4)
	var nodes []*Node
	total := 0
	for i := 0; i < count; i++ {
		if depth > 0 && r.Intn(2) == 0 {
			children, sum := buildRandomForest(r, depth-1)
			g := group("g")
			g.Children = children
			g.Words = r.Intn(1000) // stale on purpose
			nodes = append(nodes, g)
			total += sum
		} else {
			words := r.Intn(500)
			nodes = append(nodes, chapter("c", words))
			total += words
		}
	}
	return nodes, total
}

func sumGroupInvariant(t *testing.T, nodes []*Node) {
	t.Helper()
	for _, n := range nodes {
		if n.Kind == KindGroup {
			sum := 0
			for _, c := range FlattenChapters(n.Children) {
				sum += c.Words
			}
			assert.Equal(t, sum, n.Words, "group %s", n.Title)
			sumGroupInvariant(t, n.Children)
		}
	}
}

func TestRecomputeWordCountsProperty(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		forest, want := buildRandomForest(r, 3)
		total := RecomputeWordCounts(forest)
		assert.Equal(t, want, total)
		sumGroupInvariant(t, forest)
	}
}

func TestFlattenChapters(t *testing.T) {
	ch1 := chapter("Ch1", 1)
	ch2 := chapter("Ch2", 2)
	ch3 := chapter("Ch3", 3)
	forest := []*Node{group("Part I", ch1, group("Sub", ch2)), ch3}

	flat := FlattenChapters(forest)

	require.Len(t, flat, 3)
	assert.Equal(t, []*Node{ch1, ch2, ch3}, flat)
}

func TestFlattenInsertRoundTrip(t *testing.T) {
	forest := []*Node{
		group("Part I", chapter("a", 1), group("Sub", chapter("b", 2))),
		chapter("c", 3),
	}
	flat := FlattenChapters(forest)

	var rebuilt []*Node
	for _, ch := range flat {
		var ok bool
		rebuilt, ok = Insert(rebuilt, "", ch)
		require.True(t, ok)
	}

	got := FlattenChapters(rebuilt)
	require.Len(t, got, len(flat))
	for i := range flat {
		assert.Equal(t, flat[i].ID, got[i].ID)
	}
}

func TestFindWithParent(t *testing.T) {
	ch := chapter("Ch1", 0)
	sub := group("Sub", ch)
	part := group("Part I", sub)
	forest := []*Node{part}

	node, parent := FindWithParent(forest, ch.ID)
	require.NotNil(t, node)
	assert.Equal(t, ch.ID, node.ID)
	require.NotNil(t, parent)
	assert.Equal(t, sub.ID, parent.ID)

	node, parent = FindWithParent(forest, part.ID)
	require.NotNil(t, node)
	assert.Nil(t, parent)

	node, _ = FindWithParent(forest, "missing")
	assert.Nil(t, node)
}

func TestInsertMissingParent(t *testing.T) {
	forest := []*Node{chapter("Ch1", 0)}
	updated, ok := Insert(forest, "missing", chapter("Ch2", 0))
	assert.False(t, ok)
	assert.Len(t, updated, 1)
}

func TestRemove(t *testing.T) {
	ch := chapter("Ch1", 0)
	part := group("Part I", ch)
	forest := []*Node{part, chapter("Ch2", 0)}

	forest, removed := Remove(forest, ch.ID)
	require.NotNil(t, removed)
	assert.Equal(t, ch.ID, removed.ID)
	assert.Empty(t, part.Children)

	forest, removed = Remove(forest, "missing")
	assert.Nil(t, removed)
	assert.Len(t, forest, 2)
}

func TestMove(t *testing.T) {
	ch := chapter("Ch1", 0)
	src := group("Part I", ch)
	dst := group("Part II")
	forest := []*Node{src, dst}

	forest, ok := Move(forest, ch.ID, dst.ID)
	require.True(t, ok)
	assert.Empty(t, src.Children)
	require.Len(t, dst.Children, 1)
	assert.Equal(t, ch.ID, dst.Children[0].ID)

	// Move to root level
	forest, ok = Move(forest, ch.ID, "")
	require.True(t, ok)
	assert.Empty(t, dst.Children)
	assert.Len(t, forest, 3)
}

func TestMoveRejectsCycles(t *testing.T) {
	inner := group("Inner")
	outer := group("Outer", inner)
	forest := []*Node{outer}

	forest, ok := Move(forest, outer.ID, inner.ID)
	assert.False(t, ok)
	require.Len(t, forest, 1)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, inner.ID, forest[0].Children[0].ID)

	forest, ok = Move(forest, outer.ID, outer.ID)
	assert.False(t, ok)
	assert.Len(t, forest, 1)
}

func TestReorderSiblings(t *testing.T) {
	a := chapter("a", 0)
	b := chapter("b", 0)
	c := chapter("c", 0)
	parent := group("Part I", a, b, c)
	forest := []*Node{parent}

	forest, ok := ReorderSiblings(forest, parent.ID, []string{c.ID, a.ID})
	require.True(t, ok)
	assert.Equal(t, []*Node{c, a, b}, parent.Children)
}

func TestReorderSiblingsIdempotent(t *testing.T) {
	a := chapter("a", 0)
	b := chapter("b", 0)
	forest := []*Node{a, b}

	forest, ok := ReorderSiblings(forest, "", []string{a.ID, b.ID})
	require.True(t, ok)
	assert.Equal(t, []*Node{a, b}, forest)
}

func TestReorderSiblingsStaleIDs(t *testing.T) {
	a := chapter("a", 0)
	b := chapter("b", 0)
	forest := []*Node{a, b}

	// Deleted sibling and duplicate entries are ignored, nothing is dropped
	forest, ok := ReorderSiblings(forest, "", []string{"deleted", b.ID, b.ID})
	require.True(t, ok)
	assert.Equal(t, []*Node{b, a}, forest)
}

func TestReorderSiblingsMissingParent(t *testing.T) {
	forest := []*Node{chapter("a", 0)}
	_, ok := ReorderSiblings(forest, "missing", nil)
	assert.False(t, ok)
}

func TestCollectChapterIDs(t *testing.T) {
	ch1 := chapter("Ch1", 0)
	ch2 := chapter("Ch2", 0)
	sub := group("Sub", ch2)
	part := group("Part I", ch1, sub)

	assert.ElementsMatch(t, []string{ch1.ID, ch2.ID}, CollectChapterIDs(part))
	assert.Equal(t, []string{ch1.ID}, CollectChapterIDs(ch1))
	assert.Empty(t, CollectChapterIDs(group("Empty")))
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords("   \n\t"))
	assert.Equal(t, 2, CountWords("hello world"))
	assert.Equal(t, 3, CountWords("  one\ntwo   three  "))
}
