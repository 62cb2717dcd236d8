package thread

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waveline/pkg/models"
)

func strPtr(s string) *string { return &s }

func comment(id, parent string) models.Comment {
	c := models.Comment{
		ID:        id,
		Post:      "post-1",
		Author:    models.UserSummary{ID: "u1", DisplayName: "Alice"},
		Content:   "content " + id,
		CreatedAt: time.Now(),
	}
	if parent != "" {
		c.Parent = strPtr(parent)
	}
	return c
}

func TestLoadFiltersNestedEntries(t *testing.T) {
	// Flat list mixing parent-null roots with parent-set entries that also
	// appear nested under their roots; only the parent-null ones may be roots.
	root := comment("c1", "")
	nested := comment("c2", "c1")
	root.Replies = []models.Comment{nested}

	store := NewStore("post-1")
	store.Load([]models.Comment{root, comment("c2", "c1"), comment("c3", "")})

	roots := store.Roots()
	assert.Equal(t, []string{"c1", "c3"}, roots)
	require.NotNil(t, store.Get("c2"))
	assert.Equal(t, "c1", store.Get("c2").ParentID)
}

func TestLoadIdempotentOnOwnOutput(t *testing.T) {
	root := comment("c1", "")
	root.Replies = []models.Comment{comment("c2", "c1")}

	store := NewStore("post-1")
	store.Load([]models.Comment{root, comment("c3", "")})
	first := store.TopLevel()

	store.Load(first)
	assert.Equal(t, first, store.TopLevel())
}

func TestInsertReplyAtDepth(t *testing.T) {
	// depth 0: c1, depth 1: c2, depth 2: c3
	root := comment("c1", "")
	mid := comment("c2", "c1")
	leaf := comment("c3", "c2")
	mid.Replies = []models.Comment{leaf}
	root.Replies = []models.Comment{mid}

	store := NewStore("post-1")
	store.Load([]models.Comment{root, comment("sibling", "")})

	ok := store.InsertReply("c3", comment("c4", "c3"), true)
	require.True(t, ok)

	// New comment hangs off c3, not at top level and not under a sibling
	assert.Equal(t, []string{"c4"}, store.Get("c3").Children)
	assert.NotContains(t, store.Roots(), "c4")
	assert.Empty(t, store.Get("sibling").Children)
	assert.Equal(t, 3, store.Depth("c4"))
	assert.True(t, store.Get("c4").Optimistic)
}

func TestInsertReplyMissingParentDropped(t *testing.T) {
	store := NewStore("post-1")
	store.Load([]models.Comment{comment("c1", "")})

	ok := store.InsertReply("gone", comment("c9", "gone"), true)
	assert.False(t, ok)
	assert.Nil(t, store.Get("c9"))
}

func TestDepthGate(t *testing.T) {
	// Build a synthetic chain five levels deep
	store := NewStore("post-1")
	store.Load([]models.Comment{comment("d0", "")})
	parent := "d0"
	for _, id := range []string{"d1", "d2", "d3", "d4", "d5"} {
		require.True(t, store.InsertReply(parent, comment(id, parent), false))
		parent = id
	}

	assert.True(t, store.CanReply("d0"))
	assert.True(t, store.CanReply("d3"))
	assert.False(t, store.CanReply("d4"))
	assert.False(t, store.CanReply("d5"))
	assert.False(t, store.CanReply("unknown"))
}

func TestLoadClobbersOptimisticInsert(t *testing.T) {
	store := NewStore("post-1")
	store.Load([]models.Comment{comment("c1", "")})
	store.InsertTopLevel(comment("tmp", ""), true)
	require.Len(t, store.Roots(), 2)

	gen := store.Generation()
	store.Load([]models.Comment{comment("c1", "")})

	// The fetch is authoritative: the optimistic entry is gone and the
	// generation moved past its tag.
	assert.Equal(t, []string{"c1"}, store.Roots())
	assert.Greater(t, store.Generation(), gen)
}

func TestWalkOrder(t *testing.T) {
	root := comment("c1", "")
	root.Replies = []models.Comment{comment("c2", "c1"), comment("c3", "c1")}

	store := NewStore("post-1")
	store.Load([]models.Comment{root, comment("c4", "")})

	var order []string
	var depths []int
	store.Walk(func(n *Node, depth int) {
		order = append(order, n.Comment.ID)
		depths = append(depths, depth)
	})
	assert.Equal(t, []string{"c1", "c2", "c3", "c4"}, order)
	assert.Equal(t, []int{0, 1, 1, 0}, depths)
}

func TestRemoveSubtree(t *testing.T) {
	root := comment("c1", "")
	mid := comment("c2", "c1")
	mid.Replies = []models.Comment{comment("c3", "c2")}
	root.Replies = []models.Comment{mid}

	store := NewStore("post-1")
	store.Load([]models.Comment{root})
	store.Remove("c2")

	assert.Nil(t, store.Get("c2"))
	assert.Nil(t, store.Get("c3"))
	assert.Empty(t, store.Get("c1").Children)
	assert.Equal(t, 1, store.Len())
}
