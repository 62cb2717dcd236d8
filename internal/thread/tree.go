// Package thread maintains the client-side cache of a post's comment tree:
// an arena of nodes indexed by id with parent back-references, optimistic
// inserts ahead of server confirmation, and wholesale replacement when an
// authoritative fetch lands.
package thread

import (
	"waveline/pkg/models"
)

// Node is one comment in the arena. Children holds ordered child ids; the
// Replies field of the embedded comment is not used once loaded.
type Node struct {
	Comment    models.Comment
	ParentID   string
	Children   []string
	Optimistic bool
	Gen        uint64
}

// Store holds the comment tree for a single post. It is not safe for
// concurrent use; the TUI event loop is the only caller.
type Store struct {
	postID string
	nodes  map[string]*Node
	roots  []string
	gen    uint64
}

// NewStore creates an empty store for one post
func NewStore(postID string) *Store {
	return &Store{
		postID: postID,
		nodes:  make(map[string]*Node),
	}
}

// PostID returns the owning post id
func (s *Store) PostID() string { return s.postID }

// Generation returns the current cache generation. It increments on every
// authoritative load, so optimistic nodes tagged with an older generation
// are naturally superseded.
func (s *Store) Generation() uint64 { return s.gen }

// Len returns the total number of nodes in the arena
func (s *Store) Len() int { return len(s.nodes) }

// Load replaces the entire tree with a server result. Entries with a
// non-null parent are discarded from the root view and only reachable
// through their parent's replies, so running Load on its own root output
// is a no-op. Optimistic state from before the load does not survive;
// a fetch is authoritative.
func (s *Store) Load(flat []models.Comment) {
	s.gen++
	s.nodes = make(map[string]*Node)
	s.roots = s.roots[:0]

	for i := range flat {
		c := flat[i]
		if !c.IsTopLevel() {
			continue
		}
		s.addSubtree(c, "")
	}
}

// addSubtree inserts c and, recursively, its nested replies
func (s *Store) addSubtree(c models.Comment, parentID string) {
	replies := c.Replies
	c.Replies = nil

	node := &Node{
		Comment:  c,
		ParentID: parentID,
		Gen:      s.gen,
	}
	s.nodes[c.ID] = node

	if parentID == "" {
		s.roots = append(s.roots, c.ID)
	} else {
		parent := s.nodes[parentID]
		parent.Children = append(parent.Children, c.ID)
	}

	for i := range replies {
		// A nested reply whose parent pointer disagrees with its position
		// is still attached where the server nested it.
		s.addSubtree(replies[i], c.ID)
	}
}

// InsertTopLevel appends a confirmed-or-optimistic comment to the root list
func (s *Store) InsertTopLevel(c models.Comment, optimistic bool) {
	c.Replies = nil
	s.nodes[c.ID] = &Node{
		Comment:    c,
		Optimistic: optimistic,
		Gen:        s.gen,
	}
	s.roots = append(s.roots, c.ID)
}

// InsertReply appends c under parentID at any depth. Returns false when the
// parent is unknown (deleted concurrently, or clobbered by a fetch); the
// caller drops the reply from view until the next authoritative load.
func (s *Store) InsertReply(parentID string, c models.Comment, optimistic bool) bool {
	parent, ok := s.nodes[parentID]
	if !ok {
		return false
	}
	c.Replies = nil
	c.Parent = &parentID
	s.nodes[c.ID] = &Node{
		Comment:    c,
		ParentID:   parentID,
		Optimistic: optimistic,
		Gen:        s.gen,
	}
	parent.Children = append(parent.Children, c.ID)
	return true
}

// Get returns the node for id, or nil
func (s *Store) Get(id string) *Node {
	return s.nodes[id]
}

// Depth returns the nesting depth of id: 0 for top-level, -1 when unknown
func (s *Store) Depth(id string) int {
	node, ok := s.nodes[id]
	if !ok {
		return -1
	}
	depth := 0
	for node.ParentID != "" {
		node = s.nodes[node.ParentID]
		depth++
	}
	return depth
}

// CanReply reports whether the reply composer is offered for id. Purely a
// presentation rule; the server accepts deeper nesting.
func (s *Store) CanReply(id string) bool {
	d := s.Depth(id)
	return d >= 0 && d < models.MaxReplyDepth
}

// Roots returns the ordered top-level comment ids
func (s *Store) Roots() []string {
	out := make([]string, len(s.roots))
	copy(out, s.roots)
	return out
}

// Walk visits every node depth-first in display order
func (s *Store) Walk(fn func(n *Node, depth int)) {
	for _, id := range s.roots {
		s.walkFrom(id, 0, fn)
	}
}

func (s *Store) walkFrom(id string, depth int, fn func(n *Node, depth int)) {
	node, ok := s.nodes[id]
	if !ok {
		return
	}
	fn(node, depth)
	for _, child := range node.Children {
		s.walkFrom(child, depth+1, fn)
	}
}

// TopLevel reconstructs the nested top-level slice, newest roots last.
// Used by views that render the thread as a plain comment list.
func (s *Store) TopLevel() []models.Comment {
	out := make([]models.Comment, 0, len(s.roots))
	for _, id := range s.roots {
		out = append(out, s.rebuild(id))
	}
	return out
}

func (s *Store) rebuild(id string) models.Comment {
	node := s.nodes[id]
	c := node.Comment
	c.Replies = nil
	for _, child := range node.Children {
		c.Replies = append(c.Replies, s.rebuild(child))
	}
	return c
}

// ApplyReaction applies a server-declared toggle transition to one comment
func (s *Store) ApplyReaction(id string, resp models.ToggleReactionResponse) bool {
	node, ok := s.nodes[id]
	if !ok {
		return false
	}
	ApplyToggle(&node.Comment.Reactions, resp)
	return true
}

// SetReactions replaces one comment's summary with a fetched known-good copy
func (s *Store) SetReactions(id string, summary models.ReactionSummary) bool {
	node, ok := s.nodes[id]
	if !ok {
		return false
	}
	node.Comment.Reactions = summary
	return true
}

// Remove deletes id and its whole subtree after a confirmed server delete
func (s *Store) Remove(id string) {
	node, ok := s.nodes[id]
	if !ok {
		return
	}
	for _, child := range append([]string(nil), node.Children...) {
		s.Remove(child)
	}
	delete(s.nodes, id)
	if node.ParentID == "" {
		s.roots = removeID(s.roots, id)
	} else if parent, ok := s.nodes[node.ParentID]; ok {
		parent.Children = removeID(parent.Children, id)
	}
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
