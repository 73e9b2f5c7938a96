// Package document implements the typed node tree the note engine
// operates on: a minimal structured-document substrate with preorder
// addressing, plus a transactional editor with undo/redo.
package document

import (
	"encoding/json"
	"fmt"
)

// NodeType identifies the kind of a document node.
type NodeType string

// Node types. Text and NoteRef are inline; everything else is a block
// container.
const (
	NodeDoc        NodeType = "doc"
	NodeHeading    NodeType = "heading"
	NodeParagraph  NodeType = "paragraph"
	NodeBlockquote NodeType = "blockquote"
	NodeList       NodeType = "list"
	NodeListItem   NodeType = "list_item"
	NodeTable      NodeType = "table"
	NodeTableRow   NodeType = "table_row"
	NodeTableCell  NodeType = "table_cell"
	NodeText       NodeType = "text"
	NodeNoteRef    NodeType = "noteref"
)

// Node is a single document node. NoteID and Number are populated only
// on NodeNoteRef nodes; Number is a cached display value owned by the
// synchronizer, not a source of truth.
type Node struct {
	Type     NodeType `json:"type"`
	Text     string   `json:"text,omitempty"`
	NoteID   string   `json:"note_id,omitempty"`
	Number   int      `json:"number,omitempty"`
	Children []*Node  `json:"children,omitempty"`
}

// Inline reports whether the node is an inline node (cannot carry children).
func (n *Node) Inline() bool {
	return n.Type == NodeText || n.Type == NodeNoteRef
}

// Clone returns a deep copy of the node and its subtree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Type:   n.Type,
		Text:   n.Text,
		NoteID: n.NoteID,
		Number: n.Number,
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = ch.Clone()
		}
	}
	return c
}

// Document is a tree of nodes rooted at a NodeDoc.
type Document struct {
	Root *Node
}

// New returns an empty document: a doc root with a single empty paragraph.
func New() *Document {
	return &Document{
		Root: &Node{
			Type:     NodeDoc,
			Children: []*Node{{Type: NodeParagraph}},
		},
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	return &Document{Root: d.Root.Clone()}
}

// Walk visits every node in depth-first, left-to-right order, passing
// each node and its preorder offset (root = 0). Returning false stops
// the walk.
func (d *Document) Walk(fn func(n *Node, offset int) bool) {
	offset := 0
	var visit func(n *Node) bool
	visit = func(n *Node) bool {
		if !fn(n, offset) {
			return false
		}
		offset++
		for _, ch := range n.Children {
			if !visit(ch) {
				return false
			}
		}
		return true
	}
	if d.Root != nil {
		visit(d.Root)
	}
}

// NodeAt returns the node at the given preorder offset, or nil.
func (d *Document) NodeAt(offset int) *Node {
	var found *Node
	d.Walk(func(n *Node, off int) bool {
		if off == offset {
			found = n
			return false
		}
		return true
	})
	return found
}

// MaxOffset returns the preorder offset of the last node in the tree.
func (d *Document) MaxOffset() int {
	max := 0
	d.Walk(func(_ *Node, off int) bool {
		max = off
		return true
	})
	return max
}

// ClampOffset snaps an offset into the valid range for this tree.
func (d *Document) ClampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	if max := d.MaxOffset(); offset > max {
		return max
	}
	return offset
}

// findWithParent locates the node at offset along with its parent and
// index within the parent's children. parent is nil for the root.
func (d *Document) findWithParent(offset int) (node, parent *Node, idx int) {
	pos := 0
	var visit func(n, p *Node, i int) bool
	visit = func(n, p *Node, i int) bool {
		if pos == offset {
			node, parent, idx = n, p, i
			return false
		}
		pos++
		for ci, ch := range n.Children {
			if !visit(ch, n, ci) {
				return false
			}
		}
		return true
	}
	if d.Root != nil {
		visit(d.Root, nil, 0)
	}
	return node, parent, idx
}

// InsertReference inserts a reference marker for id near the given
// preorder offset and returns the offset of the inserted node. The
// offset is clamped to the tree; an inline target gets the marker as
// its next sibling, a block target gets it appended as a last child.
func (d *Document) InsertReference(offset int, id string, number int) int {
	offset = d.ClampOffset(offset)
	target, parent, idx := d.findWithParent(offset)
	ref := &Node{Type: NodeNoteRef, NoteID: id, Number: number}

	if target.Inline() && parent != nil {
		children := parent.Children
		children = append(children[:idx+1], append([]*Node{ref}, children[idx+1:]...)...)
		parent.Children = children
	} else {
		target.Children = append(target.Children, ref)
	}

	inserted := -1
	d.Walk(func(n *Node, off int) bool {
		if n == ref {
			inserted = off
			return false
		}
		return true
	})
	return inserted
}

// RemoveReferences deletes every reference marker for id and returns
// the number of nodes removed.
func (d *Document) RemoveReferences(id string) int {
	removed := 0
	var prune func(n *Node)
	prune = func(n *Node) {
		kept := n.Children[:0]
		for _, ch := range n.Children {
			if ch.Type == NodeNoteRef && ch.NoteID == id {
				removed++
				continue
			}
			prune(ch)
			kept = append(kept, ch)
		}
		n.Children = kept
	}
	if d.Root != nil {
		prune(d.Root)
	}
	return removed
}

// SetReferenceNumbers rewrites the cached display number on every
// reference marker whose number differs from the given assignment,
// returning how many nodes changed. Markers whose id is absent from
// the map are left untouched.
func (d *Document) SetReferenceNumbers(numbers map[string]int) int {
	changed := 0
	d.Walk(func(n *Node, _ int) bool {
		if n.Type != NodeNoteRef || n.NoteID == "" {
			return true
		}
		if want, ok := numbers[n.NoteID]; ok && n.Number != want {
			n.Number = want
			changed++
		}
		return true
	})
	return changed
}

// Marshal serializes the tree as JSON.
func (d *Document) Marshal() ([]byte, error) {
	return json.Marshal(d.Root)
}

// Unmarshal rebuilds a document from JSON produced by Marshal.
func Unmarshal(data []byte) (*Document, error) {
	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("document: unmarshal: %w", err)
	}
	if root.Type == "" {
		return nil, fmt.Errorf("document: missing root type")
	}
	return &Document{Root: &root}, nil
}
