package document

// Tree-building helpers, used by tests and by callers assembling
// documents programmatically.

// Doc builds a document from block children.
func Doc(children ...*Node) *Document {
	return &Document{Root: &Node{Type: NodeDoc, Children: children}}
}

// Paragraph builds a paragraph from inline children.
func Paragraph(children ...*Node) *Node {
	return &Node{Type: NodeParagraph, Children: children}
}

// Heading builds a heading from inline children.
func Heading(children ...*Node) *Node {
	return &Node{Type: NodeHeading, Children: children}
}

// Blockquote builds a blockquote from block children.
func Blockquote(children ...*Node) *Node {
	return &Node{Type: NodeBlockquote, Children: children}
}

// List builds a list from list items.
func List(items ...*Node) *Node {
	return &Node{Type: NodeList, Children: items}
}

// Item builds a list item from block children.
func Item(children ...*Node) *Node {
	return &Node{Type: NodeListItem, Children: children}
}

// Table builds a table from rows.
func Table(rows ...*Node) *Node {
	return &Node{Type: NodeTable, Children: rows}
}

// Row builds a table row from cells.
func Row(cells ...*Node) *Node {
	return &Node{Type: NodeTableRow, Children: cells}
}

// Cell builds a table cell from block children.
func Cell(children ...*Node) *Node {
	return &Node{Type: NodeTableCell, Children: children}
}

// Text builds an inline text node.
func Text(s string) *Node {
	return &Node{Type: NodeText, Text: s}
}

// Ref builds an inline note-reference marker.
func Ref(id string, number int) *Node {
	return &Node{Type: NodeNoteRef, NoteID: id, Number: number}
}
