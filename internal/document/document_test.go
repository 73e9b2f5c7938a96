package document

import (
	"testing"
)

func TestWalkPreorder(t *testing.T) {
	d := Doc(
		Paragraph(Text("a"), Ref("A", 1)),
		Blockquote(Paragraph(Text("b"))),
	)

	var types []NodeType
	var offsets []int
	d.Walk(func(n *Node, off int) bool {
		types = append(types, n.Type)
		offsets = append(offsets, off)
		return true
	})

	want := []NodeType{NodeDoc, NodeParagraph, NodeText, NodeNoteRef, NodeBlockquote, NodeParagraph, NodeText}
	if len(types) != len(want) {
		t.Fatalf("visited %d nodes, want %d", len(types), len(want))
	}
	for i, ty := range want {
		if types[i] != ty {
			t.Errorf("node %d type = %q, want %q", i, types[i], ty)
		}
		if offsets[i] != i {
			t.Errorf("node %d offset = %d, want %d", i, offsets[i], i)
		}
	}
}

func TestWalkStopsEarly(t *testing.T) {
	d := Doc(Paragraph(Text("a")), Paragraph(Text("b")))
	visited := 0
	d.Walk(func(n *Node, off int) bool {
		visited++
		return off < 2
	})
	if visited != 3 {
		t.Errorf("visited = %d, want 3", visited)
	}
}

func TestNodeAt(t *testing.T) {
	d := Doc(Paragraph(Text("a"), Ref("A", 1)))
	n := d.NodeAt(3)
	if n == nil || n.Type != NodeNoteRef {
		t.Fatalf("NodeAt(3) = %+v, want noteref", n)
	}
	if d.NodeAt(99) != nil {
		t.Error("NodeAt past end should be nil")
	}
}

func TestClampOffset(t *testing.T) {
	d := Doc(Paragraph(Text("a")))
	if got := d.ClampOffset(-5); got != 0 {
		t.Errorf("ClampOffset(-5) = %d, want 0", got)
	}
	if got := d.ClampOffset(99); got != 2 {
		t.Errorf("ClampOffset(99) = %d, want 2", got)
	}
	if got := d.ClampOffset(1); got != 1 {
		t.Errorf("ClampOffset(1) = %d, want 1", got)
	}
}

func TestInsertReference_AfterInlineNode(t *testing.T) {
	d := Doc(Paragraph(Text("a"), Text("b")))

	// Offset 2 is the "a" text node; the marker lands between a and b.
	got := d.InsertReference(2, "A", 1)
	if got != 3 {
		t.Errorf("inserted offset = %d, want 3", got)
	}
	p := d.Root.Children[0]
	if len(p.Children) != 3 {
		t.Fatalf("paragraph has %d children, want 3", len(p.Children))
	}
	if p.Children[1].Type != NodeNoteRef || p.Children[1].NoteID != "A" {
		t.Errorf("middle child = %+v, want noteref A", p.Children[1])
	}
}

func TestInsertReference_IntoBlockNode(t *testing.T) {
	d := Doc(Paragraph(Text("a")))

	// Offset 1 is the paragraph; the marker is appended as last child.
	got := d.InsertReference(1, "A", 1)
	if got != 3 {
		t.Errorf("inserted offset = %d, want 3", got)
	}
	p := d.Root.Children[0]
	last := p.Children[len(p.Children)-1]
	if last.Type != NodeNoteRef || last.NoteID != "A" {
		t.Errorf("last child = %+v, want noteref A", last)
	}
}

func TestInsertReference_ClampsOutOfRange(t *testing.T) {
	d := Doc(Paragraph(Text("a")))
	got := d.InsertReference(999, "A", 1)
	if got < 0 {
		t.Fatalf("inserted offset = %d", got)
	}
	if n := d.NodeAt(got); n == nil || n.NoteID != "A" {
		t.Errorf("no marker at returned offset %d", got)
	}
}

func TestRemoveReferences(t *testing.T) {
	d := Doc(
		Paragraph(Text("a"), Ref("A", 1), Ref("B", 2)),
		Blockquote(Paragraph(Ref("A", 1))),
	)

	removed := d.RemoveReferences("A")
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	var ids []string
	d.Walk(func(n *Node, _ int) bool {
		if n.Type == NodeNoteRef {
			ids = append(ids, n.NoteID)
		}
		return true
	})
	if len(ids) != 1 || ids[0] != "B" {
		t.Errorf("surviving refs = %v, want [B]", ids)
	}
}

func TestRemoveReferences_Absent(t *testing.T) {
	d := Doc(Paragraph(Ref("A", 1)))
	if removed := d.RemoveReferences("Z"); removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
}

func TestSetReferenceNumbers(t *testing.T) {
	d := Doc(Paragraph(Ref("A", 7), Ref("B", 2), Ref("C", 3)))

	changed := d.SetReferenceNumbers(map[string]int{"A": 1, "B": 2})
	if changed != 1 {
		t.Errorf("changed = %d, want 1", changed)
	}
	p := d.Root.Children[0]
	if p.Children[0].Number != 1 {
		t.Errorf("A number = %d, want 1", p.Children[0].Number)
	}
	if p.Children[2].Number != 3 {
		t.Errorf("C number = %d, want 3 (untouched)", p.Children[2].Number)
	}
}

func TestCloneIsDeep(t *testing.T) {
	d := Doc(Paragraph(Text("a"), Ref("A", 1)))
	c := d.Clone()
	c.Root.Children[0].Children[1].Number = 99

	if d.Root.Children[0].Children[1].Number != 1 {
		t.Error("clone mutation leaked into original")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	d := Doc(
		Heading(Text("title")),
		Paragraph(Text("a"), Ref("A", 1)),
		Table(Row(Cell(Paragraph(Ref("B", 2))))),
	)

	data, err := d.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	data2, _ := back.Marshal()
	if string(data) != string(data2) {
		t.Errorf("round trip mismatch:\n%s\n%s", data, data2)
	}
}

func TestUnmarshalRejectsBadInput(t *testing.T) {
	if _, err := Unmarshal([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := Unmarshal([]byte(`{}`)); err == nil {
		t.Error("expected error for missing root type")
	}
}

func TestNewDocumentShape(t *testing.T) {
	d := New()
	if d.Root.Type != NodeDoc {
		t.Fatalf("root type = %q", d.Root.Type)
	}
	if len(d.Root.Children) != 1 || d.Root.Children[0].Type != NodeParagraph {
		t.Errorf("new document should hold a single empty paragraph")
	}
}
