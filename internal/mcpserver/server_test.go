package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/naudiz/internal/noteservice"
	"github.com/starford/naudiz/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	_, files := testutil.TestSessions(t)
	db := testutil.TestArchive(t)
	svc := noteservice.NewService(files, testutil.Silent())
	return New(svc, db)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handler
	// functions are invoked directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "insert_note":
		result, err = srv.insertNote(ctx, req)
	case "edit_note":
		result, err = srv.editNote(ctx, req)
	case "delete_note":
		result, err = srv.deleteNote(ctx, req)
	case "navigate_note":
		result, err = srv.navigateNote(ctx, req)
	case "search_notes":
		result, err = srv.searchNotes(ctx, req)
	case "get_note_contract":
		result, err = srv.getNoteContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func insertedID(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	text := resultText(r)
	if !strings.HasPrefix(text, "inserted: ") {
		t.Fatalf("insert result = %q", text)
	}
	rest := strings.TrimPrefix(text, "inserted: ")
	return strings.Fields(rest)[0]
}

func TestInsertAndReadNote(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "insert_note", map[string]interface{}{"content": "hello from mcp"})
	id := insertedID(t, r)
	if !strings.Contains(resultText(r), "(number 1)") {
		t.Errorf("insert result = %q, want number 1", resultText(r))
	}

	r = callTool(t, srv, "read_note", map[string]interface{}{"id": id})
	if !strings.Contains(resultText(r), "hello from mcp") {
		t.Errorf("read result = %q", resultText(r))
	}
}

func TestInsertNoteEmptyContentCancels(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "insert_note", map[string]interface{}{"content": ""})
	if !strings.HasPrefix(resultText(r), "cancelled:") {
		t.Errorf("result = %q, want cancelled", resultText(r))
	}

	r = callTool(t, srv, "list_notes", map[string]interface{}{})
	if strings.Contains(resultText(r), `"id"`) {
		t.Errorf("cancelled insert left a note: %q", resultText(r))
	}
}

func TestEditNote(t *testing.T) {
	srv := testServer(t)
	id := insertedID(t, callTool(t, srv, "insert_note", map[string]interface{}{"content": "before"}))

	r := callTool(t, srv, "edit_note", map[string]interface{}{"id": id, "content": "after"})
	if resultText(r) != "updated: "+id {
		t.Errorf("edit result = %q", resultText(r))
	}

	r = callTool(t, srv, "read_note", map[string]interface{}{"id": id})
	if !strings.Contains(resultText(r), "after") {
		t.Errorf("read result = %q", resultText(r))
	}
}

func TestEditNoteMissing(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "edit_note", map[string]interface{}{"id": "ghost", "content": "x"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestDeleteNote(t *testing.T) {
	srv := testServer(t)
	id := insertedID(t, callTool(t, srv, "insert_note", map[string]interface{}{"content": "doomed"}))

	r := callTool(t, srv, "delete_note", map[string]interface{}{"id": id})
	if resultText(r) != "deleted: "+id {
		t.Errorf("delete result = %q", resultText(r))
	}

	r = callTool(t, srv, "read_note", map[string]interface{}{"id": id})
	if !r.IsError {
		t.Error("expected error reading deleted note")
	}
}

func TestNavigateNote(t *testing.T) {
	srv := testServer(t)
	id := insertedID(t, callTool(t, srv, "insert_note", map[string]interface{}{"content": "target"}))

	r := callTool(t, srv, "navigate_note", map[string]interface{}{"id": id})
	if !strings.HasPrefix(resultText(r), "offset: ") {
		t.Errorf("navigate result = %q", resultText(r))
	}

	r = callTool(t, srv, "navigate_note", map[string]interface{}{"id": "ghost"})
	if !r.IsError {
		t.Error("expected error for unknown id")
	}
}

func TestSearchNotesEmptyArchive(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "search_notes", map[string]interface{}{"query": "anything"})
	if r.IsError {
		t.Errorf("search errored: %q", resultText(r))
	}
}

func TestNoteContract(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_note_contract", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "insert_note") {
		t.Errorf("contract missing tool docs: %q", text)
	}
}

func TestMissingRequiredArg(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "read_note", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error for missing id argument")
	}
}
