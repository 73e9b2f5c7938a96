// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Naudiz note tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/naudiz/internal/apperr"
	"github.com/starford/naudiz/internal/archive"
	"github.com/starford/naudiz/internal/noteservice"
)

// Server wraps the MCP server with Naudiz tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
	cat archive.Catalog
}

// New creates a new MCP server with all Naudiz tools registered.
func New(svc *noteservice.Service, cat archive.Catalog) *Server {
	s := &Server{svc: svc, cat: cat}

	s.mcp = server.NewMCPServer(
		"Naudiz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List the document's notes in number order (id, content, number)."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a single note by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("insert_note",
		mcp.WithDescription("Insert a note at the current cursor. The content answers the "+
			"content prompt; empty content cancels and changes nothing. The returned "+
			"number is derived from document order and may differ from later listings. "+
			"Read the contract first via get_note_contract or the naudiz://note-contract resource."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Note content")),
	), s.insertNote)

	s.mcp.AddTool(mcp.NewTool("edit_note",
		mcp.WithDescription("Replace the content of an existing note. References and numbering are untouched."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithString("content", mcp.Required(), mcp.Description("New note content")),
	), s.editNote)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note: every reference marker for the id is removed "+
			"from the document and the survivors are renumbered."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.deleteNote)

	s.mcp.AddTool(mcp.NewTool("navigate_note",
		mcp.WithDescription("Resolve a note id to the document offset of its first reference marker."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.navigateNote)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Full-text search over note content across archived sessions."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("get_note_contract",
		mcp.WithDescription("Returns the Naudiz note contract. Call this before driving the note tools."),
	), s.getNoteContract)

	// Resource: note contract.
	s.mcp.AddResource(
		mcp.NewResource("naudiz://note-contract", "Note Contract",
			mcp.WithResourceDescription("How notes, references, and numbering behave."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteContractResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes := s.svc.Notes()
	out, _ := json.MarshalIndent(notes, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.svc.GetNote(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(n, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) insertNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	n, err := s.svc.InsertNote(ctx, noteservice.StaticPrompter{Text: content, Cancelled: content == ""})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if n == nil {
		return mcp.NewToolResultText("cancelled: empty content"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("inserted: %s (number %d)", n.ID, n.Number)), nil
}

func (s *Server) editNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	n, err := s.svc.EditNote(ctx, id, noteservice.StaticPrompter{Text: content, Cancelled: content == ""})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	if n == nil {
		return mcp.NewToolResultText("cancelled: note unchanged"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated: %s", n.ID)), nil
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.DeleteNote(id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", id)), nil
}

func (s *Server) navigateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pos, err := s.svc.NavigateToReference(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("no reference for: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("offset: %d", pos)), nil
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hits, err := s.cat.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(hits, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getNoteContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(NoteContract), nil
}

func (s *Server) readNoteContractResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "naudiz://note-contract",
			MIMEType: "text/markdown",
			Text:     NoteContract,
		},
	}, nil
}
