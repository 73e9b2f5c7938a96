package internal

import (
	"github.com/starford/naudiz/internal/archive"
	"github.com/starford/naudiz/internal/mcpserver"
	"github.com/starford/naudiz/internal/noteservice"
)

// runMCP serves the note tools over stdio instead of HTTP. Logs go to
// stderr so stdout stays clean for the MCP transport.
func runMCP(svc *noteservice.Service, db *archive.DB) error {
	return mcpserver.New(svc, db).ServeStdio()
}
