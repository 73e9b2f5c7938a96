package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	mcp    bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithMCP switches the application into MCP stdio mode instead of the
// HTTP server.
func WithMCP() Option {
	return func(a *application) {
		a.mcp = true
	}
}
