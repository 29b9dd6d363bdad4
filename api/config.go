// Package api provides the HTTP service behind the cloud backend: the
// knowledge document set, the history log, search and the MCP tools.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8081")
	ListenAddr string

	// Token, when set, is required as a bearer token on /v1 and /mcp routes.
	Token string
}
