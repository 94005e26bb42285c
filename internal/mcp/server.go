// Package mcp exposes the study-notes core as MCP tools so agent clients can
// browse and summarize materials with the same auth and ownership rules as
// the HTTP API.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/apresai/studynotes/internal/store"
	"github.com/apresai/studynotes/internal/summarize"
	"github.com/mark3labs/mcp-go/server"
)

// authHeaderKey carries the raw Authorization header from the HTTP layer to
// the tool handlers, which validate it per call.
type authHeaderKey struct{}

func withAuthHeader(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, authHeaderKey{}, r.Header.Get("Authorization"))
}

func authHeaderFromContext(ctx context.Context) string {
	header, _ := ctx.Value(authHeaderKey{}).(string)
	return header
}

// Server is the MCP server for study-notes tools.
type Server struct {
	port int
	http *server.StreamableHTTPServer
	log  *slog.Logger
}

// New creates and configures the MCP server.
func New(port int, st *store.Store, generator summarize.Generator, logger *slog.Logger) *Server {
	handlers := NewHandlers(st, generator, logger)

	mcpServer := server.NewMCPServer(
		"studynotes",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	tools := ToolDefs()
	mcpServer.AddTool(tools[0], handlers.HandleListMaterials)
	mcpServer.AddTool(tools[1], handlers.HandleGetMaterial)
	mcpServer.AddTool(tools[2], handlers.HandleGetLatestSummary)
	mcpServer.AddTool(tools[3], handlers.HandleSummarizeMaterial)

	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
		server.WithHTTPContextFunc(withAuthHeader),
	)

	return &Server{port: port, http: httpServer, log: logger}
}

// Start runs the streamable HTTP MCP server until it fails or Shutdown is
// called.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.log.Info("Starting MCP server", "addr", addr)

	if err := s.http.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and unblocks Start.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
