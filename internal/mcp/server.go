// Package mcp provides the Model Context Protocol (MCP) server implementation.
//
// This package exposes the GDB/MI parser through MCP tools that can be used
// by AI assistants and other MCP clients:
//
// Parsing:
//   - mi_parse: Parse MI output lines into records and semantic objects
//
// Session tracking:
//   - mi_session_open: Start tracking an MI stream
//   - mi_session_feed: Feed output text to a session
//   - mi_session_state: Inspect the tracked inferior state
//   - mi_session_close: Stop tracking a session
//   - mi_list_sessions: List tracked sessions
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ctagard/gdbmi/internal/config"
	"github.com/ctagard/gdbmi/internal/session"
	"github.com/ctagard/gdbmi/internal/stream"
	"github.com/ctagard/gdbmi/internal/version"
)

// Server wraps the MCP server with parsing and session tools
type Server struct {
	mcpServer      *server.MCPServer
	sessionManager *session.Manager
	config         *config.Config
	logger         *slog.Logger
}

// NewServer creates a new gdbmi MCP server
func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := server.NewMCPServer(
		"gdbmi",
		version.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	sessionManager := session.NewManager(cfg.MaxSessions, cfg.SessionTimeout.Std(), stream.Options{
		SkipUnknownClasses: cfg.SkipUnknownClasses,
		StrictSemantic:     cfg.StrictSemantic,
		Logger:             logger,
	})

	s := &Server{
		mcpServer:      mcpServer,
		sessionManager: sessionManager,
		config:         cfg,
		logger:         logger,
	}

	s.registerTools()

	return s
}

// ServeStdio starts the server using stdio transport
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Close shuts down the server
func (s *Server) Close() {
	s.sessionManager.Close()
}

// GetSessionManager returns the session manager
func (s *Server) GetSessionManager() *session.Manager {
	return s.sessionManager
}

// decodeOptions returns per-line options for one-shot parsing
func (s *Server) decodeOptions(semantic bool) stream.Options {
	return stream.Options{
		Semantic:           semantic,
		SkipUnknownClasses: s.config.SkipUnknownClasses,
		StrictSemantic:     s.config.StrictSemantic,
		Logger:             s.logger,
	}
}
