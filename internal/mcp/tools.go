package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// registerTools registers the parse and session tools
func (s *Server) registerTools() {
	s.registerParse()

	s.registerSessionOpen()
	s.registerSessionFeed()
	s.registerSessionState()
	s.registerSessionClose()
	s.registerListSessions()
}

func (s *Server) registerParse() {
	tool := mcp.NewTool("mi_parse",
		mcp.WithDescription("Parse GDB/MI output. Each line becomes an entry holding its canonical wire form, its semantic object (kind plus typed fields) and any parse error. Prompts and blank lines are skipped; a bad line never aborts the batch."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("One or more MI output lines, newline separated"),
		),
		mcp.WithBoolean("semantic",
			mcp.Description("Map records to semantic objects (default: true)"),
		),
		mcp.WithBoolean("pretty",
			mcp.Description("Also return an indented rendering of every parsed record (default: false)"),
		),
		mcp.WithBoolean("dap",
			mcp.Description("Also return the Debug Adapter Protocol events the records translate to (default: false)"),
		),
	)
	s.mcpServer.AddTool(tool, s.handleParse)
}

func (s *Server) registerSessionOpen() {
	tool := mcp.NewTool("mi_session_open",
		mcp.WithDescription("Start tracking a GDB/MI output stream. Returns sessionId needed by the other mi_session tools. Sessions idle past the configured timeout are closed automatically."),
		mcp.WithString("name",
			mcp.Description("Optional label for the session, e.g. the program being debugged"),
		),
	)
	s.mcpServer.AddTool(tool, s.handleSessionOpen)
}

func (s *Server) registerSessionFeed() {
	tool := mcp.NewTool("mi_session_feed",
		mcp.WithDescription("Feed MI output text to a session. Complete lines are decoded and folded into the session state; an unterminated final line is buffered until the next feed."),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("Session ID from mi_session_open"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("MI output text"),
		),
		mcp.WithBoolean("flush",
			mcp.Description("Decode any buffered partial line after feeding (default: false)"),
		),
	)
	s.mcpServer.AddTool(tool, s.handleSessionFeed)
}

func (s *Server) registerSessionState() {
	tool := mcp.NewTool("mi_session_state",
		mcp.WithDescription("Get the tracked inferior state: execution state, thread groups, threads, selected thread, last stop, last error and changed parameters."),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("Session ID from mi_session_open"),
		),
	)
	s.mcpServer.AddTool(tool, s.handleSessionState)
}

func (s *Server) registerSessionClose() {
	tool := mcp.NewTool("mi_session_close",
		mcp.WithDescription("Stop tracking a session and discard its state"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("Session ID from mi_session_open"),
		),
	)
	s.mcpServer.AddTool(tool, s.handleSessionClose)
}

func (s *Server) registerListSessions() {
	tool := mcp.NewTool("mi_list_sessions",
		mcp.WithDescription("List all tracked sessions"),
	)
	s.mcpServer.AddTool(tool, s.handleListSessions)
}
