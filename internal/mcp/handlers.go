package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/go-dap"
	"github.com/mark3labs/mcp-go/mcp"

	internaldap "github.com/ctagard/gdbmi/internal/dap"
	"github.com/ctagard/gdbmi/internal/stream"
	"github.com/ctagard/gdbmi/pkg/errors"
	"github.com/ctagard/gdbmi/pkg/mi"
)

// Parsing Handlers

func (s *Server) handleParse(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(errors.MissingParameter("text",
			"Provide one or more lines of GDB/MI output, e.g. *stopped,reason=\"breakpoint-hit\",thread-id=\"1\".").Error()), nil
	}

	semantic := request.GetBool("semantic", true)
	withPretty := request.GetBool("pretty", false)
	withDAP := request.GetBool("dap", false)

	var (
		views  = []stream.View{}
		pretty strings.Builder
		events []dap.Message
	)
	translator := internaldap.NewTranslator()
	printer := mi.NewPrinter(&pretty, mi.WithIndent(s.config.Indent))

	dec := stream.NewDecoder(strings.NewReader(text), s.decodeOptions(semantic || withDAP))
	err = dec.Run(ctx, func(e *stream.Entry) error {
		views = append(views, e.View())
		if withPretty && e.Record != nil {
			if err := printer.Print(e.Record); err != nil {
				return err
			}
		}
		if withDAP && e.Object != nil {
			events = append(events, translator.Translate(e.Object)...)
		}
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse: %v", err)), nil
	}

	if !semantic {
		for i := range views {
			views[i].Kind = ""
			views[i].Object = nil
		}
	}

	result := map[string]interface{}{
		"entries": views,
		"lines":   dec.Lines(),
	}
	if withPretty {
		result["pretty"] = pretty.String()
	}
	if withDAP {
		if events == nil {
			events = []dap.Message{}
		}
		result["events"] = events
	}
	return jsonResult(result)
}

// Session Handlers

func (s *Server) handleSessionOpen(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("name", "")

	session, err := s.sessionManager.CreateSession(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]interface{}{
		"sessionId": session.ID,
		"name":      session.Name,
		"status":    "open",
	})
}

func (s *Server) handleSessionFeed(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("sessionId")
	if err != nil {
		return mcp.NewToolResultError(errors.MissingParameter("sessionId",
			"Use the sessionId returned by mi_session_open.").Error()), nil
	}
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(errors.MissingParameter("text",
			"Provide the MI output to feed to the session.").Error()), nil
	}

	session, err := s.sessionManager.GetSession(sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	now := s.sessionManager.Now()
	entries := session.Feed(text, now)
	if request.GetBool("flush", false) {
		entries = append(entries, session.Flush(now)...)
	}

	views := make([]stream.View, len(entries))
	for i, e := range entries {
		views[i] = e.View()
	}

	return jsonResult(map[string]interface{}{
		"sessionId": sessionID,
		"entries":   views,
		"session":   session.Info(),
	})
}

func (s *Server) handleSessionState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("sessionId")
	if err != nil {
		return mcp.NewToolResultError(errors.MissingParameter("sessionId",
			"Use the sessionId returned by mi_session_open.").Error()), nil
	}

	session, err := s.sessionManager.GetSession(sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(session.State())
}

func (s *Server) handleSessionClose(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("sessionId")
	if err != nil {
		return mcp.NewToolResultError(errors.MissingParameter("sessionId",
			"Use the sessionId returned by mi_session_open.").Error()), nil
	}

	if err := s.sessionManager.CloseSession(sessionID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]interface{}{
		"sessionId": sessionID,
		"status":    "closed",
	})
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions := s.sessionManager.ListSessions()

	result := make([]interface{}, len(sessions))
	for i, session := range sessions {
		result[i] = session.Info()
	}

	return jsonResult(map[string]interface{}{
		"sessions": result,
	})
}

func jsonResult(data interface{}) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
