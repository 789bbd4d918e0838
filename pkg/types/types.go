// Package types defines shared data types used across gdbmi.
//
// This package provides type definitions for:
//   - OutputFormat: how decoded records are rendered (pretty, compact, json, dap)
//   - ExecState: inferior execution state folded from exec records
//   - SessionInfo, ThreadInfo, ThreadGroupInfo, StopInfo: session snapshots
//   - SessionState: complete tracked state for inspection
//
// These types are the JSON contract between the session tracker, the MCP
// tools and the CLI.
package types

import "time"

// OutputFormat selects how records are rendered
type OutputFormat string

const (
	FormatPretty  OutputFormat = "pretty"
	FormatCompact OutputFormat = "compact"
	FormatJSON    OutputFormat = "json"
	FormatDAP     OutputFormat = "dap"
)

// OutputFormats lists every supported format
var OutputFormats = []OutputFormat{FormatPretty, FormatCompact, FormatJSON, FormatDAP}

// Valid reports whether f is a supported format
func (f OutputFormat) Valid() bool {
	for _, known := range OutputFormats {
		if f == known {
			return true
		}
	}
	return false
}

// ExecState represents the execution state of the inferior
type ExecState string

const (
	ExecStateUnknown ExecState = "unknown"
	ExecStateRunning ExecState = "running"
	ExecStateStopped ExecState = "stopped"
	ExecStateExited  ExecState = "exited"
)

// SessionInfo represents information about a tracked session
type SessionInfo struct {
	SessionID string    `json:"sessionId"`
	Name      string    `json:"name,omitempty"`
	State     ExecState `json:"state"`
	Lines     int       `json:"lines"`
	Errors    int       `json:"errors"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ThreadInfo represents information about a thread
type ThreadInfo struct {
	ID            string `json:"id"`
	ThreadGroupID string `json:"threadGroupId"`
	Running       bool   `json:"running"`
}

// ThreadGroupInfo represents an inferior (thread group)
type ThreadGroupInfo struct {
	ID       string `json:"id"`
	PID      string `json:"pid,omitempty"`
	Started  bool   `json:"started"`
	ExitCode string `json:"exitCode,omitempty"`
}

// StopInfo summarizes the most recent stop
type StopInfo struct {
	Reason           string `json:"reason,omitempty"`
	ThreadID         string `json:"threadId,omitempty"`
	AllThreads       bool   `json:"allThreads"`
	BreakpointNumber string `json:"breakpointNumber,omitempty"`
	SignalName       string `json:"signalName,omitempty"`
	Function         string `json:"function,omitempty"`
	File             string `json:"file,omitempty"`
	Line             string `json:"line,omitempty"`
}

// SessionState represents a complete snapshot of tracked debugger state
type SessionState struct {
	SessionInfo
	SelectedThread string            `json:"selectedThread,omitempty"`
	ThreadGroups   []ThreadGroupInfo `json:"threadGroups"`
	Threads        []ThreadInfo      `json:"threads"`
	LastStop       *StopInfo         `json:"lastStop,omitempty"`
	LastError      string            `json:"lastError,omitempty"`
	Params         map[string]string `json:"params,omitempty"`
}
