// Package errors provides structured error types for the GDB/MI parser.
// Every failure carries a machine-readable code, a message, and a hint
// describing how a caller can recover (skip the line, fall back to the
// syntax tree, fix the configuration).
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a category of error for programmatic handling
type ErrorCode string

const (
	// Grammar errors
	CodeMalformedLine      ErrorCode = "MALFORMED_LINE"
	CodeUnknownRecordClass ErrorCode = "UNKNOWN_RECORD_CLASS"

	// Semantic mapping errors
	CodeUnknownStopReason ErrorCode = "UNKNOWN_STOP_REASON"
	CodeMissingField      ErrorCode = "MISSING_FIELD"
	CodeInvalidField      ErrorCode = "INVALID_FIELD"
	CodeNoSemanticMapping ErrorCode = "NO_SEMANTIC_MAPPING"

	// Parameter errors
	CodeMissingParameter ErrorCode = "MISSING_PARAMETER"
	CodeInvalidParameter ErrorCode = "INVALID_PARAMETER"

	// Configuration errors
	CodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Session errors
	CodeSessionNotFound     ErrorCode = "SESSION_NOT_FOUND"
	CodeSessionLimitReached ErrorCode = "SESSION_LIMIT_REACHED"
)

// Sentinels for errors.Is. Matching compares codes only.
var (
	ErrMalformedLine      = &DebugError{Code: CodeMalformedLine, Message: "malformed line"}
	ErrUnknownRecordClass = &DebugError{Code: CodeUnknownRecordClass, Message: "unknown record class"}
	ErrUnknownStopReason  = &DebugError{Code: CodeUnknownStopReason, Message: "unknown stop reason"}
	ErrMissingField       = &DebugError{Code: CodeMissingField, Message: "missing field"}
	ErrInvalidField       = &DebugError{Code: CodeInvalidField, Message: "invalid field"}
	ErrNoSemanticMapping  = &DebugError{Code: CodeNoSemanticMapping, Message: "no semantic mapping"}
)

// DebugError is a structured error type that includes enough context
// (offending text, expected construct) for a caller to log it.
type DebugError struct {
	// Code is a machine-readable error category
	Code ErrorCode `json:"code"`

	// Message is a human-readable description of what went wrong
	Message string `json:"message"`

	// Hint provides actionable guidance on how to recover
	Hint string `json:"hint,omitempty"`

	// Details contains additional context (e.g., the offending line, offset)
	Details map[string]interface{} `json:"details,omitempty"`

	// Cause is the underlying error, if any
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *DebugError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Hint != "" {
		sb.WriteString(" | Hint: ")
		sb.WriteString(e.Hint)
	}

	return sb.String()
}

// Unwrap returns the underlying error for error chaining
func (e *DebugError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DebugError with the same code.
func (e *DebugError) Is(target error) bool {
	t, ok := target.(*DebugError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetails adds details to the error
func (e *DebugError) WithDetails(key string, value interface{}) *DebugError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause
func (e *DebugError) WithCause(err error) *DebugError {
	e.Cause = err
	return e
}

// --- Grammar Errors ---

// MalformedLine creates an error for a grammar violation. offset is the
// byte position in line where parsing stopped.
func MalformedLine(line string, offset int, construct, expected string) *DebugError {
	found := "EOF"
	if offset < len(line) {
		found = fmt.Sprintf("%q", line[offset])
	}
	return &DebugError{
		Code:    CodeMalformedLine,
		Message: fmt.Sprintf("malformed %s at offset %d: expected %s, found %s", construct, offset, expected, found),
		Hint:    "The line does not follow the GDB/MI output grammar. Drop the line and continue with the next one.",
		Details: map[string]interface{}{
			"line":      line,
			"offset":    offset,
			"construct": construct,
			"expected":  expected,
			"found":     found,
		},
	}
}

// UnknownRecordClass creates an error for an unrecognized indicator/class pair
func UnknownRecordClass(indicator byte, class string) *DebugError {
	return &DebugError{
		Code:    CodeUnknownRecordClass,
		Message: fmt.Sprintf("unknown record class %q for indicator '%c'", class, indicator),
		Hint:    "The debugger emitted a record class this parser does not know. The line may be skipped safely.",
		Details: map[string]interface{}{
			"indicator": string(indicator),
			"class":     class,
		},
	}
}

// --- Semantic Mapping Errors ---

// UnknownStopReason creates an error for a stop reason outside the known set
func UnknownStopReason(reason string) *DebugError {
	return &DebugError{
		Code:    CodeUnknownStopReason,
		Message: fmt.Sprintf("unknown stop reason %q", reason),
		Hint:    "The stopped record parsed correctly; fall back to the syntax tree to inspect it.",
		Details: map[string]interface{}{
			"reason": reason,
		},
	}
}

// MissingField creates an error for a required key absent from a record
func MissingField(class, field string) *DebugError {
	return &DebugError{
		Code:    CodeMissingField,
		Message: fmt.Sprintf("%s record is missing required field %q", class, field),
		Hint:    "The record parsed correctly; fall back to the syntax tree to inspect it.",
		Details: map[string]interface{}{
			"class": class,
			"field": field,
		},
	}
}

// InvalidField creates an error for a field whose value has the wrong shape
func InvalidField(class, field, expected string) *DebugError {
	return &DebugError{
		Code:    CodeInvalidField,
		Message: fmt.Sprintf("%s record field %q is not a %s", class, field, expected),
		Hint:    "The record parsed correctly; fall back to the syntax tree to inspect it.",
		Details: map[string]interface{}{
			"class":    class,
			"field":    field,
			"expected": expected,
		},
	}
}

// NoSemanticMapping creates an error for a known class with no semantic variant
func NoSemanticMapping(indicator byte, class string) *DebugError {
	return &DebugError{
		Code:    CodeNoSemanticMapping,
		Message: fmt.Sprintf("no semantic object for '%c%s' records", indicator, class),
		Hint:    "Use the syntax tree for this record.",
		Details: map[string]interface{}{
			"indicator": string(indicator),
			"class":     class,
		},
	}
}

// --- Parameter Errors ---

// MissingParameter creates an error for missing required parameters
func MissingParameter(paramName, description string) *DebugError {
	return &DebugError{
		Code:    CodeMissingParameter,
		Message: fmt.Sprintf("required parameter '%s' is missing", paramName),
		Hint:    description,
		Details: map[string]interface{}{
			"parameter": paramName,
		},
	}
}

// InvalidParameter creates an error for invalid parameter values
func InvalidParameter(paramName string, value interface{}, expected string) *DebugError {
	return &DebugError{
		Code:    CodeInvalidParameter,
		Message: fmt.Sprintf("invalid value for parameter '%s': %v", paramName, value),
		Hint:    fmt.Sprintf("Expected: %s", expected),
		Details: map[string]interface{}{
			"parameter": paramName,
			"value":     value,
			"expected":  expected,
		},
	}
}

// --- Configuration Errors ---

// ConfigInvalid creates an error for invalid configuration
func ConfigInvalid(source, reason string) *DebugError {
	return &DebugError{
		Code:    CodeConfigInvalid,
		Message: fmt.Sprintf("configuration %s is invalid: %s", source, reason),
		Hint:    "Check the configuration file for syntax errors and unsupported values.",
		Details: map[string]interface{}{
			"source": source,
			"reason": reason,
		},
	}
}

// --- Session Errors ---

// SessionNotFound creates an error for when a session ID doesn't exist
func SessionNotFound(sessionID string) *DebugError {
	return &DebugError{
		Code:    CodeSessionNotFound,
		Message: fmt.Sprintf("session '%s' not found", sessionID),
		Hint:    "Use mi_list_sessions to see active sessions, or mi_session_open to create a new one.",
		Details: map[string]interface{}{
			"sessionId": sessionID,
		},
	}
}

// SessionLimitReached creates an error when max sessions is reached
func SessionLimitReached(maxSessions int) *DebugError {
	return &DebugError{
		Code:    CodeSessionLimitReached,
		Message: fmt.Sprintf("maximum number of sessions (%d) reached", maxSessions),
		Hint:    "Use mi_session_close to end an existing session before opening a new one.",
		Details: map[string]interface{}{
			"maxSessions": maxSessions,
		},
	}
}

// --- Helpers ---

// HasCode reports whether err is, or wraps, a DebugError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var de *DebugError
	if stderrors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// FromError creates a DebugError from a generic error, attempting to preserve any existing structure
func FromError(err error) *DebugError {
	var de *DebugError
	if stderrors.As(err, &de) {
		return de
	}
	return &DebugError{
		Code:    "UNKNOWN_ERROR",
		Message: err.Error(),
		Hint:    "An unexpected error occurred. Please check the error message for details.",
		Cause:   err,
	}
}
