// Package core provides the table state and filtering engine.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Codes are grouped by category:
//
// # Column Errors (COL001-COL099)
//
//	COL001 - Duplicate column: Two columns share the same id
//	         Action: Rename one of the columns in the table definition
//	COL002 - Unknown column: The column does not exist in this table
//	         Action: Refresh the table and try again
//	COL003 - Invalid column: A column definition is malformed
//	         Action: Check the table definition
//
// # Filter Errors (FLT001-FLT099)
//
//	FLT001 - Invalid filter: The filter does not fit this column
//	         Action: Use a filter matching the column type
//	FLT002 - Not numeric: A value under a range filter is not a number
//	         Action: Fix the data or remove the range filter
//	FLT003 - Not a date: A value under a date filter is not a date
//	         Action: Fix the data or remove the date filter
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL000 - Validation failed: One or more fields are invalid
//	VAL001 - Invalid date          Patterns: "invalid date"
//	VAL002 - Invalid number        Patterns: "invalid number"
//	VAL003 - Required field        Patterns: "required field"
//	VAL006 - Invalid enum          Patterns: "invalid enum"
//
// # Row Errors (ROW001-ROW099)
//
//	ROW001 - Row not found: The row no longer exists
//	ROW002 - Nothing selected: No rows are selected
//	ROW003 - Not selecting: Selecting mode is off
//
// # Data Source Errors (SRC001-SRC099)
//
//	SRC001 - Fetch failed: Rows could not be loaded
//	SRC002 - Read only: The data source does not accept changes
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key          Patterns: "duplicate key"
//	DB002 - Unique constraint      Patterns: "unique constraint", "violates unique"
//	DB004 - Connection refused     Patterns: "connection refused"
//	DB005 - Connection reset       Patterns: "connection reset"
//	DB006 - Timeout                Patterns: "timeout"
//
// # Session and Export Errors (SES001-SES099, EXP001-EXP099)
//
//	SES001 - Session not found     Patterns: "session not found"
//	SES002 - Table not found       Patterns: "table not found"
//	SES003 - Session limit         Patterns: "too many open sessions"
//	SES004 - Unknown row action    Patterns: "unknown row action"
//	EXP001 - Export busy           Patterns: "too many exports"
//	EXP002 - Unknown format        Patterns: "unknown export format"
//	EXP003 - Unknown scope         Patterns: "unknown export scope"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled     Patterns: "context canceled"
//	REQ002 - Request timeout       Patterns: "context deadline exceeded"
//	REQ003 - Unknown action        Patterns: "unknown action type"
//	REQ004 - Missing body          Patterns: "request body is empty"
//	REQ005 - Malformed body        Patterns: "decode action", "decode values"
//	REQ006 - Body too large        Patterns: "request body too large"
//	RATE001 - Rate limited         Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Matching
//
// Sentinel and typed errors of this package are matched first with
// errors.Is / errors.As. Everything else is matched case-insensitively
// against the pattern list; the first matching pattern wins.
package core

import (
	"errors"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

// sentinelMessages maps this package's errors to user messages.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrDuplicateColumnID, UserMessage{"Two columns share the same id", "Rename one of the columns in the table definition", "COL001"}},
	{ErrUnknownColumnID, UserMessage{"The column does not exist in this table", "Refresh the table and try again", "COL002"}},
	{ErrInvalidColumn, UserMessage{"A column definition is malformed", "Check the table definition", "COL003"}},
	{ErrNotNumeric, UserMessage{"A value under a range filter is not a number", "Fix the data or remove the range filter", "FLT002"}},
	{ErrNotDate, UserMessage{"A value under a date filter is not a date", "Fix the data or remove the date filter", "FLT003"}},
	{ErrInvalidFilter, UserMessage{"The filter does not fit this column", "Use a filter matching the column type", "FLT001"}},
	{ErrRowNotFound, UserMessage{"The row no longer exists", "Refresh the table and try again", "ROW001"}},
	{ErrNothingSelected, UserMessage{"No rows are selected", "Select one or more rows first", "ROW002"}},
	{ErrNotSelecting, UserMessage{"Selecting mode is off", "Turn on row selection first", "ROW003"}},
	{ErrReadOnlySource, UserMessage{"This table does not accept changes", "Open a writable data source", "SRC002"}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so more specific patterns come first.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Validation Errors
	// =========================================================================
	{"invalid date", UserMessage{"Invalid date format detected", "Use YYYY-MM-DD, MM/DD/YYYY, or Jan 15, 2024", "VAL001"}},
	{"invalid number", UserMessage{"Invalid number format detected", "Remove currency symbols and use standard decimal format", "VAL002"}},
	{"required field", UserMessage{"Required field is empty", "Fill in all required fields", "VAL003"}},
	{"invalid enum", UserMessage{"Value is not in the allowed list", "Check the allowed values for this field", "VAL006"}},

	// =========================================================================
	// Database Errors
	// =========================================================================
	{"duplicate key", UserMessage{"A record with this ID already exists", "Use a different ID", "DB001"}},
	{"unique constraint", UserMessage{"This value must be unique but already exists", "Use a different value", "DB002"}},
	{"violates unique", UserMessage{"A duplicate value was found", "Use a different value", "DB002"}},
	{"connection refused", UserMessage{"Unable to connect to database", "Please try again in a few moments", "DB004"}},
	{"connection reset", UserMessage{"Database connection was interrupted", "Please try again", "DB005"}},

	// =========================================================================
	// Session and Export Errors
	// =========================================================================
	{"session not found", UserMessage{"This table session has expired", "Reopen the table", "SES001"}},
	{"table not found", UserMessage{"The specified table does not exist", "Verify the table name is correct", "SES002"}},
	{"too many open sessions", UserMessage{"Too many tables are open", "Close a table or wait for idle sessions to expire", "SES003"}},
	{"unknown row action", UserMessage{"This action is not available for the table", "Refresh the table and try again", "SES004"}},
	{"unknown export scope", UserMessage{"The export scope is not supported", "Export the selected rows or all rows", "EXP003"}},
	{"too many exports", UserMessage{"Too many exports in progress", "Please wait a moment and try again", "EXP001"}},
	{"unknown export format", UserMessage{"This export format is not supported", "Choose csv, json, xlsx or parquet", "EXP002"}},

	// =========================================================================
	// Request Errors
	// =========================================================================
	{"unknown action type", UserMessage{"The table action is not recognized", "Check the action type", "REQ003"}},
	{"request body is empty", UserMessage{"The request has no body", "Send a JSON body", "REQ004"}},
	{"decode action", UserMessage{"The request body is not valid JSON", "Check the request body", "REQ005"}},
	{"decode values", UserMessage{"The request body is not valid JSON", "Check the request body", "REQ005"}},
	{"request body too large", UserMessage{"The request body is too large", "Send a smaller request", "REQ006"}},
	{"context canceled", UserMessage{"Request was cancelled", "Please try again", "REQ001"}},
	{"context deadline exceeded", UserMessage{"Request timed out", "Please try again", "REQ002"}},
	{"timeout", UserMessage{"Operation timed out", "Please try again later", "DB006"}},
	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},
}

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns an empty UserMessage for nil.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var vf *ValidationFailure
	if errors.As(err, &vf) {
		return UserMessage{
			Message: "Some fields are invalid: " + strings.Join(vf.Fields(), ", "),
			Action:  "Correct the highlighted fields and submit again",
			Code:    "VAL000",
		}
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return UserMessage{
			Message: "Rows could not be loaded",
			Action:  "Reload the table; if the problem persists check the data source",
			Code:    "SRC001",
		}
	}
	for _, s := range sentinelMessages {
		if errors.Is(err, s.err) {
			return s.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(errStr, p.pattern) {
			return p.msg
		}
	}
	return defaultMessage
}
