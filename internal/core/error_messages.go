package core

// # Error Codes Reference
//
// User-facing messages with codes for support reference. The CLI prints
// them after a failed command and the web layer returns them as JSON.
//
// # Table Errors (TBL001-TBL099)
//
//	TBL001 - No table kind: The file name does not contain a known table kind
//	         Action: Rename the file to include a table kind or pass --table
//	         Patterns: "no table kind"
//
//	TBL002 - Unknown table: Table kind is not configured
//	         Action: Run "bubblemigrate tables" to list configured kinds
//	         Patterns: "unknown table kind"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL004 - Missing column: Required column is missing
//	         Action: Check that all required columns are present in your export
//	         Patterns: "missing required column"
//
//	VAL007 - Inconsistent columns: Rows do not share the header's columns
//	         Action: Re-export the table; the file looks hand-edited or truncated
//	         Patterns: "inconsistent columns"
//
// # File Errors (FILE001-FILE099)
//
//	FILE002 - Invalid CSV: File is not a valid CSV
//	          Patterns: "invalid csv"
//
//	FILE005 - Empty file: The file has no data rows
//	          Patterns: "empty file"
//
//	FILE006 - Unsupported file: Only .csv and .xlsx are handled
//	          Patterns: "unsupported file type"
//
//	FILE007 - No file columns: No bubble.io links in the file
//	          Patterns: "no file columns"
//
// # Network Errors (NET001-NET099)
//
//	NET001 - Storage rejected: The storage service refused the request
//	         Patterns: "storage status"
//
//	NET002 - Download failed: A source file could not be fetched
//	         Patterns: "download status"
//
//	NET003 - Storage not configured: Storage URL or key is missing
//	         Patterns: "storage not configured"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL001 - File too large: Request body exceeds SERVER_MAX_UPLOAD_SIZE
//	         Patterns: "request body too large"
//
//	UPL002 - Too many transfers: All transfer slots stayed busy
//	         Patterns: "too many concurrent transfers"
//
//	UPL004 - Cancelled: The run was cancelled
//	         Patterns: "context canceled"
//
//	UPL005 - Timeout: The run timed out
//	         Patterns: "context deadline exceeded"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches.
//
// Patterns are matched case-insensitively with strings.Contains; the first
// match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Table errors
	{
		pattern: "no table kind",
		msg: UserMessage{
			Message: "The file name does not name a known table kind",
			Action:  "Rename the file to include a table kind or pass --table",
			Code:    "TBL001",
		},
	},
	{
		pattern: "unknown table kind",
		msg: UserMessage{
			Message: "Unknown table kind",
			Action:  `Run "bubblemigrate tables" to list configured kinds`,
			Code:    "TBL002",
		},
	},

	// Validation errors
	{
		pattern: "missing required column",
		msg: UserMessage{
			Message: "Required column is missing",
			Action:  "Check that all required columns are present in your export",
			Code:    "VAL004",
		},
	},
	{
		pattern: "inconsistent columns",
		msg: UserMessage{
			Message: "Rows do not share the same columns",
			Action:  "Re-export the table; the file looks hand-edited or truncated",
			Code:    "VAL007",
		},
	},

	// File errors
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure file is comma-separated with consistent columns",
			Code:    "FILE002",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The file has no data rows",
			Action:  "Export the table again with at least one row",
			Code:    "FILE005",
		},
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "Unsupported file type",
			Action:  "Use a .csv or .xlsx export",
			Code:    "FILE006",
		},
	},
	{
		pattern: "no file columns",
		msg: UserMessage{
			Message: "No bubble.io file links were found",
			Action:  "Check that the export contains file columns",
			Code:    "FILE007",
		},
	},

	// Network errors
	{
		pattern: "storage status",
		msg: UserMessage{
			Message: "The storage service rejected the request",
			Action:  "Check the storage key and bucket names",
			Code:    "NET001",
		},
	},
	{
		pattern: "download status",
		msg: UserMessage{
			Message: "A source file could not be downloaded",
			Action:  "Check that the link is still reachable",
			Code:    "NET002",
		},
	},
	{
		pattern: "storage not configured",
		msg: UserMessage{
			Message: "Storage is not configured",
			Action:  "Set STORAGE_URL and STORAGE_KEY (or SUPABASE_URL and SUPABASE_KEY)",
			Code:    "NET003",
		},
	},

	// Upload errors
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds maximum upload size",
			Action:  "Split the export or raise SERVER_MAX_UPLOAD_SIZE",
			Code:    "UPL001",
		},
	},
	{
		pattern: "too many concurrent transfers",
		msg: UserMessage{
			Message: "All transfer slots stayed busy",
			Action:  "Lower TRANSFER_MAX_CONCURRENT or raise TRANSFER_MAX_WAIT",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The run was cancelled",
			Action:  "Start the command again when ready",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The run timed out",
			Action:  "Raise TRANSFER_TIMEOUT or split the file",
			Code:    "UPL005",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the log output for details",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It returns the first matching pattern, or ERR000 if none match.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
