// Package core provides the business logic for spreadsheet import operations.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// Typed import errors are matched first (via errors.Is), then technical error
// text is matched against known patterns.
//
// # Import Errors
//
//	SCH001 - Mixed column: A column holds more than one kind of value
//	         Action: Make every non-empty cell in the column the same type
//	         Matches: ErrSchemaInference
//
//	NAME001 - Naming: Unique table or column names could not be generated
//	          Action: Rename the sheets or header cells
//	          Matches: ErrNameGeneration
//
//	INV001 - Internal: The importer hit an internal consistency error
//	         Action: Report this to the maintainers with the workbook
//	         Matches: ErrInvariant
//
//	WB001 - Workbook structure: The workbook layout is not importable
//	        Action: Check header cells and row widths
//	        Matches: ErrWorkbookStructure
//
// # Workbook Errors (WB002-WB005)
//
//	WB002 - Not a workbook: File could not be opened as .xlsx
//	        Patterns: "zip: not a valid zip file", "unsupported workbook"
//
//	WB003 - Encrypted workbook: File is password protected
//	        Patterns: "encrypt", "workbook password"
//
//	WB004 - File too large: Upload exceeds the size limit
//	        Patterns: "file too large", "request body too large"
//
//	WB005 - No file: No file was provided
//	        Patterns: "no file provided"
//
// # Database Errors (DB001-DB007)
//
//	DB001 - Table exists: Target table already exists
//	        Patterns: "already exists"
//
//	DB002 - Value too long: A value does not fit its column
//	        Patterns: "value too long"
//
//	DB003 - Authentication: Database rejected the credentials
//	        Patterns: "password authentication failed"
//
//	DB004 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//
//	DB005 - Connection reset: Database connection was interrupted
//	        Patterns: "connection reset"
//
//	DB006 - Timeout: Operation timed out
//	        Patterns: "timeout", "deadline exceeded"
//
//	DB007 - Unsupported database URL
//	        Patterns: "unsupported database url"
//
// # Server Errors (SRV001)
//
//	SRV001 - Busy: Every import slot stayed taken for the wait period
//	         Patterns: "too many concurrent imports"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// Patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins.
package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrWorkbookStructure is matched by reader errors describing an
// unimportable workbook layout.
var ErrWorkbookStructure = errors.New("invalid workbook structure")

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// typedMessages maps sentinel errors to user messages. Checked before patterns.
var typedMessages = []struct {
	target error
	msg    UserMessage
}{
	{
		target: ErrSchemaInference,
		msg: UserMessage{
			Message: "A column holds more than one kind of value",
			Action:  "Make every non-empty cell in the column the same type",
			Code:    "SCH001",
		},
	},
	{
		target: ErrNameGeneration,
		msg: UserMessage{
			Message: "Unique table or column names could not be generated",
			Action:  "Rename the sheets or header cells",
			Code:    "NAME001",
		},
	},
	{
		target: ErrInvariant,
		msg: UserMessage{
			Message: "The importer hit an internal consistency error",
			Action:  "Report this to the maintainers with the workbook",
			Code:    "INV001",
		},
	},
	{
		target: ErrWorkbookStructure,
		msg: UserMessage{
			Message: "The workbook layout is not importable",
			Action:  "Header cells must be non-blank text and rows must not be wider than the header",
			Code:    "WB001",
		},
	},
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
	// Workbook Errors (WB002-WB005)
	// =========================================================================
	{
		pattern: "not a valid zip file",
		msg: UserMessage{
			Message: "File could not be opened as a workbook",
			Action:  "Save the file as .xlsx and try again",
			Code:    "WB002",
		},
	},
	{
		pattern: "unsupported workbook",
		msg: UserMessage{
			Message: "File could not be opened as a workbook",
			Action:  "Save the file as .xlsx and try again",
			Code:    "WB002",
		},
	},
	{
		pattern: "encrypt",
		msg: UserMessage{
			Message: "Workbook is password protected",
			Action:  "Remove the password and try again",
			Code:    "WB003",
		},
	},
	{
		pattern: "workbook password",
		msg: UserMessage{
			Message: "Workbook is password protected",
			Action:  "Remove the password and try again",
			Code:    "WB003",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Split the workbook into smaller files",
			Code:    "WB004",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Split the workbook into smaller files",
			Code:    "WB004",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select an .xlsx file to import",
			Code:    "WB005",
		},
	},

	// =========================================================================
	// Database Errors (DB001-DB007)
	// =========================================================================
	{
		pattern: "already exists",
		msg: UserMessage{
			Message: "Target table already exists",
			Action:  "Drop the table or import with --replace",
			Code:    "DB001",
		},
	},
	{
		pattern: "value too long",
		msg: UserMessage{
			Message: "A value does not fit its column",
			Action:  "Check the target database's text encoding",
			Code:    "DB002",
		},
	},
	{
		pattern: "password authentication failed",
		msg: UserMessage{
			Message: "Database rejected the credentials",
			Action:  "Check the database user and password",
			Code:    "DB003",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try a smaller workbook or try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadline exceeded",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try a smaller workbook or try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "unsupported database url",
		msg: UserMessage{
			Message: "Database URL scheme is not supported",
			Action:  "Use a postgres://, libsql://, or duckdb: URL",
			Code:    "DB007",
		},
	},

	// =========================================================================
	// Server Errors (SRV001)
	// =========================================================================
	{
		pattern: "too many concurrent imports",
		msg: UserMessage{
			Message: "The server is busy with other imports",
			Action:  "Please retry in a few moments",
			Code:    "SRV001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	_, err := importer.Import(ctx, wb)
//	msg := MapError(err)
//	// msg.Code == "SCH001" for a mixed-type column
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, tm := range typedMessages {
		if errors.Is(err, tm.target) {
			return tm.msg
		}
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

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// IsInputError reports whether err was caused by the workbook's content
// rather than by the database or a bug.
func IsInputError(err error) bool {
	return errors.Is(err, ErrSchemaInference) ||
		errors.Is(err, ErrNameGeneration) ||
		errors.Is(err, ErrWorkbookStructure)
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

// NewUserError creates a UserError by mapping a technical error.
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
