package core

// error_messages.go maps errors to user-facing messages.
//
// # Error Codes Reference
//
// The engine itself never fails: bad row data degrades to empty cells and
// inactive filters. The errors below come from the layers around it
// (dataset lookup, table instances, row sources, request throttling). Each
// maps to a user-facing message with a code users can quote to support.
//
// # Table Errors (TBL001-TBL099)
//
//	TBL001 - Dataset not found: The requested dataset is not registered
//	         Action: Pick a dataset from the index page
//	         Match: ErrDatasetNotFound, "dataset not found"
//
//	TBL002 - Table expired: The table session no longer exists
//	         Action: Reload the page to open a new table
//	         Match: ErrInstanceNotFound, "table instance not found"
//
//	TBL003 - Too many tables: The server has reached its open table limit
//	         Action: Close unused tabs and try again
//	         Match: ErrTooManyInstances, "too many table instances"
//
//	TBL004 - Unknown column set: The requested column layout does not exist
//	         Action: Choose one of the listed column sets
//	         Match: ErrColumnSetNotFound, "column set not found"
//
// # Filter Errors (FLT001-FLT099)
//
//	FLT001 - Unknown column: A filter or sort referenced a missing column
//	         Action: Check the column name (a suggestion is included when one is close)
//	         Match: ErrUnknownColumn, "unknown column"
//
//	FLT002 - Invalid page: Page or page size is not a number
//	         Action: Use a positive page number
//	         Match: ErrInvalidPage, "invalid page"
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Rows unavailable: No row source provides this dataset
//	         Action: Check DATA_DIR or the database tables
//	         Match: "rows not found"
//
//	SRC002 - Invalid row data: The row source returned malformed JSON
//	         Action: Validate the data file
//	         Match: "decode rows"
//
//	SRC003 - Database unavailable: Unable to connect to the row database
//	         Action: Please try again in a few moments
//	         Match: "connection refused"
//
//	SRC004 - Timeout: Loading rows timed out
//	         Action: Try again later
//	         Match: "deadline exceeded", "timeout"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Match: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check application logs for the technical
// error.

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the layers around the engine.
var (
	ErrDatasetNotFound   = errors.New("dataset not found")
	ErrColumnSetNotFound = errors.New("column set not found")
	ErrInstanceNotFound  = errors.New("table instance not found")
	ErrTooManyInstances  = errors.New("too many table instances")
	ErrUnknownColumn     = errors.New("unknown column")
	ErrInvalidPage       = errors.New("invalid page")
)

// UnknownColumnError reports a column key that matches no header, with the
// closest existing key when one is near enough.
type UnknownColumnError struct {
	Key        string
	Suggestion string
}

func (e *UnknownColumnError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown column %q (did you mean %q?)", e.Key, e.Suggestion)
	}
	return fmt.Sprintf("unknown column %q", e.Key)
}

func (e *UnknownColumnError) Unwrap() error {
	return ErrUnknownColumn
}

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// sentinelMessages is checked with errors.Is before any pattern matching.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrDatasetNotFound, UserMessage{"The requested dataset does not exist", "Pick a dataset from the index page", "TBL001"}},
	{ErrInstanceNotFound, UserMessage{"This table session has expired", "Reload the page to open a new table", "TBL002"}},
	{ErrTooManyInstances, UserMessage{"Too many tables are open", "Close unused tabs and try again", "TBL003"}},
	{ErrColumnSetNotFound, UserMessage{"The requested column layout does not exist", "Choose one of the listed column sets", "TBL004"}},
	{ErrUnknownColumn, UserMessage{"A filter or sort referenced an unknown column", "Check the column name", "FLT001"}},
	{ErrInvalidPage, UserMessage{"Page must be a positive number", "Use a positive page number", "FLT002"}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user
// messages for errors that arrive without a sentinel, mostly from row
// sources. The first matching pattern wins.
var errorPatterns = []errorPattern{
	{
		pattern: "rows not found",
		msg: UserMessage{
			Message: "No rows are available for this dataset",
			Action:  "Check DATA_DIR or the database tables",
			Code:    "SRC001",
		},
	},
	{
		pattern: "decode rows",
		msg: UserMessage{
			Message: "The row data is malformed",
			Action:  "Validate the data file",
			Code:    "SRC002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to the row database",
			Action:  "Please try again in a few moments",
			Code:    "SRC003",
		},
	},
	{
		pattern: "deadline exceeded",
		msg: UserMessage{
			Message: "Loading rows timed out",
			Action:  "Try again later",
			Code:    "SRC004",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Loading rows timed out",
			Action:  "Try again later",
			Code:    "SRC004",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
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
// Sentinel errors are matched with errors.Is; other errors by pattern.
// UnknownColumnError suggestions are carried into the action text.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			msg := sm.msg
			var uce *UnknownColumnError
			if errors.As(err, &uce) && uce.Suggestion != "" {
				msg.Action = fmt.Sprintf("Did you mean %q?", uce.Suggestion)
			}
			return msg
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

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
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
	return &UserError{Technical: err, User: MapError(err)}
}
