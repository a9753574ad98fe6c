// Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Users can quote the code when reporting a problem.
//
// # Validation Errors (VAL000-VAL099)
//
//	VAL001 - Name required: Name is required
//	         Patterns: "name is required"
//
//	VAL002 - Name too short: Name must be at least 3 characters
//	         Patterns: "name must be at least"
//
//	VAL003 - Email required: Email is required
//	         Patterns: "email is required"
//
//	VAL004 - Invalid email: Enter a valid email address
//	         Patterns: "enter a valid email"
//
//	VAL000 - Generic validation failure
//	         Patterns: "validation failed"
//
// # Record Errors (REC001-REC099)
//
//	REC001 - Record not found: The user no longer exists
//	         Patterns: "record not found"
//
//	REC002 - Invalid id: The user id is not a number
//	         Patterns: "invalid record id"
//
// # Storage Errors (STO001-STO099)
//
//	STO001 - Storage unavailable: Changes are kept in memory and retried
//	         Patterns: "storage unavailable"
//
//	STO002 - Connection refused: Unable to reach the database
//	         Patterns: "connection refused"
//
//	STO003 - Corrupt data: Stored data could not be read
//	         Patterns: "decode records"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled
//	         Patterns: "context canceled"
//
//	REQ002 - Request timeout
//	         Patterns: "context deadline exceeded", "timeout"
//
//	REQ003 - Bad request body
//	         Patterns: "invalid request body"
//
//	REQ004 - Unknown API route
//	         Patterns: "route not found"
//
// # Auth and Rate Limiting
//
//	AUTH001 - Missing API key          Patterns: "missing api key"
//	AUTH002 - Invalid API key          Patterns: "invalid api key"
//	RATE001 - Too many requests        Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check application logs for the original
// technical error.
//
// # Pattern Matching
//
// Patterns are matched case-insensitively using strings.Contains. The first
// matching pattern wins, so specific patterns come before general ones.

package core

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

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Order matters: the first match wins.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Validation Errors (VAL001-VAL004)
	// =========================================================================
	{
		pattern: "name is required",
		msg: UserMessage{
			Message: MsgNameRequired,
			Action:  "Enter a name",
			Code:    "VAL001",
		},
	},
	{
		pattern: "name must be at least",
		msg: UserMessage{
			Message: MsgNameTooShort,
			Action:  "Enter a longer name",
			Code:    "VAL002",
		},
	},
	{
		pattern: "email is required",
		msg: UserMessage{
			Message: MsgEmailRequired,
			Action:  "Enter an email address",
			Code:    "VAL003",
		},
	},
	{
		pattern: "enter a valid email",
		msg: UserMessage{
			Message: MsgEmailInvalid,
			Action:  "Use the form name@example.com",
			Code:    "VAL004",
		},
	},
	{
		pattern: "validation failed",
		msg: UserMessage{
			Message: "Some fields need attention",
			Action:  "Correct the highlighted fields and try again",
			Code:    "VAL000",
		},
	},

	// =========================================================================
	// Record Errors (REC001-REC002)
	// =========================================================================
	{
		pattern: "record not found",
		msg: UserMessage{
			Message: "User not found",
			Action:  "The user may have been deleted. Go back to the list",
			Code:    "REC001",
		},
	},
	{
		pattern: "invalid record id",
		msg: UserMessage{
			Message: "Invalid user id",
			Action:  "Go back to the list and pick a user",
			Code:    "REC002",
		},
	},

	// =========================================================================
	// Request Errors (REQ001-REQ004)
	// Matched before storage errors so a cancelled save reports as a request issue.
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Send a JSON object with name, email, phone, status and role",
			Code:    "REQ003",
		},
	},
	{
		pattern: "route not found",
		msg: UserMessage{
			Message: "Not found",
			Action:  "Check the request path",
			Code:    "REQ004",
		},
	},

	// =========================================================================
	// Storage Errors (STO001-STO003)
	// =========================================================================
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "STO002",
		},
	},
	{
		pattern: "decode records",
		msg: UserMessage{
			Message: "Stored data could not be read",
			Action:  "The list starts empty; contact support to recover old data",
			Code:    "STO003",
		},
	},
	{
		pattern: "storage unavailable",
		msg: UserMessage{
			Message: "Changes could not be saved",
			Action:  "Your change is kept and will be saved automatically",
			Code:    "STO001",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},

	// =========================================================================
	// Auth and Rate Limiting
	// =========================================================================
	{
		pattern: "missing api key",
		msg: UserMessage{
			Message: "API key required",
			Action:  "Send the X-API-Key header",
			Code:    "AUTH001",
		},
	},
	{
		pattern: "invalid api key",
		msg: UserMessage{
			Message: "API key not accepted",
			Action:  "Check the configured API keys",
			Code:    "AUTH002",
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

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the ERR000 fallback is returned.
//
// Example:
//
//	msg := MapError(fmt.Errorf("get record 7: %w", ErrRecordNotFound))
//	// msg.Code == "REC001"
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

// IsUserFacing reports whether err matches a known pattern (not ERR000).
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
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

// NewUserError wraps err with its mapped message. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
