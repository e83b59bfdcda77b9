// Package core provides the bulk import and export pipeline for job applications.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Error codes are grouped by category:
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Invalid format: The file could not be read as an application list
//	         Action: Check that the file has company, role and status columns
//	         Patterns: "invalid format"
//
//	IMP002 - File too large: File exceeds the maximum upload size
//	         Action: Split the file into smaller files
//	         Patterns: "file too large"
//
//	IMP003 - No file: No file was selected
//	         Action: Please select a CSV or JSON file to import
//	         Patterns: "no file provided"
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Nothing to export: There are no applications to export
//	         Action: Add applications before exporting
//	         Patterns: "nothing to export"
//
// # Operation Errors (OPS001-OPS099)
//
//	OPS001 - Busy: Another import or export is running
//	         Action: Wait for it to finish and try again
//	         Patterns: "operation in progress"
//
//	OPS002 - Timeout: The operation timed out
//	         Action: Try again, or import a smaller file
//	         Patterns: "context deadline exceeded", "timeout"
//
//	OPS003 - Cancelled: The request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
// # Backend Errors (API001-API099)
//
// Errors returned by the application backend or the database behind it:
//
//	API001 - Unauthorized: The backend rejected the credentials
//	         Action: Check BACKEND_TOKEN
//	         Patterns: "backend returned 401", "backend returned 403"
//
//	API002 - Not found: The application does not exist
//	         Action: Refresh the list and try again
//	         Patterns: "backend returned 404", "application not found"
//
//	API003 - Rejected: The backend rejected the request
//	         Action: Check the values you entered
//	         Patterns: "backend returned 4", "invalid application", "violates", "duplicate key"
//
//	API004 - Unavailable: The backend could not be reached
//	         Action: Please try again in a few moments
//	         Patterns: "backend returned 5", "connection refused", "connection reset"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Pattern Matching
//
// Errors implementing StatusError are classified by status code first. Other
// error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns must be
// defined before general ones ("backend returned 404" before "backend returned 4").
package core

import (
	"errors"
	"fmt"
	"net/http"
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

var (
	msgUnauthorized = UserMessage{
		Message: "The backend rejected the credentials",
		Action:  "Check BACKEND_TOKEN",
		Code:    "API001",
	}
	msgNotFound = UserMessage{
		Message: "The application does not exist",
		Action:  "Refresh the list and try again",
		Code:    "API002",
	}
	msgRejected = UserMessage{
		Message: "The backend rejected the request",
		Action:  "Check the values you entered",
		Code:    "API003",
	}
	msgUnavailable = UserMessage{
		Message: "The backend could not be reached",
		Action:  "Please try again in a few moments",
		Code:    "API004",
	}
	msgTimeout = UserMessage{
		Message: "The operation timed out",
		Action:  "Try again, or import a smaller file",
		Code:    "OPS002",
	}
)

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins.
//
// To add a new error pattern:
//  1. Choose the appropriate category and code range
//  2. Add the pattern in the correct position (specific before general)
//  3. Update the package documentation at the top of this file
var errorPatterns = []errorPattern{
	// =========================================================================
	// Import / Export (IMP, EXP)
	// =========================================================================
	{
		pattern: "invalid format",
		msg: UserMessage{
			Message: "The file could not be read as an application list",
			Action:  "Check that the file has company, role and status columns",
			Code:    "IMP001",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller files",
			Code:    "IMP002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV or JSON file to import",
			Code:    "IMP003",
		},
	},
	{
		pattern: "nothing to export",
		msg: UserMessage{
			Message: "There are no applications to export",
			Action:  "Add applications before exporting",
			Code:    "EXP001",
		},
	},

	// =========================================================================
	// Operations (OPS)
	// =========================================================================
	{
		pattern: "operation in progress",
		msg: UserMessage{
			Message: "Another import or export is running",
			Action:  "Wait for it to finish and try again",
			Code:    "OPS001",
		},
	},
	{pattern: "context deadline exceeded", msg: msgTimeout},
	{pattern: "timeout", msg: msgTimeout},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The request was cancelled",
			Action:  "Please try again",
			Code:    "OPS003",
		},
	},

	// =========================================================================
	// Backend (API)
	// Status-specific patterns must precede the "backend returned 4" catch-all.
	// =========================================================================
	{pattern: "backend returned 401", msg: msgUnauthorized},
	{pattern: "backend returned 403", msg: msgUnauthorized},
	{pattern: "backend returned 404", msg: msgNotFound},
	{pattern: "application not found", msg: msgNotFound},
	{pattern: "backend returned 4", msg: msgRejected},
	{pattern: "invalid application", msg: msgRejected},
	{pattern: "duplicate key", msg: msgRejected},
	{pattern: "violates", msg: msgRejected},
	{pattern: "backend returned 5", msg: msgUnavailable},
	{pattern: "connection refused", msg: msgUnavailable},
	{pattern: "connection reset", msg: msgUnavailable},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
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
// Support staff should check application logs for the original technical
// error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	msg := MapError(fmt.Errorf("%w: missing required columns: role", ErrInvalidFormat))
//	// msg.Code == "IMP001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var se StatusError
	if errors.As(err, &se) {
		if msg, ok := statusMessage(se.HTTPStatus()); ok {
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

// StatusError is implemented by errors that carry the HTTP status of a
// backend response. MapError classifies them by status alone, so text in the
// response body cannot select an unrelated message.
type StatusError interface {
	error
	HTTPStatus() int
}

func statusMessage(code int) (UserMessage, bool) {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return msgUnauthorized, true
	case code == http.StatusNotFound:
		return msgNotFound, true
	case code >= 400 && code < 500:
		return msgRejected, true
	case code >= 500:
		return msgUnavailable, true
	}
	return UserMessage{}, false
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

// IsUserFacing reports whether err matches a known pattern, i.e. whether the
// mapped message is more useful than the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
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

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
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
