// Package core provides the species lookup logic.
//
// # Error Codes Reference
//
// This file maps technical load and request errors to user-friendly messages
// with codes for support reference.
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Workbook unreadable: A reference workbook could not be opened
//	         Action: Check the configured workbook path and file format
//	         Patterns: "open workbook"
//
//	SRC002 - Sheet missing: A schedule sheet is absent from the workbook
//	         Action: Results from that schedule are unavailable
//	         Patterns: "sheet not found"
//
// # Species+ API Errors (API001-API099)
//
//	API001 - Missing token: The Species+ API token is not configured
//	         Action: Set CITES_API_TOKEN or disable the Species+ source
//	         Patterns: "api token"
//
//	API002 - Request failed: The Species+ service returned an error
//	         Action: Schedule IV results may be incomplete; try again later
//	         Patterns: "species+ request failed"
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Connection refused: Unable to connect to the reference database
//	        Action: Please try again in a few moments
//	        Patterns: "connection refused", "connect to database", "ping database"
//
//	DB002 - Missing table: The reference table does not exist
//	        Action: Load the wlpa_species table or unset DATABASE_URL
//	        Patterns: "does not exist (sqlstate 42p01)"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Timeout: The operation timed out
//	         Action: Please try again
//	         Patterns: "context deadline exceeded", "timeout"
//
//	REQ002 - Cancelled: The request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// Patterns are matched case-insensitively using strings.Contains and the
// first match wins, so specific patterns come before general ones.
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

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Species+ errors first: their wrapped causes often contain "timeout".
	{
		pattern: "api token",
		msg: UserMessage{
			Message: "The Species+ API token is not configured",
			Action:  "Set CITES_API_TOKEN or disable the Species+ source",
			Code:    "API001",
		},
	},
	{
		pattern: "species+ request failed",
		msg: UserMessage{
			Message: "The Species+ service returned an error",
			Action:  "Schedule IV results may be incomplete; try again later",
			Code:    "API002",
		},
	},
	{
		pattern: "open workbook",
		msg: UserMessage{
			Message: "A reference workbook could not be opened",
			Action:  "Check the configured workbook path and file format",
			Code:    "SRC001",
		},
	},
	{
		pattern: "sheet not found",
		msg: UserMessage{
			Message: "A schedule sheet is missing from the workbook",
			Action:  "Results from that schedule are unavailable",
			Code:    "SRC002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to the reference database",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "connect to database",
		msg: UserMessage{
			Message: "Unable to connect to the reference database",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "ping database",
		msg: UserMessage{
			Message: "Unable to connect to the reference database",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "(sqlstate 42p01)",
		msg: UserMessage{
			Message: "The reference table does not exist",
			Action:  "Load the wlpa_species table or unset DATABASE_URL",
			Code:    "DB002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The operation timed out",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The operation timed out",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The request was cancelled",
			Action:  "Please try again",
			Code:    "REQ002",
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
// Returns the ERR000 fallback when no pattern matches and an empty
// UserMessage for a nil error.
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

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
