package core

// error_messages.go maps errors to user-facing messages with a stable code
// that users can quote to support staff.
//
// Import errors (matched with errors.Is):
//
//	FILE002 - Invalid CSV          ErrInvalidFormat
//	FILE003 - Encoding error       ErrDecode
//	FILE005 - Empty file           ErrEmptyFile
//	FILE006 - Unsupported file     ErrUnsupportedFile
//	IMP001  - Missing title        ErrMissingTitle
//	IMP002  - Course not found     ErrCourseNotFound
//	IMP003  - No valid rows        ErrNoValidRows
//	VAL001  - Out of range         ErrInvalidRange
//	VAL002  - Invalid field        ErrInvalidInput
//	NF001   - Not found            ErrNotFound
//	UPL002  - System busy          ErrTooManyImports
//
// Technical errors (matched case-insensitively with strings.Contains,
// first match wins):
//
//	DB003   - foreign key violation
//	DB004   - connection refused
//	DB005   - connection reset
//	DB006   - timeout
//	FILE001 - file too large / request body too large
//	FILE004 - no file provided
//	UPL004  - context canceled
//	UPL005  - context deadline exceeded
//
// ERR000 is the fallback; check the logs for the technical error.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type sentinelMessage struct {
	err error
	msg UserMessage
}

// sentinelMessages is checked before the pattern table. Order matters for
// errors that wrap more than one sentinel.
var sentinelMessages = []sentinelMessage{
	{ErrDecode, UserMessage{
		Message: "The file must be UTF-8 encoded",
		Action:  "Save the spreadsheet as CSV UTF-8 and upload it again",
		Code:    "FILE003",
	}},
	{ErrEmptyFile, UserMessage{
		Message: "The uploaded file is empty",
		Action:  "Please upload a CSV file with data rows",
		Code:    "FILE005",
	}},
	{ErrUnsupportedFile, UserMessage{
		Message: "The file must be a CSV",
		Action:  "Export the sheet as a semicolon-separated .csv file",
		Code:    "FILE006",
	}},
	{ErrMissingTitle, UserMessage{
		Message: "The course has no title",
		Action:  "Fill in the title field or put title;description;theme on the first line",
		Code:    "IMP001",
	}},
	{ErrInvalidFormat, UserMessage{
		Message: "The CSV file is invalid",
		Action:  "Use ';' as separator and put title;description;theme on the first line",
		Code:    "FILE002",
	}},
	{ErrCourseNotFound, UserMessage{
		Message: "Course not found",
		Action:  "Check the course identifier and try again",
		Code:    "IMP002",
	}},
	{ErrNoValidRows, UserMessage{
		Message: "No valid line was found in the file",
		Action:  "Each line needs text;answer1;answer2;answer3;answer4;correct answer number (1-4)",
		Code:    "IMP003",
	}},
	{ErrInvalidRange, UserMessage{
		Message: "The correct answer number must be between 1 and 4",
		Action:  "Pick one of the four answers",
		Code:    "VAL001",
	}},
	{ErrInvalidInput, UserMessage{
		Message: "Some fields are invalid",
		Action:  "Answers cannot be blank and titles are limited to 255 characters",
		Code:    "VAL002",
	}},
	{ErrNotFound, UserMessage{
		Message: "Record not found",
		Action:  "It may have been deleted. Refresh and try again",
		Code:    "NF001",
	}},
	{ErrTooManyImports, UserMessage{
		Message: "System is busy processing other imports",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages.
var errorPatterns = []errorPattern{
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Make sure the course still exists",
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
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "UPL005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to upload",
			Code:    "FILE004",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message. Known sentinels
// win over text patterns; unknown errors map to ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
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

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
