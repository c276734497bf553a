package core

// error_messages.go maps technical errors to user-facing messages with codes
// for support reference.
//
// Error codes are grouped by category:
//
// # Dataset Errors (DATA001-DATA099)
//
//	DATA001 - Dataset not found
//	          Action: Check that DATASET_PATH points to an existing CSV file
//	DATA002 - Failed to decode CSV as UTF-8
//	          Action: Save the file with UTF-8 encoding
//	DATA003 - Dataset is empty
//	          Action: Provide a header row and at least one data row
//	DATA004 - Error reading dataset (fallback for /data)
//	DATA005 - File is not a valid CSV
//	          Action: Ensure every row has at most as many fields as the header
//	DATA006 - File too large
//	          Action: Reduce the file or raise DATASET_MAX_FILE_SIZE
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL005 - Column not found
//	         Action: Verify the column headers of the dataset
//
// # Analysis Errors (ANL001-ANL099)
//
//	ANL001 - Error running analysis (fallback for /analyze)
//	ANL002 - No usable feature columns
//	ANL003 - Not enough rows to split into training and test sets
//	ANL004 - System busy: too many analyses in progress
//	ANL005 - Target column has missing values
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request was cancelled   (pattern "context canceled")
//	REQ002 - Request timed out       (pattern "context deadline exceeded")
//	REQ003 - Invalid query parameter (returned by the web layer)
//
// # History Errors (HIST001-HIST099)
//
//	HIST001 - Run history unavailable (patterns "connection refused", "database is locked")
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests (pattern "rate limit")
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the application logs for the
// technical error logged next to the request_id.
//
// # Matching
//
// Sentinel errors are matched first with errors.Is, in declaration order.
// Remaining errors are matched case-insensitively with strings.Contains
// against errorPatterns; the first match wins.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/datalens/internal/dataset"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type sentinelMessage struct {
	target error
	msg    UserMessage
}

var sentinelMessages = []sentinelMessage{
	{dataset.ErrNotFound, UserMessage{
		Message: "Dataset not found",
		Action:  "Check that DATASET_PATH points to an existing CSV file",
		Code:    "DATA001",
	}},
	{dataset.ErrInvalidEncoding, UserMessage{
		Message: "Failed to decode CSV as UTF-8",
		Action:  "Save the file with UTF-8 encoding",
		Code:    "DATA002",
	}},
	{dataset.ErrEmptyDataset, UserMessage{
		Message: "Dataset is empty",
		Action:  "Provide a header row and at least one data row",
		Code:    "DATA003",
	}},
	{dataset.ErrMalformedCSV, UserMessage{
		Message: "File is not a valid CSV",
		Action:  "Ensure every row has at most as many fields as the header",
		Code:    "DATA005",
	}},
	{dataset.ErrFileTooLarge, UserMessage{
		Message: "Dataset exceeds the maximum file size",
		Action:  "Reduce the file or raise DATASET_MAX_FILE_SIZE",
		Code:    "DATA006",
	}},
	{ErrColumnNotFound, UserMessage{
		Message: "Expected column not found in dataset",
		Action:  "Verify the column headers of the dataset",
		Code:    "VAL005",
	}},
	{ErrEmptyFeatureSet, UserMessage{
		Message: "No usable feature columns",
		Action:  "Add at least one non-empty column besides the target",
		Code:    "ANL002",
	}},
	{ErrInsufficientRows, UserMessage{
		Message: "Not enough rows to split into training and test sets",
		Action:  "Provide at least two data rows",
		Code:    "ANL003",
	}},
	{ErrTooManyAnalyses, UserMessage{
		Message: "System is busy running other analyses",
		Action:  "Please wait a moment and try again",
		Code:    "ANL004",
	}},
	{ErrMissingTarget, UserMessage{
		Message: "Target column has missing values",
		Action:  "Fill in or remove rows without a target value",
		Code:    "ANL005",
	}},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
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
			Action:  "Try a smaller dataset or try again later",
			Code:    "REQ002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Run history is unavailable",
			Action:  "Please try again in a few moments",
			Code:    "HIST001",
		},
	},
	{
		pattern: "database is locked",
		msg: UserMessage{
			Message: "Run history is unavailable",
			Action:  "Please try again in a few moments",
			Code:    "HIST001",
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

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MsgDatasetReadFailed is the fallback for unexpected errors while serving rows.
var MsgDatasetReadFailed = UserMessage{
	Message: "Error reading dataset",
	Action:  "Check the server logs for details",
	Code:    "DATA004",
}

// MsgAnalysisFailed is the fallback for unexpected errors during analysis.
var MsgAnalysisFailed = UserMessage{
	Message: "Error running analysis",
	Action:  "Check the server logs for details",
	Code:    "ANL001",
}

// MapError converts a technical error to a user-friendly message.
// If nothing matches, the generic ERR000 message is returned.
func MapError(err error) UserMessage {
	return MapErrorOr(err, defaultMessage)
}

// MapErrorOr is MapError with a caller-chosen fallback message.
func MapErrorOr(err error, fallback UserMessage) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.target) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return fallback
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

// UserError carries both the technical error and its user-facing message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError wraps err with its mapped user message. It returns nil for a nil error.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
