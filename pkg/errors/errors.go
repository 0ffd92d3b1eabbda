// Package errors provides structured error handling for mipd.
// It defines the sentinel taxonomy surfaced to users, exit codes, and helpers
// for adding context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess     = 0 // Successful execution
	ExitGeneral     = 1 // General/unknown error
	ExitInput       = 2 // Invalid input
	ExitAuth        = 3 // Authorization rejected
	ExitNotFound    = 4 // Resource not found
	ExitUnavailable = 5 // Provider unavailable or failed
)

// Error is the structured error type for mipd.
type Error struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *Error) Error() string {
	msg := e.Message

	// Details are sorted for deterministic output
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for Error. Two errors match when their codes match.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &Error{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &Error{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrNotFound = &Error{
		Code:     "NOT_FOUND",
		Message:  "resource not found",
		ExitCode: ExitNotFound,
	}

	// Workflow errors. The messages of these four are the user-facing strings
	// written to the session error slot.
	ErrValidation = &Error{
		Code:     "VALIDATION_ERROR",
		Message:  "Please enter a valid address.",
		ExitCode: ExitInput,
	}

	ErrNoProvider = &Error{
		Code:     "NO_PROVIDER",
		Message:  "No wallet provider connected.",
		ExitCode: ExitNotFound,
	}

	ErrAuthorization = &Error{
		Code:     "AUTHORIZATION_FAILED",
		Message:  "account authorization failed",
		ExitCode: ExitAuth,
	}

	ErrBalanceFetch = &Error{
		Code:     "BALANCE_FETCH_FAILED",
		Message:  "Failed to fetch balance",
		ExitCode: ExitUnavailable,
	}

	// Discovery errors.
	ErrProviderNotFound = &Error{
		Code:     "PROVIDER_NOT_FOUND",
		Message:  "wallet provider not announced",
		ExitCode: ExitNotFound,
	}

	ErrNoProviders = &Error{
		Code:     "NO_PROVIDERS",
		Message:  "No Announced Wallet Providers",
		ExitCode: ExitNotFound,
	}

	// Config errors.
	ErrConfigNotFound = &Error{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &Error{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}

	ErrUnknownConfigKey = &Error{
		Code:     "UNKNOWN_CONFIG_KEY",
		Message:  "unknown config key",
		ExitCode: ExitInput,
	}
)

// New creates a new Error with the given code and message.
func New(code, message string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// WithMessage returns a copy of a sentinel carrying a different user message
// and an optional cause. The copy still matches the sentinel with errors.Is.
func WithMessage(sentinel *Error, message string, cause error) *Error {
	return &Error{
		Code:       sentinel.Code,
		Message:    message,
		Details:    sentinel.Details,
		Suggestion: sentinel.Suggestion,
		Cause:      cause,
		ExitCode:   sentinel.ExitCode,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var e *Error
	if errors.As(err, &e) {
		return &Error{
			Code:       e.Code,
			Message:    fmt.Sprintf("%s: %s", msg, e.Message),
			Details:    e.Details,
			Suggestion: e.Suggestion,
			Cause:      err,
			ExitCode:   e.ExitCode,
		}
	}

	return &Error{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return &Error{
			Code:       e.Code,
			Message:    e.Message,
			Details:    details,
			Suggestion: e.Suggestion,
			Cause:      e.Cause,
			ExitCode:   e.ExitCode,
		}
	}

	return &Error{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return &Error{
			Code:       e.Code,
			Message:    e.Message,
			Details:    e.Details,
			Suggestion: suggestion,
			Cause:      e.Cause,
			ExitCode:   e.ExitCode,
		}
	}

	return &Error{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// UserMessage returns the message meant for display, without causes or details.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var e *Error
	if errors.As(err, &e) {
		return e.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
