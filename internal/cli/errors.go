// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Structured errors and exit codes for all CLI commands.
//
// Handlers return errors instead of printing them; main maps each error
// to a message and an exit code in one place. Scripts can branch on the
// exit code, and --json mode gets the same error as structured output.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitUsageError    = 2 // bad arguments or flags
	ExitConfigError   = 3 // config file or settings problem
	ExitAuthError     = 4 // profile passphrase or API key rejected
	ExitNetworkError  = 5 // mentor backend unreachable
	ExitNotFoundError = 7
	ExitTimeoutError  = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError wraps a failure inside a command handler with enough
// context to say what was being attempted.
type CommandError struct {
	Command string // e.g. "history", "profile"
	Action  string // e.g. "export", "delete"
	Reason  string
	Err     error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// ValidationError reports rejected user input.
type ValidationError struct {
	Field   string
	Value   string // as provided, may be empty
	Reason  string
	Example string // optional valid example
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		fmt.Fprintf(&b, " (got: %s)", e.Value)
	}
	if e.Example != "" {
		fmt.Fprintf(&b, "\nExample: %s", e.Example)
	}
	return b.String()
}

// AuthError reports a failed passphrase or TOTP check.
type AuthError struct {
	Profile string
	Reason  string
}

func (e *AuthError) Error() string {
	if e.Profile == "" {
		return "authentication failed: " + e.Reason
	}
	return fmt.Sprintf("authentication failed for profile %q: %s", e.Profile, e.Reason)
}

// NotFoundError reports a missing session, term, or profile.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found: " + e.ID
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// NewCommandError creates a new command error.
func NewCommandError(command, action, reason string, err error) error {
	return &CommandError{Command: command, Action: action, Reason: reason, Err: err}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, value, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// NewAuthError creates a new authentication error.
func NewAuthError(profile, reason string) error {
	return &AuthError{Profile: profile, Reason: reason}
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ErrMissingArgument reports a required argument that was not given.
func ErrMissingArgument(argName, usage string) error {
	return &ValidationError{
		Field:   argName,
		Reason:  "required argument missing",
		Example: usage,
	}
}

// ErrUnsupportedFormat reports an output format outside the known set.
func ErrUnsupportedFormat(format string, supported []string) error {
	return &ValidationError{
		Field:  "format",
		Value:  format,
		Reason: "unsupported format, expected one of: " + strings.Join(supported, ", "),
	}
}

// WrapError adds context while preserving the error chain.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// =============================================================================
// DISPLAY AND EXIT
// =============================================================================

// DisplayError prints an error to stderr, or as JSON on stdout when
// jsonMode is set.
func DisplayError(err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		DisplayErrorJSON(err)
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("[ERROR]"), err.Error())
}

// DisplayErrorJSON writes the error as an indented JSON object with a
// type tag and the structured fields of the concrete error.
func DisplayErrorJSON(err error) {
	out := map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	}

	switch e := err.(type) {
	case *CommandError:
		out["error_type"] = "command_error"
		out["command"] = e.Command
		out["action"] = e.Action
		out["reason"] = e.Reason
		if e.Err != nil {
			out["underlying_error"] = e.Err.Error()
		}
	case *ValidationError:
		out["error_type"] = "validation_error"
		out["field"] = e.Field
		out["value"] = e.Value
		out["reason"] = e.Reason
		if e.Example != "" {
			out["example"] = e.Example
		}
	case *AuthError:
		out["error_type"] = "auth_error"
		out["profile"] = e.Profile
		out["reason"] = e.Reason
	case *NotFoundError:
		out["error_type"] = "not_found_error"
		out["resource"] = e.Resource
		out["id"] = e.ID
	default:
		out["error_type"] = "generic_error"
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}

// HandleErrorAndExit displays the error and exits with its code.
func HandleErrorAndExit(err error, jsonMode bool) {
	if err == nil {
		return
	}
	DisplayError(err, jsonMode)
	os.Exit(GetExitCode(err))
}

// GetExitCode maps an error (anywhere in the chain) to an exit code.
// Untyped errors fall back to message sniffing for the common
// categories before landing on ExitGeneralError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		validationErr *ValidationError
		authErr       *AuthError
		notFoundErr   *NotFoundError
		ttyErr        *TTYRequiredError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &ttyErr):
		return ExitUsageError
	case errors.As(err, &authErr):
		return ExitAuthError
	case errors.As(err, &notFoundErr):
		return ExitNotFoundError
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "config"):
		return ExitConfigError
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return ExitTimeoutError
	case strings.Contains(msg, "connection"), strings.Contains(msg, "network"),
		strings.Contains(msg, "no such host"):
		return ExitNetworkError
	case strings.Contains(msg, "not found"):
		return ExitNotFoundError
	}
	return ExitGeneralError
}
