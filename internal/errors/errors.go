// Package errors defines the user-facing error types for keyaudit.
//
// Only configuration errors ever surface from an audit run; everything
// else is folded into per-key results. These types exist so that the
// errors which do surface come with an actionable suggestion instead of a
// bare message.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// UserError is an error meant to be shown to the user with helpful
// context.
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}
	if e.Suggestion != "" {
		parts = append(parts, "\n  Try: "+e.Suggestion)
	}
	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError is a configuration problem tied to a specific field.
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message
	if e.Suggestion != "" {
		msg += "\n  " + e.Suggestion
	}
	return msg
}

// IsUserError reports whether err is (or wraps) a UserError.
func IsUserError(err error) bool {
	var ue UserError
	return errors.As(err, &ue)
}
