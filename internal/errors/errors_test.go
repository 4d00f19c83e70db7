package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserErrorFormatting(t *testing.T) {
	t.Parallel()

	err := UserError{
		Message:    "Unknown provider: acme",
		Suggestion: "run 'keyaudit providers' to list known providers",
		Details:    "requested providers must all be registered",
	}
	msg := err.Error()
	assert.Contains(t, msg, "Unknown provider: acme")
	assert.Contains(t, msg, "Details: requested providers")
	assert.Contains(t, msg, "Try: run 'keyaudit providers'")
}

func TestUserErrorFallsBackToWrapped(t *testing.T) {
	t.Parallel()

	inner := stderrors.New("no such file")
	err := UserError{Err: inner}
	assert.Contains(t, err.Error(), "no such file")
	assert.ErrorIs(t, err, inner)
}

func TestIsUserError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUserError(UserError{Message: "x"}))
	assert.True(t, IsUserError(stderrors.Join(stderrors.New("outer"), UserError{Message: "x"})))
	assert.False(t, IsUserError(stderrors.New("plain")))
}

func TestConfigError(t *testing.T) {
	t.Parallel()

	err := ConfigError{Field: "cache.ttl", Value: "-5", Message: "must be positive"}
	assert.Contains(t, err.Error(), "cache.ttl")
	assert.Contains(t, err.Error(), "-5")
	assert.Contains(t, err.Error(), "must be positive")
}
