package clierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, New(InternalError, "boom").ExitCode())
	assert.Equal(t, 1, New(TaskNotFound, "missing").ExitCode())
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(WeatherUnavailable, cause, "fetching weather")

	assert.Equal(t, "fetching weather: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, WeatherUnavailable, CodeOf(fmt.Errorf("outer: %w", err)))
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, InternalError, CodeOf(errors.New("plain")))
}

func TestWithDetails(t *testing.T) {
	err := Newf(InvalidPriority, "invalid priority %q", "urgent").
		WithDetails(map[string]any{"priority": "urgent"})

	assert.Equal(t, `invalid priority "urgent"`, err.Message)
	assert.Equal(t, "urgent", err.Details["priority"])
}

func TestSilentError(t *testing.T) {
	assert.Equal(t, "exit 3", (&SilentError{Code: 3}).Error())
}
