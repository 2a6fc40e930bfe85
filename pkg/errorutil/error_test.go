package errorutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetriable(t *testing.T) {
	assert.True(t, IsRetriable(Retriable("collaborator timeout")))
	assert.False(t, IsRetriable(NonRetriable("callback failed")))
	assert.False(t, IsRetriable(errors.New("plain error")))
	assert.False(t, IsRetriable(nil))
}

func TestIsRetriableThroughWrapping(t *testing.T) {
	inner := Retriable("gemini call failed")
	wrapped := fmt.Errorf("processing demand: %w", inner)
	assert.True(t, IsRetriable(wrapped))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := RetriableWrap("gemini call failed", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "gemini call failed", err.Error())
	assert.Equal(t, "connection refused", err.DevDetails)
}
