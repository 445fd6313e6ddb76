package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnableDebugLogging(t *testing.T) {
	t.Cleanup(func() { EnableDebugLogging(false) })

	EnableDebugLogging(true)
	assert.True(t, IsDebugEnabled())

	EnableDebugLogging(false)
	assert.False(t, IsDebugEnabled())
}
