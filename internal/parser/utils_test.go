package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSessionColumn(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"Session 1", "session2", " SESSION A ", "\ufeffSession 1"} {
		assert.True(t, IsSessionColumn(name), name)
	}
	for _, name := range []string{"Week", "Week Commencing", "Notes session", ""} {
		assert.False(t, IsSessionColumn(name), name)
	}
}

func TestHeaderEquals(t *testing.T) {
	t.Parallel()

	assert.True(t, HeaderEquals("\ufeff week commencing ", "Week Commencing"))
	assert.False(t, HeaderEquals("Week", "Week Commencing"))
}
