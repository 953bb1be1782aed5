package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud")
}

func TestEncodingFollowsMode(t *testing.T) {
	assert.Equal(t, "console", encodingFormat(true))
	assert.Equal(t, "json", encodingFormat(false))
}

func TestNewDefaultNeverNil(t *testing.T) {
	l := NewDefault()
	require.NotNil(t, l)
	require.NotNil(t, l.Component("workspace"))
}

func TestParseLevel(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		t.Run(lvl, func(t *testing.T) {
			got, err := parseLevel(lvl)
			require.NoError(t, err)
			assert.Equal(t, lvl, got.String())
		})
	}
}
