package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logiface.Level
	}{
		{"info", logiface.LevelInformational},
		{"", logiface.LevelInformational},
		{"WARN", logiface.LevelWarning},
		{"warning", logiface.LevelWarning},
		{"error", logiface.LevelError},
		{"debug", logiface.LevelDebug},
		{" trace ", logiface.LevelTrace},
		{"off", logiface.LevelDisabled},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestParseLevelRoundTripsLogifaceNames(t *testing.T) {
	for l := logiface.LevelEmergency; l <= logiface.LevelTrace; l++ {
		got, err := ParseLevel(l.String())
		require.NoError(t, err, l.String())
		assert.Equal(t, l, got)
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, logiface.LevelWarning)

	log.Info().Str("k", "v").Log("dropped")
	log.Warning().Str("queue", "free").Log("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"msg":"kept"`)
	assert.Contains(t, out, `"queue":"free"`)
	assert.Equal(t, 1, strings.Count(out, `"msg":`))
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Err().Log("nothing")
}
