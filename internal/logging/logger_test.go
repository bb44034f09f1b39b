package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := New(slog.LevelInfo, Options{Writer: &buf})

	logger.Error("boom", "error", errors.New("bad"))

	assert.Contains(t, buf.String(), "err=bad")
	assert.NotContains(t, buf.String(), "error=bad")
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(slog.LevelWarn, Options{Writer: &buf})

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_FanoutToExtraHandlers(t *testing.T) {
	var primary, extra bytes.Buffer
	logger := New(slog.LevelInfo, Options{
		Writer: &primary,
		JSON:   true,
		Extra:  []slog.Handler{slog.NewTextHandler(&extra, nil)},
	})

	logger.Info("hello", "run_id", "r1")

	assert.Contains(t, primary.String(), `"msg":"hello"`)
	assert.Contains(t, extra.String(), "msg=hello")
	assert.Contains(t, extra.String(), "run_id=r1")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewNop(t *testing.T) {
	assert.NotPanics(t, func() { NewNop().Error("ignored") })
}
