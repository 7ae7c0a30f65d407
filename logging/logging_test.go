package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Format: FormatJSON, Output: &buf})
	l.Debug("hidden")
	l.Info("loaded", "module", "alpha")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "loaded", rec["msg"])
	assert.Equal(t, "alpha", rec["module"])
}

func TestNew_TextDefault(t *testing.T) {
	var buf bytes.Buffer
	New(Options{Format: "bogus", Output: &buf}).Warn("careful", "n", 1)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "msg=careful")
}

func TestNew_LevelVarChangesAtRuntime(t *testing.T) {
	for _, format := range []string{FormatText, FormatJSON, FormatPretty} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			lv := new(slog.LevelVar)
			l := New(Options{Level: lv, Format: format, Output: &buf}).With("pass", "x")

			l.Debug("first")
			assert.NotContains(t, buf.String(), "first")

			lv.Set(slog.LevelDebug)
			l.Debug("second")
			assert.Contains(t, buf.String(), "second")

			lv.Set(slog.LevelError)
			l.Warn("third")
			assert.False(t, strings.Contains(buf.String(), "third"))
		})
	}
}
