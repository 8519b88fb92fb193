package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verbose)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())
	assert.False(t, Enabled(LevelInfo))
	assert.True(t, Enabled(LevelWarn))

	SetVerbose(true)
	assert.True(t, IsVerbose())
	assert.True(t, Enabled(LevelDebug))

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestPackageFunctions(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		log     func(string, ...any)
		want    string
	}{
		{"debug verbose", true, Debug, "[DEBUG] event 42 queued\n"},
		{"debug quiet", false, Debug, ""},
		{"info verbose", true, Info, "[INFO] event 42 queued\n"},
		{"info quiet", false, Info, ""},
		{"warn quiet", false, Warn, "[WARN] event 42 queued\n"},
		{"error quiet", false, Error, "[ERROR] event 42 queued\n"},
		{"error verbose", true, Error, "[ERROR] event 42 queued\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, tt.verbose)
			tt.log("event %d %s", 42, "queued")
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestSection(t *testing.T) {
	t.Run("verbose prints header", func(t *testing.T) {
		buf := capture(t, true)
		Section("Sitemap")
		assert.Equal(t, "\n=== Sitemap ===\n", buf.String())
	})

	t.Run("quiet prints nothing", func(t *testing.T) {
		buf := capture(t, false)
		Section("Sitemap")
		assert.Empty(t, buf.String())
	})
}

func TestNamed(t *testing.T) {
	log := Named("scheduler")
	assert.Equal(t, "scheduler", log.Name())

	t.Run("prefixes lines", func(t *testing.T) {
		buf := capture(t, true)
		log.Info("task %s finished", "queue-drain")
		log.Warn("slow")
		assert.Equal(t, "[INFO] scheduler: task queue-drain finished\n[WARN] scheduler: slow\n", buf.String())
	})

	t.Run("respects threshold", func(t *testing.T) {
		buf := capture(t, false)
		log.Debug("hidden")
		log.Error("boom")
		assert.Equal(t, "[ERROR] scheduler: boom\n", buf.String())
	})
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "LEVEL(9)", Level(9).String())
}
