package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})
	return &buf
}

func TestScopedLinesCarryScope(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Scope("feed").Debug("loaded %d documents", 3)

	assert.Equal(t, "[DEBUG] feed: loaded 3 documents\n", buf.String())
}

func TestUnscopedLinesHaveNoScope(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Warn("something odd")

	assert.Equal(t, "[WARN] something odd\n", buf.String())
}

func TestSilentWhenNotVerbose(t *testing.T) {
	buf := capture(t)
	SetVerbose(false)

	Scope("history").Warn("dropped")
	Info("hello")

	assert.Empty(t, buf.String())
}

func TestIsVerbose(t *testing.T) {
	capture(t)

	SetVerbose(true)
	assert.True(t, IsVerbose())
	SetVerbose(false)
	assert.False(t, IsVerbose())
}
