package ingestion

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker(t *testing.T) {
	var out bytes.Buffer
	tracker := NewProgressTracker(&out, 4, 2)

	tracker.Row(true)
	assert.Empty(t, out.String(), "ignored before Start")
	assert.Zero(t, tracker.Elapsed())

	tracker.Start()
	tracker.Row(true)
	assert.Empty(t, out.String())

	tracker.Row(false)
	assert.Contains(t, out.String(), "Rows: 2/4 (50.0%), 1 dropped")

	tracker.Row(true)
	tracker.Row(true)
	tracker.Row(true)
	tracker.Finish()

	lines := strings.Split(out.String(), "\r")
	last := lines[len(lines)-1]
	assert.Contains(t, last, "Rows: 4/4 (100.0%), 1 dropped")
	assert.True(t, strings.HasSuffix(last, "\n"))
}

func TestProgressTracker_NilWriter(t *testing.T) {
	tracker := NewProgressTracker(nil, 1, 0)
	assert.NotPanics(t, func() {
		tracker.Start()
		tracker.Row(true)
		tracker.Finish()
	})
}
