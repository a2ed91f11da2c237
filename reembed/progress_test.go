package reembed

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker(t *testing.T) {
	t.Run("reports at the configured interval", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := newProgressTracker(&buf, 100, 50)

		tracker.update(10)
		assert.Empty(t, buf.String())

		tracker.update(50)
		assert.Contains(t, buf.String(), "50/100")
		assert.Contains(t, buf.String(), "50.0%")
	})

	t.Run("finish always prints the final line", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := newProgressTracker(&buf, 7, 100)

		tracker.update(3)
		tracker.finish()

		assert.Contains(t, buf.String(), "7/7")
		assert.Contains(t, buf.String(), "100.0%")
		assert.True(t, strings.HasSuffix(buf.String(), "\n"))
	})

	t.Run("progress is capped at the total", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := newProgressTracker(&buf, 5, 1)

		tracker.update(9)
		assert.Contains(t, buf.String(), "5/5")
	})
}
