package api

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPreview(t *testing.T) {
	t.Run("short summary passes through", func(t *testing.T) {
		assert.Equal(t, "brief", preview("brief"))
	})

	t.Run("long summary cut to the preview length", func(t *testing.T) {
		long := strings.Repeat("x", 500)
		assert.Len(t, preview(long), previewLen)
	})

	t.Run("cut lands on a rune boundary", func(t *testing.T) {
		// leading single byte shifts every 2-byte rune so the cap falls mid-rune
		long := "a" + strings.Repeat("é", 200)
		out := preview(long)
		assert.True(t, utf8.ValidString(out))
		assert.LessOrEqual(t, len(out), previewLen)
		assert.Len(t, out, previewLen-1)
	})
}
