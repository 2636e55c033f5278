package extractor

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// substantiveLines builds n distinct lines that pass every noise filter.
func substantiveLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("this is a perfectly ordinary sentence number %d in the body text", i)
	}
	return lines
}

func TestCleanText(t *testing.T) {
	t.Run("empty input passes through", func(t *testing.T) {
		assert.Equal(t, "", CleanText(""))
	})

	t.Run("drops short lines page numbers and boilerplate", func(t *testing.T) {
		noise := []string{
			"Page 42",
			"17",
			"Copyright © Example Press, all rights reserved",
			"visit www.example.com",
			"subscribe to our newsletter today ok",
			"SHOUTING RUNNING HEADER TEXT HERE",
			"$$$ %%% ### !!! *** ((( )))",
		}
		in := append(substantiveLines(25), noise...)
		outLines := strings.Split(CleanText(strings.Join(in, "\n")), "\n")

		for _, n := range noise {
			assert.NotContains(t, outLines, n)
		}
		assert.Contains(t, outLines, "this is a perfectly ordinary sentence number 0 in the body text")
		assert.Contains(t, outLines, "this is a perfectly ordinary sentence number 24 in the body text")
	})

	t.Run("long lines keep matched boilerplate patterns", func(t *testing.T) {
		keep := "the figure at the center of the story turns out to be the narrator's estranged brother"
		lines := append(substantiveLines(25), keep)
		out := CleanText(strings.Join(lines, "\n"))
		assert.Contains(t, out, keep)
	})

	t.Run("cleaning floor returns input unchanged", func(t *testing.T) {
		// Only 5 substantive lines survive cleaning, below the floor of 20.
		lines := append(substantiveLines(5), "Page 1", "Page 2", "ok")
		in := strings.Join(lines, "\n")
		assert.Equal(t, in, CleanText(in))
	})

	t.Run("idempotent", func(t *testing.T) {
		lines := append(substantiveLines(30),
			"Page 3",
			"CHAPTER HEADER IN CAPS",
			"tiny",
		)
		in := strings.Join(lines, "\n")
		once := CleanText(in)
		require.NotEqual(t, in, once)
		assert.Equal(t, once, CleanText(once))
	})

	t.Run("floor case is also idempotent", func(t *testing.T) {
		in := strings.Join(substantiveLines(3), "\n")
		once := CleanText(in)
		assert.Equal(t, once, CleanText(once))
	})
}
