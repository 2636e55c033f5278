package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText(t *testing.T) {
	t.Run("empty input produces no chunks", func(t *testing.T) {
		assert.Nil(t, ChunkText("", 500, 50))
		assert.Nil(t, ChunkText("   \n\n  ", 500, 50))
	})

	t.Run("single short paragraph is one chunk", func(t *testing.T) {
		chunks := ChunkText("just one small paragraph", 500, 50)
		require.Len(t, chunks, 1)
		assert.Equal(t, "just one small paragraph", chunks[0])
	})

	t.Run("paragraph integrity preserved under chunk size", func(t *testing.T) {
		text := "first paragraph here\n\nsecond paragraph here"
		chunks := ChunkText(text, 500, 50)
		require.Len(t, chunks, 1)
		assert.Contains(t, chunks[0], "first paragraph here\n\nsecond paragraph here")
	})

	t.Run("overlap words reappear at head of next chunk", func(t *testing.T) {
		var paras []string
		for i := 0; i < 12; i++ {
			paras = append(paras, strings.Repeat("alpha beta gamma delta ", 4))
		}
		text := strings.Join(paras, "\n\n")

		chunks := ChunkText(text, 300, 50)
		require.GreaterOrEqual(t, len(chunks), 2)

		for i := 1; i < len(chunks); i++ {
			prevWords := strings.Fields(chunks[i-1])
			n := len(prevWords) * 50 / 100
			tail := strings.Join(prevWords[len(prevWords)-n:], " ")
			assert.True(t, strings.HasPrefix(chunks[i], tail),
				"chunk %d should start with the tail of chunk %d", i, i-1)
		}
	})

	t.Run("1200 chars at size 500 with 50 percent overlap yields 3 chunks", func(t *testing.T) {
		para := strings.TrimSpace(strings.Repeat("lorem ipsum dolor sit amet ", 15)) // ~404 chars
		text := para + "\n\n" + para + "\n\n" + para
		require.InDelta(t, 1200, len(text), 40)

		chunks := ChunkText(text, 500, 50)
		require.Len(t, chunks, 3)

		words := strings.Fields(chunks[0])
		n := len(words) * 50 / 100
		tail := strings.Join(words[len(words)-n:], " ")
		assert.True(t, strings.HasPrefix(chunks[1], tail))
	})

	t.Run("zero overlap carries nothing forward", func(t *testing.T) {
		para := strings.Repeat("word ", 60)
		text := strings.TrimSpace(para) + "\n\n" + strings.TrimSpace(para)
		chunks := ChunkText(text, 200, 0)
		require.GreaterOrEqual(t, len(chunks), 2)
		assert.True(t, strings.HasPrefix(chunks[1], "word"))
	})
}
