package index

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"docsum/store"
	"docsum/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDim = 16

// hashEmbedder is a deterministic bag-of-words embedder: texts sharing
// words produce nearby vectors, which is enough to exercise ranking.
type hashEmbedder struct{}

func (hashEmbedder) Dimension() int { return testDim }

func (hashEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, testDim)
		for _, word := range strings.Fields(strings.ToLower(text)) {
			h := fnv.New32a()
			h.Write([]byte(word))
			vec[h.Sum32()%testDim]++
		}
		var sum float64
		for _, v := range vec {
			sum += float64(v) * float64(v)
		}
		if norm := math.Sqrt(sum); norm > 0 {
			for j := range vec {
				vec[j] = float32(float64(vec[j]) / norm)
			}
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func newTestIndex() *Index {
	return New(hashEmbedder{}, store.NewMemoryStore(testDim), nil)
}

func TestStoreAssignsCompositeIDs(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	docID, err := idx.Store(ctx, []string{"one fish", "two fish", "red fish"}, "u1", "Fish Book")
	require.NoError(t, err)
	require.NotEmpty(t, docID)

	results, err := idx.Search(ctx, "fish", "u1", SearchOptions{TopK: 10})
	require.NoError(t, err)
	require.Len(t, results, 3)

	seen := map[int]bool{}
	for _, r := range results {
		assert.Equal(t, docID, r.DocumentID)
		seen[r.ChunkIndex] = true
	}
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true}, seen)
}

func TestStoreEmptyChunksFails(t *testing.T) {
	idx := newTestIndex()
	_, err := idx.Store(context.Background(), nil, "u1", "Empty")
	assert.ErrorIs(t, err, types.ErrIndexWrite)
}

func TestDocumentIDsUniquePerUpload(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	a, err := idx.Store(ctx, []string{"same content"}, "u1", "Same Title")
	require.NoError(t, err)
	b, err := idx.Store(ctx, []string{"same content"}, "u1", "Same Title")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestOwnerIsolation(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	_, err := idx.Store(ctx, []string{"alpha secrets of owner one"}, "u1", "A")
	require.NoError(t, err)
	_, err = idx.Store(ctx, []string{"alpha secrets of owner two"}, "u2", "B")
	require.NoError(t, err)

	for _, query := range []string{"alpha", "secrets", "main idea"} {
		results, err := idx.Search(ctx, query, "u1", SearchOptions{})
		require.NoError(t, err)
		for _, r := range results {
			assert.NotContains(t, r.Text, "owner two")
		}
	}

	results, err := idx.Search(ctx, "anything at all", "u3", SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, results, "owner with no content gets an empty result, not an error")
}

func TestRetrievalOrdering(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	chunks := []string{
		"cats cats cats cats",
		"cats and dogs together",
		"nothing about animals whatsoever",
		"dogs only here",
	}
	_, err := idx.Store(ctx, chunks, "u1", "Pets")
	require.NoError(t, err)

	results, err := idx.Search(ctx, "cats", "u1", SearchOptions{TopK: 10})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score,
			"results must be non-increasing in score")
	}
	assert.Contains(t, results[0].Text, "cats")
}

func TestDocumentScopedSearch(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	first, err := idx.Store(ctx, []string{"ocean waves crashing"}, "u1", "Sea")
	require.NoError(t, err)
	_, err = idx.Store(ctx, []string{"ocean currents flowing"}, "u1", "Currents")
	require.NoError(t, err)

	results, err := idx.Search(ctx, "ocean", "u1", SearchOptions{DocumentID: first, TopK: 10})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, first, r.DocumentID)
	}

	unscoped, err := idx.Search(ctx, "ocean", "u1", SearchOptions{TopK: 10})
	require.NoError(t, err)
	assert.Greater(t, len(unscoped), len(results))
}

func TestDeleteDocumentRespectsOwner(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	docID, err := idx.Store(ctx, []string{"delete me maybe"}, "u1", "Doc")
	require.NoError(t, err)

	// another owner guessing the id removes nothing
	require.NoError(t, idx.DeleteDocument(ctx, docID, "u2"))
	results, err := idx.Search(ctx, "delete", "u1", SearchOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, results)

	require.NoError(t, idx.DeleteDocument(ctx, docID, "u1"))
	results, err = idx.Search(ctx, "delete", "u1", SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMetadataTruncation(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	longTitle := strings.Repeat("T", 300)
	longChunk := strings.Repeat("word ", 400) // ~2000 chars

	_, err := idx.Store(ctx, []string{longChunk}, "u1", longTitle)
	require.NoError(t, err)

	results, err := idx.Search(ctx, "word", "u1", SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Len(t, results[0].Title, 100)
	assert.Len(t, results[0].Text, 1000)
}

func TestMetadataTruncationKeepsValidUTF8(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	// 121 bytes of 2-byte runes: the 100-byte cap lands mid-rune
	title := "a" + strings.Repeat("é", 60)
	chunk := "prélude " + strings.Repeat("naïveté ", 150)

	_, err := idx.Store(ctx, []string{chunk}, "u1", title)
	require.NoError(t, err)

	results, err := idx.Search(ctx, "naïveté", "u1", SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.True(t, utf8.ValidString(results[0].Title), "truncated title must stay valid UTF-8")
	assert.True(t, utf8.ValidString(results[0].Text), "truncated preview must stay valid UTF-8")
	assert.LessOrEqual(t, len(results[0].Title), 100)
	assert.LessOrEqual(t, len(results[0].Text), 1000)
}

func TestStats(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	_, err := idx.Store(ctx, []string{"a", "b", "c"}, "u1", "One")
	require.NoError(t, err)
	_, err = idx.Store(ctx, []string{"d"}, "u1", "Two")
	require.NoError(t, err)
	_, err = idx.Store(ctx, []string{"e"}, "u2", "Other")
	require.NoError(t, err)

	stats, err := idx.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, types.IndexStats{Records: 4, Documents: 2}, stats)
}

func TestTopKBoundsResults(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	chunks := make([]string, 12)
	for i := range chunks {
		chunks[i] = fmt.Sprintf("topic sentence number %d", i)
	}
	_, err := idx.Store(ctx, chunks, "u1", "Many")
	require.NoError(t, err)

	results, err := idx.Search(ctx, "topic sentence", "u1", SearchOptions{})
	require.NoError(t, err)
	assert.Len(t, results, 5, "default top_k is 5")

	results, err = idx.Search(ctx, "topic sentence", "u1", SearchOptions{TopK: 3})
	require.NoError(t, err)
	assert.Len(t, results, 3)
}
