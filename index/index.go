package index

import (
	"context"
	"crypto/md5"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"docsum/model"
	"docsum/store"
	"docsum/types"

	"github.com/google/uuid"
)

const (
	maxTitleLen   = 100
	maxPreviewLen = 1000
	defaultTopK   = 5
)

// Index is the similarity index over chunk embeddings. One instance is
// built per process and shared across requests; both the embedder and the
// storage handle are long-lived.
type Index struct {
	embedder model.Embedder
	storer   store.VectorStorer
	logger   *slog.Logger
}

func New(embedder model.Embedder, storer store.VectorStorer, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{
		embedder: embedder,
		storer:   storer,
		logger:   logger,
	}
}

// Store embeds chunks in one batch and persists them under a fresh
// document id. Repeated uploads of the same title never collide: the id
// mixes in a random component rather than wall-clock time.
func (i *Index) Store(ctx context.Context, chunks []string, owner, title string) (string, error) {
	if len(chunks) == 0 {
		return "", fmt.Errorf("%w: no chunks to store", types.ErrIndexWrite)
	}

	i.logger.Info("generating embeddings", "chunks", len(chunks), "owner", owner)
	vectors, err := i.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return "", err
	}

	documentID := deriveDocumentID(owner, title)
	now := time.Now()

	records := make([]types.EmbeddingRecord, len(chunks))
	for n, chunk := range chunks {
		records[n] = types.EmbeddingRecord{
			ID:     fmt.Sprintf("%s_chunk_%d", documentID, n),
			Vector: vectors[n],
			Metadata: types.RecordMetadata{
				Owner:      owner,
				DocumentID: documentID,
				Title:      truncate(title, maxTitleLen),
				ChunkIndex: n,
				Text:       truncate(chunk, maxPreviewLen),
				CreatedAt:  now,
			},
		}
	}

	if err := i.storer.UpsertBatch(ctx, records); err != nil {
		return "", err
	}
	i.logger.Info("stored document", "document_id", documentID, "title", title, "chunks", len(chunks))
	return documentID, nil
}

// SearchOptions mirror store.SearchOptions minus the owner, which Search
// takes explicitly since it is the isolation key.
type SearchOptions struct {
	DocumentID string
	TopK       int
}

// Search embeds the query with the same model used at ingestion and runs an
// owner-scoped nearest-neighbor query. An empty result set is a valid
// terminal state, not an error.
func (i *Index) Search(ctx context.Context, query, owner string, opts SearchOptions) ([]types.RetrievalResult, error) {
	if opts.TopK <= 0 {
		opts.TopK = defaultTopK
	}

	vectors, err := i.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, err
	}

	results, err := i.storer.Search(ctx, vectors[0], store.SearchOptions{
		Owner:      owner,
		DocumentID: opts.DocumentID,
		TopK:       opts.TopK,
	})
	if err != nil {
		return nil, err
	}
	i.logger.Info("similarity search", "owner", owner, "results", len(results))
	return results, nil
}

func (i *Index) DeleteDocument(ctx context.Context, documentID, owner string) error {
	return i.storer.DeleteDocument(ctx, documentID, owner)
}

func (i *Index) Stats(ctx context.Context, owner string) (types.IndexStats, error) {
	return i.storer.Stats(ctx, owner)
}

// deriveDocumentID hashes owner and title together with a random component
// so the id stays opaque and unique per upload event.
func deriveDocumentID(owner, title string) string {
	seed := fmt.Sprintf("%s_%s_%s", owner, title, uuid.NewString())
	return fmt.Sprintf("%x", md5.Sum([]byte(seed)))
}

// truncate cuts s to at most n bytes, backing up to a rune boundary so
// the result is always valid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
