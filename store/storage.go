package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"docsum/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// upsertBatchSize caps how many records go out in one round trip, which
// keeps individual batches inside upstream statement limits.
const upsertBatchSize = 100

// SearchOptions scope a similarity query. Owner is mandatory: no query may
// return records belonging to another owner. DocumentID optionally narrows
// retrieval to a single document.
type SearchOptions struct {
	Owner      string
	DocumentID string
	TopK       int
}

type VectorStorer interface {
	UpsertBatch(context.Context, []types.EmbeddingRecord) error
	Search(context.Context, []float32, SearchOptions) ([]types.RetrievalResult, error)
	DeleteDocument(ctx context.Context, documentID, owner string) error
	Stats(ctx context.Context, owner string) (types.IndexStats, error)
}

// HistoryStorer receives summary records after successful generation.
// The core only ever writes; reads serve the transport layer.
type HistoryStorer interface {
	SaveSummary(context.Context, types.SummaryRecord) error
	ListSummaries(ctx context.Context, owner string, limit int) ([]types.SummaryRecord, error)
}

type PostgresStore struct {
	pool   *pgxpool.Pool
	dim    int
	logger *slog.Logger
}

func NewPostgresStore(ctx context.Context, connStr string, dim int, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrIndexUnavailable, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %s", types.ErrIndexUnavailable, err)
	}

	return &PostgresStore{
		pool:   pool,
		dim:    dim,
		logger: logger,
	}, nil
}

func (p *PostgresStore) Init(ctx context.Context) error {
	query := fmt.Sprintf(`
    CREATE EXTENSION IF NOT EXISTS vector;

    CREATE TABLE IF NOT EXISTS embeddings (
        id TEXT PRIMARY KEY,
        owner TEXT NOT NULL,
        document_id TEXT NOT NULL,
        title TEXT,
        chunk_index INT NOT NULL,
        content TEXT NOT NULL,
        created_at TIMESTAMP WITH TIME ZONE,
        embedding vector(%d)
    );

	CREATE INDEX IF NOT EXISTS idx_embeddings_vec ON embeddings USING ivfflat (embedding vector_cosine_ops)
	WITH (lists = 100);

	CREATE INDEX IF NOT EXISTS idx_embeddings_owner ON embeddings(owner);
	CREATE INDEX IF NOT EXISTS idx_embeddings_document ON embeddings(document_id);

	CREATE TABLE IF NOT EXISTS summaries (
		id SERIAL PRIMARY KEY,
		owner TEXT NOT NULL,
		title TEXT,
		date TIMESTAMP WITH TIME ZONE,
		chunk_count INT,
		prompt TEXT,
		summary_preview TEXT,
		full_summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_summaries_owner ON summaries(owner);
    `, p.dim)
	_, err := p.pool.Exec(ctx, query)
	return err
}

// UpsertBatch writes records in fixed-size batches. A failed batch aborts
// the whole operation; batches already committed stay committed, which is
// the documented eventual-consistency trade-off of ingestion.
func (p *PostgresStore) UpsertBatch(ctx context.Context, records []types.EmbeddingRecord) error {
	query := `
    INSERT INTO embeddings (id, owner, document_id, title, chunk_index, content, created_at, embedding)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    ON CONFLICT (id) DO UPDATE SET
        content = EXCLUDED.content,
        embedding = EXCLUDED.embedding,
        created_at = EXCLUDED.created_at
    `
	for start := 0; start < len(records); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(records))

		batch := &pgx.Batch{}
		for _, r := range records[start:end] {
			batch.Queue(query,
				r.ID,
				r.Metadata.Owner,
				r.Metadata.DocumentID,
				r.Metadata.Title,
				r.Metadata.ChunkIndex,
				r.Metadata.Text,
				r.Metadata.CreatedAt,
				toPgVector(r.Vector),
			)
		}

		if err := p.pool.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("%w: batch %d: %s", types.ErrIndexWrite, start/upsertBatchSize+1, err)
		}
		p.logger.Info("upserted batch",
			"batch", start/upsertBatchSize+1,
			"total", (len(records)-1)/upsertBatchSize+1)
	}
	return nil
}

func (p *PostgresStore) Search(ctx context.Context, queryVec []float32, opts SearchOptions) ([]types.RetrievalResult, error) {
	if len(queryVec) == 0 {
		return nil, fmt.Errorf("empty query vector")
	}
	if opts.Owner == "" {
		return nil, fmt.Errorf("owner filter is required")
	}
	if opts.TopK <= 0 {
		opts.TopK = 5
	}

	vector := pgvector.NewVector(queryVec)

	query := `
		SELECT content, title, document_id, chunk_index,
		       1-(embedding <=> $1) as score
		FROM embeddings
		WHERE owner = $2
	`
	args := []any{vector, opts.Owner}
	if opts.DocumentID != "" {
		query += " AND document_id = $3"
		args = append(args, opts.DocumentID)
	}
	query += fmt.Sprintf(" ORDER BY embedding <=> $1 LIMIT %d", opts.TopK)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []types.RetrievalResult
	for rows.Next() {
		var r types.RetrievalResult
		if err := rows.Scan(&r.Text, &r.Title, &r.DocumentID, &r.ChunkIndex, &r.Score); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// DeleteDocument removes every record of one document. The owner predicate
// is part of the delete so a guessed document id is never enough to remove
// someone else's records.
func (p *PostgresStore) DeleteDocument(ctx context.Context, documentID, owner string) error {
	_, err := p.pool.Exec(ctx,
		"DELETE FROM embeddings WHERE document_id = $1 AND owner = $2",
		documentID, owner)
	return err
}

func (p *PostgresStore) Stats(ctx context.Context, owner string) (types.IndexStats, error) {
	var stats types.IndexStats
	err := p.pool.QueryRow(ctx,
		"SELECT COUNT(*), COUNT(DISTINCT document_id) FROM embeddings WHERE owner = $1",
		owner).Scan(&stats.Records, &stats.Documents)
	return stats, err
}

func (p *PostgresStore) SaveSummary(ctx context.Context, rec types.SummaryRecord) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO summaries (owner, title, date, chunk_count, prompt, summary_preview, full_summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.Owner, rec.Title, rec.Date, rec.ChunkCount, rec.Prompt, rec.SummaryPreview, rec.FullSummary,
	)
	return err
}

func (p *PostgresStore) ListSummaries(ctx context.Context, owner string, limit int) ([]types.SummaryRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.pool.Query(ctx, `
		SELECT owner, title, date, chunk_count, prompt, summary_preview, full_summary
		FROM summaries WHERE owner = $1 ORDER BY date DESC LIMIT $2`,
		owner, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []types.SummaryRecord
	for rows.Next() {
		var r types.SummaryRecord
		if err := rows.Scan(&r.Owner, &r.Title, &r.Date, &r.ChunkCount, &r.Prompt, &r.SummaryPreview, &r.FullSummary); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

func toPgVector(v []float32) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%f", x)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
		p.logger.Info("postgres connection pool closed")
	}
	return nil
}
