package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"docsum/types"
)

// MemoryStore is a brute-force cosine similarity store. It backs tests and
// single-process deployments where Postgres is not configured. Vectors are
// assumed L2-normalized, so similarity is a plain dot product.
type MemoryStore struct {
	mu        sync.RWMutex
	dim       int
	records   map[string]types.EmbeddingRecord
	summaries []types.SummaryRecord
}

func NewMemoryStore(dim int) *MemoryStore {
	return &MemoryStore{
		dim:     dim,
		records: make(map[string]types.EmbeddingRecord),
	}
}

func (s *MemoryStore) UpsertBatch(_ context.Context, records []types.EmbeddingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		if len(r.Vector) != s.dim {
			return fmt.Errorf("%w: vector dimension %d, index dimension %d", types.ErrIndexWrite, len(r.Vector), s.dim)
		}
	}
	for _, r := range records {
		s.records[r.ID] = r
	}
	return nil
}

func (s *MemoryStore) Search(_ context.Context, queryVec []float32, opts SearchOptions) ([]types.RetrievalResult, error) {
	if opts.Owner == "" {
		return nil, fmt.Errorf("owner filter is required")
	}
	if opts.TopK <= 0 {
		opts.TopK = 5
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []types.RetrievalResult
	for _, r := range s.records {
		if r.Metadata.Owner != opts.Owner {
			continue
		}
		if opts.DocumentID != "" && r.Metadata.DocumentID != opts.DocumentID {
			continue
		}
		results = append(results, types.RetrievalResult{
			Text:       r.Metadata.Text,
			Title:      r.Metadata.Title,
			DocumentID: r.Metadata.DocumentID,
			ChunkIndex: r.Metadata.ChunkIndex,
			Score:      dot(r.Vector, queryVec),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > opts.TopK {
		results = results[:opts.TopK]
	}
	return results, nil
}

func (s *MemoryStore) DeleteDocument(_ context.Context, documentID, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.records {
		if r.Metadata.DocumentID == documentID && r.Metadata.Owner == owner {
			delete(s.records, id)
		}
	}
	return nil
}

func (s *MemoryStore) Stats(_ context.Context, owner string) (types.IndexStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make(map[string]struct{})
	var stats types.IndexStats
	for _, r := range s.records {
		if r.Metadata.Owner != owner {
			continue
		}
		stats.Records++
		docs[r.Metadata.DocumentID] = struct{}{}
	}
	stats.Documents = len(docs)
	return stats, nil
}

func (s *MemoryStore) SaveSummary(_ context.Context, rec types.SummaryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append(s.summaries, rec)
	return nil
}

func (s *MemoryStore) ListSummaries(_ context.Context, owner string, limit int) ([]types.SummaryRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var recs []types.SummaryRecord
	for i := len(s.summaries) - 1; i >= 0 && len(recs) < limit; i-- {
		if s.summaries[i].Owner == owner {
			recs = append(recs, s.summaries[i])
		}
	}
	return recs, nil
}

func dot(a, b []float32) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
