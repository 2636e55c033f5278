package model

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// Embedder turns text into fixed-dimension vectors. The same embedder
// instance must be used for storage and querying: mixing models breaks
// similarity semantics. Implementations are safe for concurrent use and
// are constructed once per process.
type Embedder interface {
	// EmbedBatch returns one vector per input text, in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

type Config struct {
	Backend string // "ollama" or "openai"
	Model   string
	URL     string
	APIKey  string
	Dim     int
}

// NewEmbedder selects an embedding backend from config.
func NewEmbedder(cfg Config, logger *slog.Logger) (Embedder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Backend {
	case "ollama":
		logger.Info("using Ollama embeddings", "model", cfg.Model)
		return NewOllamaEmbedder(cfg.URL, cfg.Model, cfg.Dim), nil
	case "openai":
		logger.Info("using OpenAI embeddings", "model", cfg.Model)
		return NewOpenAIEmbedder(cfg.APIKey, cfg.Model, cfg.Dim)
	}
	return nil, fmt.Errorf("unknown embedding backend %q", cfg.Backend)
}

// normalize scales vec to unit length so cosine similarity reduces to a
// dot product.
func normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return vec
	}
	for i, x := range vec {
		vec[i] = float32(float64(x) / norm)
	}
	return vec
}
