package types

import (
	"time"
)

type SourceFormat string

const (
	FormatPDF SourceFormat = "pdf"
	FormatTXT SourceFormat = "txt"
)

// EmbeddingRecord is the persisted unit of the similarity index.
// ID is composite: {document_id}_chunk_{index}.
type EmbeddingRecord struct {
	ID       string
	Vector   []float32
	Metadata RecordMetadata
}

type RecordMetadata struct {
	Owner      string
	DocumentID string
	Title      string
	ChunkIndex int
	Text       string // truncated retrieval preview, not full-fidelity
	CreatedAt  time.Time
}

// RetrievalResult is returned from a similarity query, ordered by Score descending.
type RetrievalResult struct {
	Text       string  `json:"text"`
	Title      string  `json:"title"`
	DocumentID string  `json:"document_id"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float64 `json:"score"`
}

// SummaryRecord is handed to the history store after a successful generation.
// The core writes it and never reads it back.
type SummaryRecord struct {
	Owner          string    `json:"owner"`
	Title          string    `json:"title"`
	Date           time.Time `json:"date"`
	ChunkCount     int       `json:"chunk_count"`
	Prompt         string    `json:"prompt"`
	SummaryPreview string    `json:"summary_preview"`
	FullSummary    string    `json:"full_summary"`
}

type IndexStats struct {
	Records   int `json:"records"`
	Documents int `json:"documents"`
}

type FileInfo struct {
	Name   string  `json:"name"`
	SizeMB float64 `json:"size_mb"`
	Type   string  `json:"type"`
	Path   string  `json:"path"`
}
