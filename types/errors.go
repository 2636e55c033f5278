package types

import "errors"

// Domain error taxonomy. Handlers map these onto HTTP codes, callers
// match with errors.Is after unwrapping.
var (
	ErrExtractionFailed    = errors.New("extraction failed: source unreadable or empty")
	ErrEmbeddingFailed     = errors.New("embedding model unavailable")
	ErrIndexWrite          = errors.New("index batch write failed")
	ErrIndexUnavailable    = errors.New("similarity index unavailable")
	ErrNoRelevantContent   = errors.New("no relevant indexed content")
	ErrProviderRateLimited = errors.New("all providers rate limited")
	ErrProviderAuthFailed  = errors.New("provider credential rejected")
	ErrProviderExhausted   = errors.New("all provider attempts exhausted")
)
