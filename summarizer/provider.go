package summarizer

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies a provider failure for the fallback ladder.
type ErrorKind int

const (
	KindTransient ErrorKind = iota
	KindRateLimited
	KindAuthFailed
)

func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindAuthFailed:
		return "auth_failed"
	}
	return "transient"
}

// ProviderError carries the classification of a failed generation attempt.
// RetryAfter is non-zero when the provider's error payload told us how
// long to wait.
type ProviderError struct {
	Provider   string
	Kind       ErrorKind
	RetryAfter time.Duration
	Err        error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Provider is one interchangeable text-generation backend. Implementations
// classify their own errors by returning *ProviderError from Generate.
type Provider interface {
	Name() string
	Generate(ctx context.Context, system, user string) (string, error)

	// MaxChunks and MaxContextChars bound how much retrieved context the
	// orchestrator packs into one request for this backend.
	MaxChunks() int
	MaxContextChars() int
}

// classify extracts the ProviderError from err, wrapping unclassified
// errors as transient.
func classify(name string, err error) *ProviderError {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	return &ProviderError{Provider: name, Kind: KindTransient, Err: err}
}
