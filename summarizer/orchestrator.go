package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"docsum/types"
)

const (
	defaultMaxRounds = 3
	baseRetryDelay   = 2 * time.Second
	retryBuffer      = time.Second
)

// Orchestrator classifies request intent, builds provider prompts and
// rotates through the provider ladder on failure. One orchestrator is
// shared process-wide; the ladder cursor is advisory preference updated
// with last-writer-wins semantics.
type Orchestrator struct {
	ladder    []Provider
	cursor    atomic.Int64
	maxRounds int
	logger    *slog.Logger

	// sleep is swappable in tests
	sleep func(ctx context.Context, d time.Duration) error
}

func NewOrchestrator(ladder []Provider, maxRounds int, logger *slog.Logger) *Orchestrator {
	if maxRounds <= 0 {
		maxRounds = defaultMaxRounds
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		ladder:    ladder,
		maxRounds: maxRounds,
		logger:    logger,
		sleep:     sleepCtx,
	}
}

// GenerateSummary produces a summary from the ranked retrieval results.
// Each round sweeps the full ladder starting at the cursor; a failed full
// sweep is followed by an interruptible backoff before the next round.
// Success at a non-cursor position moves the cursor there so subsequent
// requests prefer the last-known-good provider first.
func (o *Orchestrator) GenerateSummary(ctx context.Context, results []types.RetrievalResult, prompt string) (string, Intent, error) {
	intent := AnalyzeIntent(prompt)

	if len(results) == 0 {
		return "", intent, types.ErrNoRelevantContent
	}
	if len(o.ladder) == 0 {
		return "", intent, fmt.Errorf("%w: no providers configured", types.ErrProviderExhausted)
	}

	system := BuildInstruction(intent)

	var lastErr *ProviderError
	for round := 0; round < o.maxRounds; round++ {
		start := o.cursor.Load()

		var rateLimited, authFailed int
		var sweepRetryAfter time.Duration

		for i := 0; i < len(o.ladder); i++ {
			pos := (start + int64(i)) % int64(len(o.ladder))
			provider := o.ladder[pos]

			contextStr := buildContext(results, provider.MaxChunks(), provider.MaxContextChars())
			user := buildUserMessage(prompt, contextStr)

			o.logger.Info("trying provider",
				"provider", provider.Name(),
				"round", round+1,
				"context_tokens", countTokens(user))

			out, err := provider.Generate(ctx, system, user)
			if err == nil {
				if pos != start {
					o.cursor.Store(pos)
					o.logger.Info("ladder preference updated", "provider", provider.Name())
				}
				return out, intent, nil
			}

			if ctx.Err() != nil {
				return "", intent, ctx.Err()
			}

			pe := classify(provider.Name(), err)
			lastErr = pe
			switch pe.Kind {
			case KindRateLimited:
				rateLimited++
				if pe.RetryAfter > sweepRetryAfter {
					sweepRetryAfter = pe.RetryAfter
				}
			case KindAuthFailed:
				authFailed++
			}
			o.logger.Warn("provider failed",
				"provider", provider.Name(),
				"kind", pe.Kind.String(),
				"err", pe.Err)
		}

		// every credential rejected: retrying will not help
		if authFailed == len(o.ladder) {
			return "", intent, fmt.Errorf("%w: %s", types.ErrProviderAuthFailed, lastErr)
		}

		if round < o.maxRounds-1 {
			delay := calculateBackoff(baseRetryDelay, round+1)
			if sweepRetryAfter > 0 {
				// the provider told us when to come back; trust it plus a buffer
				delay = sweepRetryAfter + retryBuffer
			}
			o.logger.Info("all providers failed, backing off", "round", round+1, "delay", delay)
			if err := o.sleep(ctx, delay); err != nil {
				return "", intent, err
			}
			continue
		}

		if rateLimited > 0 {
			return "", intent, fmt.Errorf("%w: %s", types.ErrProviderRateLimited, lastErr)
		}
	}

	return "", intent, fmt.Errorf("%w: %s", types.ErrProviderExhausted, lastErr)
}

// Ladder reports the configured provider names in order, for diagnostics.
func (o *Orchestrator) Ladder() []string {
	names := make([]string, len(o.ladder))
	for i, p := range o.ladder {
		names[i] = p.Name()
	}
	return names
}
