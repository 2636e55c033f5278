package api

import (
	"log/slog"
	"time"
	"unicode/utf8"

	"docsum/app/middleware"
	"docsum/index"
	"docsum/store"
	"docsum/summarizer"
	"docsum/types"

	"github.com/gofiber/fiber/v2"
)

const previewLen = 200

type SummaryHandler struct {
	index        *index.Index
	orchestrator *summarizer.Orchestrator
	history      store.HistoryStorer
	logger       *slog.Logger
}

func NewSummaryHandler(idx *index.Index, orch *summarizer.Orchestrator, history store.HistoryStorer, logger *slog.Logger) *SummaryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryHandler{
		index:        idx,
		orchestrator: orch,
		history:      history,
		logger:       logger,
	}
}

// HandleSummarize retrieves the owner's most relevant chunks and delegates
// synthesis to the provider ladder.
func (h *SummaryHandler) HandleSummarize(c *fiber.Ctx) error {
	var params types.SummarizeParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}
	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	owner := middleware.Owner(c)

	results, err := h.index.Search(c.Context(), params.Prompt, owner, index.SearchOptions{
		DocumentID: params.DocumentID,
		TopK:       params.TopK,
	})
	if err != nil {
		return err
	}

	summary, intent, err := h.orchestrator.GenerateSummary(c.Context(), results, params.Prompt)
	if err != nil {
		return err
	}

	title := ""
	if len(results) > 0 {
		title = results[0].Title
	}
	rec := types.SummaryRecord{
		Owner:          owner,
		Title:          title,
		Date:           time.Now(),
		ChunkCount:     len(results),
		Prompt:         params.Prompt,
		SummaryPreview: preview(summary),
		FullSummary:    summary,
	}
	// history is a downstream consumer; losing a record never fails the request
	if err := h.history.SaveSummary(c.Context(), rec); err != nil {
		h.logger.Error("failed to save summary history", "owner", owner, "err", err)
	}

	return c.JSON(types.SummarizeResponse{
		Summary:    summary,
		Sources:    results,
		Intent:     types.IntentInfo{Format: string(intent.Format), Focus: string(intent.Focus)},
		Timestamp:  time.Now(),
		ChunkCount: len(results),
	})
}

func (h *SummaryHandler) HandleHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	recs, err := h.history.ListSummaries(c.Context(), middleware.Owner(c), limit)
	if err != nil {
		return err
	}
	if recs == nil {
		recs = []types.SummaryRecord{}
	}
	return c.JSON(recs)
}

func preview(s string) string {
	if len(s) <= previewLen {
		return s
	}
	n := previewLen
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
