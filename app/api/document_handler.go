package api

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"docsum/app/middleware"
	"docsum/extractor"
	"docsum/index"
	"docsum/types"

	"github.com/gofiber/fiber/v2"
)

type DocumentHandler struct {
	extractor *extractor.Extractor
	index     *index.Index
	chunkSize int
	overlap   int
	logger    *slog.Logger
}

func NewDocumentHandler(ext *extractor.Extractor, idx *index.Index, chunkSize, overlap int, logger *slog.Logger) *DocumentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentHandler{
		extractor: ext,
		index:     idx,
		chunkSize: chunkSize,
		overlap:   overlap,
		logger:    logger,
	}
}

// HandleUpload runs the ingestion pipeline: save upload, extract, chunk,
// embed and index under the requesting owner.
func (h *DocumentHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return ErrBadRequest()
	}

	format, err := extractor.DetectFormat(fileHeader.Filename)
	if err != nil {
		return NewError(fiber.StatusBadRequest, err.Error())
	}

	dir, err := os.MkdirTemp("", "docsum-upload-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filepath.Base(fileHeader.Filename))
	if err := c.SaveFile(fileHeader, path); err != nil {
		return err
	}

	info, err := extractor.FileInfo(path)
	if err != nil {
		return err
	}

	text, err := h.extractor.ExtractText(path, format)
	if err != nil {
		return err
	}

	chunks := extractor.ChunkText(text, h.chunkSize, h.overlap)
	if len(chunks) == 0 {
		return fmt.Errorf("%w: document produced no chunks", types.ErrExtractionFailed)
	}

	owner := middleware.Owner(c)
	title := titleFromFilename(fileHeader.Filename)

	docID, err := h.index.Store(c.Context(), chunks, owner, title)
	if err != nil {
		return err
	}

	h.logger.Info("document ingested", "owner", owner, "document_id", docID, "chunks", len(chunks))
	return c.JSON(types.UploadResponse{
		DocumentID: docID,
		Title:      title,
		Chunks:     len(chunks),
		File:       info,
	})
}

func (h *DocumentHandler) HandleDelete(c *fiber.Ctx) error {
	docID := c.Params("id")
	if docID == "" {
		return ErrBadRequest()
	}
	owner := middleware.Owner(c)
	if err := h.index.DeleteDocument(c.Context(), docID, owner); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"deleted": docID})
}

func (h *DocumentHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.index.Stats(c.Context(), middleware.Owner(c))
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func titleFromFilename(name string) string {
	base := filepath.Base(name)
	return base[:len(base)-len(filepath.Ext(base))]
}
