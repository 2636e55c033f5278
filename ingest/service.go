package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"docsum/config"
	"docsum/extractor"
	"docsum/index"
	"docsum/types"
)

// Service watches a directory for dropped documents and loads them into
// the similarity index under a fixed owner. Processed files move to the
// archive directory, failed ones to the bad directory.
type Service struct {
	cfg     config.Config
	logger  *slog.Logger
	ext     *extractor.Extractor
	idx     *index.Index
	watcher *Watcher
}

func New(cfg config.Config, ext *extractor.Extractor, idx *index.Index) (*Service, error) {
	if err := createDirectories(cfg.SourceDir, cfg.ArchiveDir, cfg.BadDir); err != nil {
		return nil, err
	}
	logger := slog.Default()
	return &Service{
		cfg:     cfg,
		logger:  logger,
		ext:     ext,
		idx:     idx,
		watcher: NewWatcher(cfg.SourceDir, cfg.MonitoringTime, logger),
	}, nil
}

// Run blocks until ctx is cancelled, then waits for in-flight files.
func (s *Service) Run(ctx context.Context) {
	fileChan := make(chan string, 10)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(fileChan)
		s.watcher.Watch(ctx, fileChan)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for filePath := range fileChan {
			if ctx.Err() != nil {
				return
			}
			if err := s.processFile(ctx, filePath); err != nil {
				s.logger.Error("error processing file", "path", filePath, "err", err)
				s.moveTo(filePath, s.cfg.BadDir)
			} else {
				s.moveTo(filePath, s.cfg.ArchiveDir)
			}
			s.watcher.Done(filePath)
		}
	}()

	wg.Wait()
	s.logger.Info("ingest service stopped")
}

func (s *Service) processFile(ctx context.Context, filePath string) error {
	format, err := extractor.DetectFormat(filePath)
	if err != nil {
		return err
	}

	if format == types.FormatPDF && (s.cfg.CropTop > 0 || s.cfg.CropBottom > 0) {
		if err := extractor.CropHeaderFooter(filePath, filePath, s.cfg.CropTop, s.cfg.CropBottom); err != nil {
			s.logger.Warn("header/footer crop failed, continuing with full pages", "path", filePath, "err", err)
		}
	}

	text, err := s.ext.ExtractText(filePath, format)
	if err != nil {
		return err
	}

	chunks := extractor.ChunkText(text, s.cfg.ChunkSize, s.cfg.OverlapPercent)
	title := titleFromPath(filePath)

	documentID, err := s.idx.Store(ctx, chunks, s.cfg.IngestOwner, title)
	if err != nil {
		return err
	}

	s.logger.Info("file loaded into index",
		"path", filePath, "document_id", documentID, "chunks", len(chunks))
	return nil
}

func titleFromPath(filePath string) string {
	name := filepath.Base(filePath)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}

// moveTo copies the file into destDir under a dated subdirectory and
// removes the original. Name collisions get a numeric suffix.
func (s *Service) moveTo(filePath, destDir string) {
	dated := filepath.Join(destDir, time.Now().Format("2006-01-02"))
	if err := os.MkdirAll(dated, 0755); err != nil {
		s.logger.Error("error creating directory", "dir", dated, "err", err)
		return
	}

	destPath := filepath.Join(dated, filepath.Base(filePath))
	counter := 1
	for {
		if _, err := os.Stat(destPath); os.IsNotExist(err) {
			break
		}
		ext := filepath.Ext(filePath)
		base := strings.TrimSuffix(filepath.Base(filePath), ext)
		destPath = filepath.Join(dated, fmt.Sprintf("%s_%d%s", base, counter, ext))
		counter++
	}

	if err := copyFile(filePath, destPath); err != nil {
		s.logger.Error("error moving file", "path", filePath, "err", err)
		return
	}
	os.Remove(filePath)
	s.logger.Info("file moved", "dest", destPath)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

func createDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
