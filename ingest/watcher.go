package ingest

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Watcher polls a source directory and emits file paths once a file has
// stayed unmodified for the monitoring window. This protects against
// picking up files that are still being copied in.
type Watcher struct {
	sourceDir      string
	monitoringTime time.Duration
	logger         *slog.Logger

	mu              sync.Mutex
	fileFirstSeen   map[string]time.Time
	filesProcessing map[string]bool
}

func NewWatcher(sourceDir string, monitoringTime time.Duration, logger *slog.Logger) *Watcher {
	return &Watcher{
		sourceDir:       sourceDir,
		monitoringTime:  monitoringTime,
		logger:          logger,
		fileFirstSeen:   make(map[string]time.Time),
		filesProcessing: make(map[string]bool),
	}
}

// Watch scans the source directory once a second until ctx is cancelled,
// sending ready files to fileChan. It never closes fileChan; the caller does.
func (w *Watcher) Watch(ctx context.Context, fileChan chan<- string) {
	w.logger.Info("start monitoring folder", "dir", w.sourceDir)

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stopping file watcher")
			return
		case <-ticker.C:
			w.scan(ctx, fileChan)
		}
	}
}

func (w *Watcher) scan(ctx context.Context, fileChan chan<- string) {
	files, err := os.ReadDir(w.sourceDir)
	if err != nil {
		w.logger.Error("error reading source directory", "err", err)
		return
	}

	currentFiles := make(map[string]bool)

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		filePath := filepath.Join(w.sourceDir, file.Name())
		currentFiles[filePath] = true

		w.mu.Lock()
		if w.filesProcessing[filePath] {
			w.mu.Unlock()
			continue
		}
		firstSeen, seen := w.fileFirstSeen[filePath]
		if !seen {
			w.fileFirstSeen[filePath] = time.Now()
			w.logger.Info("new file detected", "path", filePath)
			w.mu.Unlock()
			continue
		}
		w.mu.Unlock()

		if time.Since(firstSeen) < w.monitoringTime {
			continue
		}

		w.mu.Lock()
		w.filesProcessing[filePath] = true
		w.mu.Unlock()

		select {
		case fileChan <- filePath:
		case <-ctx.Done():
			return
		}
	}

	// forget files that disappeared from the directory
	w.mu.Lock()
	for filePath := range w.fileFirstSeen {
		if !currentFiles[filePath] {
			delete(w.fileFirstSeen, filePath)
			delete(w.filesProcessing, filePath)
		}
	}
	w.mu.Unlock()
}

// Done clears the tracking state for a processed file so a new file with
// the same name gets picked up again.
func (w *Watcher) Done(filePath string) {
	w.mu.Lock()
	delete(w.filesProcessing, filePath)
	delete(w.fileFirstSeen, filePath)
	w.mu.Unlock()
}
