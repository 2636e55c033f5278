package extractor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"docsum/types"

	"golang.org/x/text/encoding/charmap"
)

const (
	// readBlockSize bounds memory while slurping large text files.
	readBlockSize = 1 << 20

	// minPDFChars is the threshold below which the layout-aware PDF path
	// is considered to have failed and the basic path is tried.
	minPDFChars = 100
)

type Extractor struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// ExtractText converts a raw document into cleaned plain text.
func (e *Extractor) ExtractText(path string, format types.SourceFormat) (string, error) {
	var (
		text string
		err  error
	)
	switch format {
	case types.FormatPDF:
		text, err = e.extractPDF(path)
	case types.FormatTXT:
		text, err = e.extractTXT(path)
	default:
		return "", fmt.Errorf("%w: unsupported format %q", types.ErrExtractionFailed, format)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s", types.ErrExtractionFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: source produced no text", types.ErrExtractionFailed)
	}

	cleaned := CleanText(text)
	e.logger.Info("extracted text", "path", path, "chars", len(cleaned))
	return cleaned, nil
}

// extractTXT reads the file in bounded blocks and falls back to Latin-1
// when the content is not valid UTF-8.
func (e *Extractor) extractTXT(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var sb strings.Builder
	buf := make([]byte, readBlockSize)
	for {
		n, err := file.Read(buf)
		if n > 0 {
			sb.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}

	text := sb.String()
	if utf8.ValidString(text) {
		return text, nil
	}

	e.logger.Warn("file is not valid UTF-8, decoding as Latin-1", "path", path)
	decoded, err := charmap.ISO8859_1.NewDecoder().String(text)
	if err != nil {
		return "", err
	}
	return decoded, nil
}

// FileInfo reports basic information about an uploaded file.
func FileInfo(path string) (types.FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return types.FileInfo{}, err
	}
	name := filepath.Base(path)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	sizeMB := float64(st.Size()) / (1024 * 1024)
	return types.FileInfo{
		Name:   name,
		SizeMB: float64(int(sizeMB*100)) / 100,
		Type:   ext,
		Path:   path,
	}, nil
}

// DetectFormat maps a file extension onto a supported source format.
func DetectFormat(path string) (types.SourceFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return types.FormatPDF, nil
	case ".txt":
		return types.FormatTXT, nil
	}
	return "", errors.New("unsupported file extension")
}
