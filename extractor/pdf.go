package extractor

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	pdftypes "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// extractPDF tries the layout-aware pass first; if it yields too little
// text it retries with the basic page-by-page pass.
func (e *Extractor) extractPDF(path string) (string, error) {
	text, err := e.extractPDFLayout(path)
	if err != nil || len(text) < minPDFChars {
		e.logger.Warn("layout-aware extraction yielded little text, trying page-by-page", "path", path, "chars", len(text))
		text, err = e.extractPDFPages(path)
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

// extractPDFLayout walks all content streams in document order and keeps
// positioning operators as line breaks, which preserves paragraph shape
// far better than raw string collection.
func (e *Extractor) extractPDFLayout(path string) (string, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var sb strings.Builder
	for page := 1; page <= ctx.PageCount; page++ {
		r, err := pdfcpu.ExtractPageContent(ctx, page)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", page, err)
		}
		if r == nil {
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil {
			return "", err
		}
		sb.WriteString(contentText(content, true))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// extractPDFPages is the basic fallback: string literals only, page by page,
// skipping pages whose content streams cannot be read.
func (e *Extractor) extractPDFPages(path string) (string, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var sb strings.Builder
	for page := 1; page <= ctx.PageCount; page++ {
		r, err := pdfcpu.ExtractPageContent(ctx, page)
		if err != nil || r == nil {
			e.logger.Warn("skipping unreadable page", "page", page, "err", err)
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil {
			continue
		}
		if text := contentText(content, false); text != "" {
			sb.WriteString(text)
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// contentText decodes the text show operators of one content stream.
// In layout mode the Td/TD/T* positioning operators become line breaks.
func contentText(content []byte, layout bool) string {
	var sb strings.Builder
	i := 0
	n := len(content)
	for i < n {
		c := content[i]
		switch {
		case c == '(':
			lit, next := parseStringLiteral(content, i)
			sb.WriteString(lit)
			i = next
		case layout && c == 'T' && i+1 < n && (content[i+1] == 'd' || content[i+1] == 'D' || content[i+1] == '*'):
			sb.WriteString("\n")
			i += 2
		case c == 'T' && i+1 < n && content[i+1] == 'J':
			// spacing adjustments inside TJ arrays were already consumed
			// while parsing the literals; nothing to add here
			sb.WriteString(" ")
			i += 2
		default:
			i++
		}
	}
	return sb.String()
}

// parseStringLiteral consumes a (...) literal starting at content[start]=='('
// and returns the decoded text plus the index just past the literal.
func parseStringLiteral(content []byte, start int) (string, int) {
	var sb strings.Builder
	depth := 0
	i := start
	for i < len(content) {
		c := content[i]
		switch c {
		case '\\':
			if i+1 < len(content) {
				switch content[i+1] {
				case 'n':
					sb.WriteByte('\n')
				case 't':
					sb.WriteByte('\t')
				case '(', ')', '\\':
					sb.WriteByte(content[i+1])
				}
				i += 2
				continue
			}
			i++
		case '(':
			if depth > 0 {
				sb.WriteByte(c)
			}
			depth++
			i++
		case ')':
			depth--
			if depth == 0 {
				return sb.String(), i + 1
			}
			sb.WriteByte(c)
			i++
		default:
			if depth > 0 {
				sb.WriteByte(c)
			}
			i++
		}
	}
	return sb.String(), i
}

// CropHeaderFooter trims running headers and footers off every page before
// extraction. top and bottom are in points (1 pt = 1/72 inch).
func CropHeaderFooter(inputPath, outputPath string, top, bottom float64) error {
	conf := api.LoadConfiguration()

	pages := []string{"1-"}

	cropStr := fmt.Sprintf("%.2f 0 %.2f 0", top, bottom)

	box, err := pdfmodel.ParseBox(cropStr, pdftypes.POINTS)
	if err != nil {
		return fmt.Errorf("failed to parse crop box: %w", err)
	}

	if err := api.CropFile(inputPath, outputPath, pages, box, conf); err != nil {
		return fmt.Errorf("failed to crop PDF: %w", err)
	}

	return nil
}
