// Package pdftext implements extraction.Extractor for PDF files using the
// pure Go github.com/ledongthuc/pdf reader.
package pdftext

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/phrazzld/scry-decks/internal/extraction"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
)

// Extractor reads text from PDF files page by page.
type Extractor struct {
	logger *slog.Logger
}

// Ensure Extractor implements extraction.Extractor interface
var _ extraction.Extractor = (*Extractor)(nil)

// NewExtractor creates a PDF text extractor. If logger is nil, a default
// logger will be used.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger.With(slog.String("component", "pdf_extractor"))}
}

// ExtractText implements extraction.Extractor.
// Pages are joined with newlines; null pages and pages whose content
// stream cannot be decoded are skipped.
func (e *Extractor) ExtractText(ctx context.Context, path string) (text string, err error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	// The reader panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			log.Warn("pdf reader panicked", slog.String("path", path), slog.Any("panic", r))
			text = ""
			err = fmt.Errorf("%w: malformed document: %v", extraction.ErrExtractionFailed, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", extraction.ErrExtractionFailed, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn("failed to close pdf file", slog.String("error", closeErr.Error()))
		}
	}()

	pageCount := reader.NumPage()
	pages := make([]string, 0, pageCount)
	skipped := 0
	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			skipped++
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			log.Debug("skipping unreadable page",
				slog.Int("page", i),
				slog.String("error", err.Error()))
			skipped++
			continue
		}

		if trimmed := strings.TrimSpace(pageText); trimmed != "" {
			pages = append(pages, trimmed)
		}
	}

	text = strings.Join(pages, "\n")
	log.Debug("pdf text extracted",
		slog.Int("page_count", pageCount),
		slog.Int("skipped_pages", skipped),
		slog.Int("text_length", len(text)))
	return text, nil
}
