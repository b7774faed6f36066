// Package extraction defines how text is pulled out of uploaded documents.
// The PDF implementation lives in internal/platform/pdftext.
package extraction

import (
	"context"
	"errors"
)

// ErrExtractionFailed is returned when a document cannot be opened or read.
// Callers treat it as degraded input rather than a fatal error.
var ErrExtractionFailed = errors.New("text extraction failed")

// Extractor reads the plain text of a stored document.
type Extractor interface {
	// ExtractText returns the document's text. Pages that cannot be read are
	// skipped; document-level failures wrap ErrExtractionFailed.
	ExtractText(ctx context.Context, path string) (string, error)
}
