// Package pdf validates lab-report PDFs and extracts their text for local
// parsing.
package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/spherical/homellm/internal/domain"
	"github.com/spherical/homellm/internal/observability"
)

// Extractor pulls the text layer out of PDF files using go-fitz
type Extractor struct {
	validator *Validator
	logger    *observability.Logger
}

// NewExtractor creates a new PDF text extractor
func NewExtractor(logger *observability.Logger) *Extractor {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Extractor{
		validator: NewValidator(logger),
		logger:    logger.WithOperation("pdf_extract"),
	}
}

// ExtractText returns the text of every page, separated by blank lines.
// Scanned PDFs without a text layer yield an IO error.
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	if err := e.validator.ValidatePDFPath(path); err != nil {
		return "", err
	}

	doc, err := fitz.New(path)
	if err != nil {
		return "", domain.IOError("failed to open PDF", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return "", domain.ValidationError("PDF has no pages", nil)
	}

	pages := make([]string, 0, pageCount)
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		text, err := doc.Text(pageNum)
		if err != nil {
			return "", domain.IOError(fmt.Sprintf("failed to read text from page %d", pageNum+1), err)
		}
		if strings.TrimSpace(text) != "" {
			pages = append(pages, strings.TrimSpace(text))
		}
	}

	if len(pages) == 0 {
		return "", domain.IOError("PDF has no text layer; use remote analysis for scanned reports", nil)
	}

	e.logger.Debug().Str("path", path).Int("pages", pageCount).Msg("Extracted PDF text")
	return strings.Join(pages, "\n\n"), nil
}
