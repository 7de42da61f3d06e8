package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"go.uber.org/zap"

	"github.com/clientbrief/clientbrief/errors"
	usecaseErrors "github.com/clientbrief/clientbrief/internal/usecase/errors"
)

// WritePDF converts html into a PDF at outputPath and returns its size in
// bytes. The document renders fully in memory first; a failed conversion
// leaves no partial file behind.
func (r *Renderer) WritePDF(ctx context.Context, html, outputPath string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return 0, errors.ErrRenderFailed(err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return 0, errors.ErrRenderFailed(err).WithDetail("hint", "is wkhtmltopdf installed?")
	}

	page := wkhtmltopdf.NewPageReader(strings.NewReader(html))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.CreateContext(ctx); err != nil {
		return 0, errors.ErrRenderFailed(err)
	}

	size := int64(pdfg.Buffer().Len())
	if size == 0 {
		return 0, errors.ErrRenderFailed(usecaseErrors.ErrEmptyPDF)
	}

	if err := pdfg.WriteFile(outputPath); err != nil {
		os.Remove(outputPath)
		return 0, errors.ErrRenderFailed(err)
	}

	if r.logger != nil {
		r.logger.Info("PDF created", zap.String("path", outputPath), zap.Int64("bytes", size))
	}
	return size, nil
}
