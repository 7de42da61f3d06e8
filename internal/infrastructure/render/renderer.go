package render

import (
	"bytes"
	"html/template"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/clientbrief/clientbrief/errors"
	"github.com/clientbrief/clientbrief/internal/domain/entities"
)

// ReportContext carries everything a report template can reference. Exactly
// one of Analysis or Brief is set, depending on the report type.
type ReportContext struct {
	Analysis       *entities.ClientAnalysis
	Brief          *entities.DesignBrief
	GenerationDate string
	TranscriptName string
	CSS            template.CSS
	ImageURI       template.URL
	ImageFailed    bool
}

// Renderer turns analysis records into styled HTML and then PDF.
type Renderer struct {
	logger *zap.Logger
}

// NewRenderer constructs a report renderer.
func NewRenderer(logger *zap.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// RenderHTML executes the template at templatePath with data. A style.css
// next to the template is inlined when present; a missing stylesheet is
// only a warning.
func (r *Renderer) RenderHTML(templatePath string, data ReportContext) (string, error) {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return "", errors.ErrRenderFailed(err).WithDetail("template", templatePath)
	}

	data.CSS = r.loadStylesheet(filepath.Join(filepath.Dir(templatePath), "style.css"))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.ErrRenderFailed(err).WithDetail("template", templatePath)
	}

	if r.logger != nil {
		r.logger.Info("HTML rendered", zap.String("template", filepath.Base(templatePath)), zap.Int("bytes", buf.Len()))
	}
	return buf.String(), nil
}

func (r *Renderer) loadStylesheet(path string) template.CSS {
	css, err := os.ReadFile(path)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("stylesheet not found, rendering without it", zap.String("path", path))
		}
		return ""
	}
	return template.CSS(css)
}
