package render

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/zippz/fulfillment-service/internal/models"
)

// Document template names. "inserts" carries the sized-page layout;
// "cards" uses the renderer default page.
const (
	TemplateInserts = "inserts"
	TemplateCards   = "cards"
)

// TestNamespace is the reserved working-directory namespace used when
// test mode is active. Stale data under it is removed at run start.
const TestNamespace = "test"

// PDFEngine rasterizes a local HTML file to a paged PDF, applying the
// given page-size stylesheet.
type PDFEngine interface {
	RenderPDF(ctx context.Context, htmlPath, pdfPath, pageCSS string) error
}

// Renderer fills document templates and drives the PDF engine. All
// intermediates live under WorkDir/{uuid}.
type Renderer struct {
	TemplatesDir string
	WorkDir      string
	KeepHTML     bool // retain the HTML intermediate for inspection
	Engine       PDFEngine
}

// NewRenderer creates a renderer rooted at workDir
func NewRenderer(templatesDir, workDir string, keepHTML bool, engine PDFEngine) *Renderer {
	return &Renderer{TemplatesDir: templatesDir, WorkDir: workDir, KeepHTML: keepHTML, Engine: engine}
}

// CleanTestData removes any stale working data for the reserved test
// namespace. First step of every run.
func (r *Renderer) CleanTestData() error {
	return os.RemoveAll(filepath.Join(r.WorkDir, TestNamespace))
}

// RenderHTML fills the named template with the assembled data and
// writes the intermediate markup under the order's namespace,
// creating the path if absent.
func (r *Renderer) RenderHTML(name string, data models.CardData) (string, error) {
	tmpl, err := template.ParseFiles(filepath.Join(r.TemplatesDir, name+".html"))
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}

	dir := filepath.Join(r.WorkDir, data.UUID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create namespace dir: %w", err)
	}

	htmlPath := filepath.Join(dir, name+".html")
	f, err := os.Create(htmlPath)
	if err != nil {
		return "", err
	}
	if err := tmpl.Execute(f, data); err != nil {
		f.Close()
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return htmlPath, nil
}

// RenderDocument produces the PDF for one document type, removing the
// HTML intermediate afterwards unless KeepHTML is set.
func (r *Renderer) RenderDocument(ctx context.Context, name string, data models.CardData) (string, error) {
	htmlPath, err := r.RenderHTML(name, data)
	if err != nil {
		return "", err
	}

	pdfPath := filepath.Join(r.WorkDir, data.UUID, name+".pdf")
	if err := r.Engine.RenderPDF(ctx, htmlPath, pdfPath, PageCSS(name, len(data.Issues))); err != nil {
		return "", fmt.Errorf("rasterize %s: %w", name, err)
	}

	if !r.KeepHTML {
		if err := os.Remove(htmlPath); err != nil {
			return "", err
		}
	}
	return pdfPath, nil
}

// PageCSS returns the page-size directives for a document. The inserts
// layout depends on issue count: one issue gives two pages (small then
// large), more than one gives three (small, small, large). Other
// documents use the engine default page.
func PageCSS(name string, issueCount int) string {
	if name != TemplateInserts {
		return ""
	}
	if issueCount > 1 {
		return `@page:nth(1) { size: 576px 384px; margin: 0; }
@page:nth(2) { size: 576px 384px; margin: 0; }
@page:nth(3) { size: 528px 816px; margin: 0; }`
	}
	return `@page:nth(1) { size: 576px 384px; margin: 0; }
@page:nth(2) { size: 528px 816px; margin: 0; }`
}
