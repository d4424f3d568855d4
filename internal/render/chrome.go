package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromeEngine rasterizes HTML through headless Chrome. CSS @page
// sizes in the document are honored via preferCSSPageSize, so the
// per-document page directives drive the output geometry.
type ChromeEngine struct{}

// RenderPDF prints htmlPath to pdfPath, injecting pageCSS into the
// document before printing.
func (ChromeEngine) RenderPDF(ctx context.Context, htmlPath, pdfPath, pageCSS string) error {
	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return err
	}

	cctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var buf []byte
	actions := []chromedp.Action{
		chromedp.Navigate("file://" + abs),
		chromedp.WaitReady("body"),
	}
	if pageCSS != "" {
		var injected bool
		actions = append(actions, chromedp.Evaluate(injectStyleJS(pageCSS), &injected))
	}
	actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, _, err = page.PrintToPDF().
			WithPreferCSSPageSize(true).
			WithPrintBackground(true).
			WithMarginTop(0).
			WithMarginBottom(0).
			WithMarginLeft(0).
			WithMarginRight(0).
			Do(ctx)
		return err
	}))

	if err := chromedp.Run(cctx, actions...); err != nil {
		return fmt.Errorf("print to pdf: %w", err)
	}
	return os.WriteFile(pdfPath, buf, 0o644)
}

func injectStyleJS(css string) string {
	return fmt.Sprintf(
		`(() => { const s = document.createElement('style'); s.textContent = %q; document.head.appendChild(s); return true; })()`,
		css,
	)
}
