package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/zippz/fulfillment-service/internal/catalog"
	"github.com/zippz/fulfillment-service/internal/ingest"
	"github.com/zippz/fulfillment-service/internal/render"
)

type stubEngine struct{ calls int }

func (s *stubEngine) RenderPDF(_ context.Context, _, pdfPath, _ string) error {
	s.calls++
	return os.WriteFile(pdfPath, []byte("%PDF-1.4"), 0o644)
}

func writeReferenceWorkbooks(t *testing.T, dir string) (benefitsPath, legendPath string) {
	t.Helper()

	b := excelize.NewFile()
	defer b.Close()
	require.NoError(t, b.SetSheetName("Sheet1", "SleepZ"))
	require.NoError(t, b.SetCellStr("SleepZ", "B4", "Sleep Z10"))
	require.NoError(t, b.SetCellStr("SleepZ", "E4", "fall asleep faster"))
	require.NoError(t, b.SetCellStr("SleepZ", "B5", "Sleep Z12"))
	require.NoError(t, b.SetCellStr("SleepZ", "E5", "deeper rest"))
	_, err := b.NewSheet("CalmZ")
	require.NoError(t, err)
	require.NoError(t, b.SetCellStr("CalmZ", "B4", "Calm Z30"))
	require.NoError(t, b.SetCellStr("CalmZ", "D4", "ease tension"))
	require.NoError(t, b.SetCellStr("CalmZ", "B5", "Calm Z34"))
	require.NoError(t, b.SetCellStr("CalmZ", "D5", "stay focused"))
	benefitsPath = filepath.Join(dir, "ingredients.xlsx")
	require.NoError(t, b.SaveAs(benefitsPath))

	l := excelize.NewFile()
	defer l.Close()
	require.NoError(t, l.SetSheetName("Sheet1", catalog.AllKey))
	require.NoError(t, l.SetCellStr(catalog.AllKey, "D2", "calm30"))
	require.NoError(t, l.SetCellStr(catalog.AllKey, "E2", "calm34"))
	require.NoError(t, l.SetCellStr(catalog.AllKey, "F2", "sleep10"))
	require.NoError(t, l.SetCellStr(catalog.AllKey, "G2", "sleep12"))
	require.NoError(t, l.SetCellStr(catalog.AllKey, "B3", "#8a2be2"))
	require.NoError(t, l.SetCellStr(catalog.AllKey, "C3", "CBD"))
	for _, col := range []string{"D3", "E3", "F3", "G3"} {
		require.NoError(t, l.SetCellStr(catalog.AllKey, col, "x"))
	}
	legendPath = filepath.Join(dir, "ingredients_colors.xlsx")
	require.NoError(t, l.SaveAs(legendPath))
	return benefitsPath, legendPath
}

func writeTemplates(t *testing.T, dir string) string {
	t.Helper()
	templatesDir := filepath.Join(dir, "templates")
	require.NoError(t, os.MkdirAll(templatesDir, 0o755))
	tmpl := "<html><body>{{.First}} {{.OrderNumber}} issues={{len .Issues}}</body></html>"
	for _, name := range []string{render.TemplateInserts, render.TemplateCards} {
		require.NoError(t, os.WriteFile(filepath.Join(templatesDir, name+".html"), []byte(tmpl), 0o644))
	}
	return templatesDir
}

func testWebhookOrder(t *testing.T) ingest.WebhookOrder {
	t.Helper()
	payload := `{
	  "id": 4821,
	  "date_created": "2023-04-05T08:30:00",
	  "billing": {"first_name": "Dana", "last_name": "Reyes", "email": "dana@example.com",
	    "address_1": "12 Elm St", "city": "Austin", "state": "TX", "postcode": "78701", "country": "US"},
	  "line_items": [
	    {"id": 901, "name": "10 Day Trial Pack", "sku": "TRIAL-10", "quantity": 1},
	    {"id": 902, "name": "CalmZ C30"},
	    {"id": 903, "name": "CalmZ C34"},
	    {"id": 904, "name": "SleepZ S10"},
	    {"id": 905, "name": "SleepZ S12"}
	  ]
	}`
	var w ingest.WebhookOrder
	require.NoError(t, json.Unmarshal([]byte(payload), &w))
	return w
}

func testModePipeline(t *testing.T, engine render.PDFEngine) (*Pipeline, string) {
	t.Helper()
	dir := t.TempDir()
	benefitsPath, legendPath := writeReferenceWorkbooks(t, dir)
	workDir := filepath.Join(dir, "temp")

	cfg := Config{
		BenefitsPath: benefitsPath,
		LegendPath:   legendPath,
		TestMode:     true,
	}
	renderer := render.NewRenderer(writeTemplates(t, dir), workDir, true, engine)
	return New(cfg, renderer, nil, nil, nil, nil), workDir
}

func TestProcessWebhookTestMode(t *testing.T) {
	engine := &stubEngine{}
	pipe, workDir := testModePipeline(t, engine)

	res, err := pipe.ProcessWebhook(context.Background(), testWebhookOrder(t))
	require.NoError(t, err)

	// the run reports the real order id even though rendering happened
	// under the reserved namespace
	assert.Equal(t, "4821", res.OrderUUID)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 2, engine.calls)

	require.Len(t, res.Rendered, 2)
	for _, path := range res.Rendered {
		assert.Contains(t, path, filepath.Join(workDir, render.TestNamespace))
		assert.FileExists(t, path)
	}

	// nothing was published or fulfilled
	assert.Empty(t, res.CardsURL)
	assert.Empty(t, res.ShortURL)
	assert.Nil(t, res.Fulfillment)
}

func TestProcessWebhookNotShippable(t *testing.T) {
	pipe, _ := testModePipeline(t, &stubEngine{})

	w := testWebhookOrder(t)
	w.Billing.Email = ""

	_, err := pipe.ProcessWebhook(context.Background(), w)
	require.Error(t, err)
	assert.Equal(t, StageIngest, StageOf(err))
	assert.ErrorIs(t, err, ingest.ErrNotShippable)
}

func TestProcessWebhookUnknownProduct(t *testing.T) {
	pipe, _ := testModePipeline(t, &stubEngine{})

	w := testWebhookOrder(t)
	w.LineItems[1].Name = "CalmZ C38"

	_, err := pipe.ProcessWebhook(context.Background(), w)
	require.Error(t, err)
	assert.Equal(t, StageAssemble, StageOf(err))
}

func TestProcessSheetTestMode(t *testing.T) {
	engine := &stubEngine{}
	pipe, _ := testModePipeline(t, engine)

	dir := t.TempDir()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", ingest.OrdersSheet))
	for cell, v := range map[string]string{
		"A3": "Dana", "B3": "Reyes", "I3": "78701", "J3": "uuid-3",
		"L3": "sleep10", "M3": "sleep12", "N3": "calm30", "O3": "calm34",
		"P3": "3003", "Q3": "04/05/2023",
	} {
		require.NoError(t, f.SetCellStr(ingest.OrdersSheet, cell, v))
	}
	shipments := filepath.Join(dir, "shipments.xlsx")
	require.NoError(t, f.SaveAs(shipments))

	pipe.cfg.ShipmentsPath = shipments
	pipe.cfg.MinRow, pipe.cfg.MaxRow = 3, 3

	results, err := pipe.ProcessSheet(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "uuid-3", results[0].OrderUUID)
	assert.Len(t, results[0].Rendered, 2)
	assert.Equal(t, 2, engine.calls)
}

func TestStageError(t *testing.T) {
	base := errors.New("boom")
	err := &StageError{Stage: StageRender, Err: base}

	assert.Equal(t, "render: boom", err.Error())
	assert.ErrorIs(t, err, base)
	assert.Equal(t, StageRender, StageOf(err))
	assert.Equal(t, "", StageOf(base))
}
