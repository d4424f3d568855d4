package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zippz/fulfillment-service/internal/assemble"
	"github.com/zippz/fulfillment-service/internal/catalog"
	"github.com/zippz/fulfillment-service/internal/db"
	"github.com/zippz/fulfillment-service/internal/ingest"
	"github.com/zippz/fulfillment-service/internal/logging"
	"github.com/zippz/fulfillment-service/internal/models"
	"github.com/zippz/fulfillment-service/internal/render"
	"github.com/zippz/fulfillment-service/internal/shipstation"
	"github.com/zippz/fulfillment-service/internal/shortener"
	"github.com/zippz/fulfillment-service/internal/storage"
)

// Pipeline stage names, used in typed stage errors so callers can
// tell which part of a run failed.
const (
	StageIngest   = "ingest"
	StageCatalog  = "catalog"
	StageAssemble = "assemble"
	StageRender   = "render"
	StagePresign  = "presign"
	StageShorten  = "shorten"
	StageFulfill  = "fulfill"
)

// Per-stage deadlines for outbound work.
const (
	renderTimeout  = 2 * time.Minute
	uploadTimeout  = 60 * time.Second
	presignTimeout = 15 * time.Second
	shortenTimeout = 15 * time.Second
	fulfillTimeout = 30 * time.Second
	recordTimeout  = 5 * time.Second
)

// StageError wraps a failure with the pipeline stage it occurred in
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// StageOf returns the pipeline stage an error belongs to, or ""
func StageOf(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// Config holds the file locations and run window for a pipeline
type Config struct {
	BenefitsPath  string
	LegendPath    string
	ShipmentsPath string
	ProcessedPath string
	MinRow        int
	MaxRow        int
	TestMode      bool
}

// Pipeline runs the full order flow: ingest, assemble, render,
// publish, shorten, fulfill. One webhook triggers one sequential run.
type Pipeline struct {
	cfg       Config
	renderer  *render.Renderer
	store     *storage.Publisher
	shortener *shortener.Client
	shipper   *shipstation.Client
	runs      *db.Database // nil when run history is disabled
}

// New assembles a pipeline. shortener and shipper may be nil when
// their credentials are absent; the corresponding stages then fail
// with a typed error instead of a panic.
func New(cfg Config, renderer *render.Renderer, store *storage.Publisher, short *shortener.Client, shipper *shipstation.Client, runs *db.Database) *Pipeline {
	return &Pipeline{cfg: cfg, renderer: renderer, store: store, shortener: short, shipper: shipper, runs: runs}
}

// Result is the typed outcome of one run. It distinguishes "uploaded
// but no URL" from "never uploaded" from "fulfillment failed".
type Result struct {
	RunID           string                    `json:"run_id"`
	OrderUUID       string                    `json:"order_uuid"`
	Rendered        []string                  `json:"rendered,omitempty"`
	Uploads         []storage.UploadResult    `json:"-"`
	UploadErrors    []string                  `json:"upload_errors,omitempty"`
	InsertsURL      string                    `json:"inserts_url,omitempty"`
	CardsURL        string                    `json:"cards_url,omitempty"`
	ShortURL        string                    `json:"short_url,omitempty"`
	SheetWriteError string                    `json:"sheet_write_error,omitempty"`
	Fulfillment     *shipstation.SubmitResult `json:"fulfillment,omitempty"`
}

// ProcessWebhook runs the full pipeline for one webhook order
func (p *Pipeline) ProcessWebhook(ctx context.Context, w ingest.WebhookOrder) (Result, error) {
	res := Result{RunID: uuid.NewString()}

	// remove stale data for the reserved test namespace before reuse
	if err := p.renderer.CleanTestData(); err != nil {
		logging.LogKV("warn", "failed to clean test namespace", map[string]interface{}{"error": err.Error()})
	}

	order, payload, err := ingest.FromWebhook(w)
	if err != nil {
		err = &StageError{Stage: StageIngest, Err: err}
		p.recordRun(res, db.RunStatusSkipped, err)
		return res, err
	}
	res.OrderUUID = order.UUID
	if p.cfg.TestMode {
		order.UUID = render.TestNamespace
	}

	cardURL, err := p.produceDocuments(ctx, order, &res)
	if err != nil {
		p.recordRun(res, db.RunStatusFailed, err)
		return res, err
	}
	if p.cfg.TestMode {
		// artifacts stay local for inspection; nothing is published
		p.recordRun(res, db.RunStatusSucceeded, nil)
		return res, nil
	}

	// Durable side effect: write the cards URL back into the
	// shipments sheet. Not fatal to fulfillment.
	if err := ingest.WriteSignedURLs(p.cfg.ShipmentsPath, p.cfg.ProcessedPath, p.cfg.MinRow, p.cfg.MaxRow, map[string]string{res.OrderUUID: cardURL}); err != nil {
		res.SheetWriteError = err.Error()
		logging.LogKV("error", "processed sheet write failed", map[string]interface{}{
			"run_id": res.RunID, "order_uuid": res.OrderUUID, "error": err.Error(),
		})
	}

	if err := p.shortenAndFulfill(ctx, cardURL, payload, &res); err != nil {
		p.recordRun(res, db.RunStatusFailed, err)
		return res, err
	}

	p.recordRun(res, db.RunStatusSucceeded, nil)
	return res, nil
}

// ProcessSheet runs the tabular variant: every shippable row in the
// configured window is rendered and published, then the processed
// sheet is written once with all cards URLs. A failed order is
// recorded and the batch continues; no fulfillment submission happens
// in this mode.
func (p *Pipeline) ProcessSheet(ctx context.Context) ([]Result, error) {
	if err := p.renderer.CleanTestData(); err != nil {
		logging.LogKV("warn", "failed to clean test namespace", map[string]interface{}{"error": err.Error()})
	}

	orders, err := ingest.FromSheet(p.cfg.ShipmentsPath, p.cfg.MinRow, p.cfg.MaxRow)
	if err != nil {
		return nil, &StageError{Stage: StageIngest, Err: err}
	}

	results := make([]Result, 0, len(orders))
	cardURLs := make(map[string]string)
	for _, order := range orders {
		res := Result{RunID: uuid.NewString(), OrderUUID: order.UUID}
		if p.cfg.TestMode {
			order.UUID = render.TestNamespace
		}
		cardURL, err := p.produceDocuments(ctx, order, &res)
		if err != nil {
			logging.LogKV("error", "order failed", map[string]interface{}{
				"run_id": res.RunID, "order_uuid": res.OrderUUID, "error": err.Error(),
			})
			p.recordRun(res, db.RunStatusFailed, err)
			results = append(results, res)
			continue
		}
		if !p.cfg.TestMode {
			cardURLs[res.OrderUUID] = cardURL
		}
		p.recordRun(res, db.RunStatusSucceeded, nil)
		results = append(results, res)
	}

	if len(cardURLs) > 0 {
		if err := ingest.WriteSignedURLs(p.cfg.ShipmentsPath, p.cfg.ProcessedPath, p.cfg.MinRow, p.cfg.MaxRow, cardURLs); err != nil {
			return results, fmt.Errorf("write processed sheet: %w", err)
		}
	}
	return results, nil
}

// produceDocuments runs catalog load, assembly, rendering, upload and
// presign for one order, returning the cards URL. In test mode it
// stops after rendering.
func (p *Pipeline) produceDocuments(ctx context.Context, order models.CustomerOrder, res *Result) (string, error) {
	cat, err := catalog.Load(p.cfg.BenefitsPath, p.cfg.LegendPath)
	if err != nil {
		return "", &StageError{Stage: StageCatalog, Err: err}
	}

	data, err := assemble.BuildCardData(order, cat)
	if err != nil {
		return "", &StageError{Stage: StageAssemble, Err: err}
	}

	rctx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()
	var paths []string
	for _, name := range []string{render.TemplateInserts, render.TemplateCards} {
		path, err := p.renderer.RenderDocument(rctx, name, data)
		if err != nil {
			return "", &StageError{Stage: StageRender, Err: err}
		}
		paths = append(paths, path)
	}
	res.Rendered = paths

	if p.cfg.TestMode {
		return "", nil
	}

	uctx, ucancel := context.WithTimeout(ctx, uploadTimeout)
	defer ucancel()
	res.Uploads = p.store.UploadFiles(uctx, paths, order.UUID)
	for _, u := range res.Uploads {
		if u.Err != nil {
			res.UploadErrors = append(res.UploadErrors, fmt.Sprintf("%s: %v", u.Key, u.Err))
			logging.LogKV("error", "upload failed", map[string]interface{}{
				"run_id": res.RunID, "key": u.Key, "error": u.Err.Error(),
			})
		}
	}

	pctx, pcancel := context.WithTimeout(ctx, presignTimeout)
	defer pcancel()
	insertsURL, cardsURL, err := p.store.PresignedURLs(pctx, order.UUID)
	if err != nil {
		return "", &StageError{Stage: StagePresign, Err: err}
	}
	res.InsertsURL = insertsURL
	res.CardsURL = cardsURL
	return cardsURL, nil
}

func (p *Pipeline) shortenAndFulfill(ctx context.Context, cardURL string, payload models.ShipStationOrder, res *Result) error {
	if p.shortener == nil {
		return &StageError{Stage: StageShorten, Err: errors.New("shortener not configured")}
	}
	sctx, cancel := context.WithTimeout(ctx, shortenTimeout)
	defer cancel()
	short, err := p.shortener.Shorten(sctx, cardURL)
	if err != nil {
		return &StageError{Stage: StageShorten, Err: err}
	}
	res.ShortURL = short

	if p.shipper == nil {
		return &StageError{Stage: StageFulfill, Err: errors.New("shipstation not configured")}
	}
	if err := shipstation.AttachPDFLink(&payload, short); err != nil {
		return &StageError{Stage: StageFulfill, Err: err}
	}

	fctx, fcancel := context.WithTimeout(ctx, fulfillTimeout)
	defer fcancel()
	sub, err := p.shipper.CreateOrder(fctx, payload)
	res.Fulfillment = &sub
	if err != nil {
		logging.LogKV("error", "fulfillment submission failed", map[string]interface{}{
			"run_id": res.RunID, "order_uuid": res.OrderUUID, "status": sub.StatusCode, "body": sub.Body,
		})
		return &StageError{Stage: StageFulfill, Err: err}
	}
	return nil
}

func (p *Pipeline) recordRun(res Result, status db.RunStatus, runErr error) {
	if p.runs == nil {
		return
	}
	rec := db.RunRecord{
		ID:        res.RunID,
		OrderUUID: res.OrderUUID,
		Status:    status,
		CardsURL:  res.CardsURL,
		ShortURL:  res.ShortURL,
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := p.runs.RecordRun(ctx, rec); err != nil {
		logging.LogKV("warn", "failed to record run", map[string]interface{}{
			"run_id": res.RunID, "error": err.Error(),
		})
	}
}
