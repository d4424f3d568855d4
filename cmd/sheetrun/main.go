package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/zippz/fulfillment-service/internal/db"
	"github.com/zippz/fulfillment-service/internal/pipeline"
	"github.com/zippz/fulfillment-service/internal/render"
	"github.com/zippz/fulfillment-service/internal/storage"
)

// sheetrun processes the pending-orders window of the shipments
// workbook: renders and publishes documents for every shippable row
// and writes the cards URLs back to the processed workbook. It does
// not submit fulfillment orders; that happens on the webhook path.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := pipeline.Config{}
	var templatesDir, workDir string

	rootCmd := &cobra.Command{
		Use:   "sheetrun",
		Short: "Render and publish insert/card PDFs for a shipments-sheet row window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg, templatesDir, workDir)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&cfg.BenefitsPath, "ingredients", "files/ingredients.xlsx", "ingredient benefits workbook")
	flags.StringVar(&cfg.LegendPath, "colors", "files/ingredients_colors.xlsx", "ingredient legend workbook")
	flags.StringVar(&cfg.ShipmentsPath, "shipments", "files/shipments.xlsx", "pending orders workbook")
	flags.StringVar(&cfg.ProcessedPath, "processed", "prod/shipments_processed.xlsx", "output workbook with cards URLs")
	flags.IntVar(&cfg.MinRow, "min-row", 114, "first row of the order window (1-based)")
	flags.IntVar(&cfg.MaxRow, "max-row", 114, "last row of the order window (1-based)")
	flags.BoolVar(&cfg.TestMode, "test", false, "render into the test namespace without uploading")
	flags.StringVar(&templatesDir, "templates", "templates", "document templates directory")
	flags.StringVar(&workDir, "work-dir", "temp", "working directory for intermediates")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg pipeline.Config, templatesDir, workDir string) error {
	renderer := render.NewRenderer(templatesDir, workDir, cfg.TestMode, render.ChromeEngine{})

	store, err := storage.NewPublisher(ctx)
	if err != nil {
		return fmt.Errorf("configure s3 publisher: %w", err)
	}
	if !store.Enabled() && !cfg.TestMode {
		return fmt.Errorf("PDF_S3_BUCKET not set; use --test to render locally")
	}

	var runs *db.Database
	if db.Configured() {
		runs, err = db.NewDatabase()
		if err != nil {
			log.Printf("WARNING: run history disabled: %v", err)
			runs = nil
		} else {
			defer runs.Close()
		}
	}

	pipe := pipeline.New(cfg, renderer, store, nil, nil, runs)
	results, err := pipe.ProcessSheet(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if len(res.UploadErrors) > 0 || (res.CardsURL == "" && !cfg.TestMode) {
			failed++
		}
		fmt.Printf("order %s: rendered=%d cards_url=%s\n", res.OrderUUID, len(res.Rendered), res.CardsURL)
	}
	fmt.Printf("processed %d orders (%d with errors)\n", len(results), failed)
	return nil
}
