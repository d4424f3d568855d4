package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/zippz/fulfillment-service/internal/api"
	"github.com/zippz/fulfillment-service/internal/db"
	"github.com/zippz/fulfillment-service/internal/logging"
	"github.com/zippz/fulfillment-service/internal/pipeline"
	"github.com/zippz/fulfillment-service/internal/render"
	"github.com/zippz/fulfillment-service/internal/secrets"
	"github.com/zippz/fulfillment-service/internal/shipstation"
	"github.com/zippz/fulfillment-service/internal/shortener"
	"github.com/zippz/fulfillment-service/internal/storage"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	port := getEnv("PORT", "8080")
	ctx := context.Background()

	cfg := pipeline.Config{
		BenefitsPath:  getEnv("INGREDIENTS_FILE", "files/ingredients.xlsx"),
		LegendPath:    getEnv("INGREDIENTS_COLORS_FILE", "files/ingredients_colors.xlsx"),
		ShipmentsPath: getEnv("SHIPMENTS_FILE", "files/shipments.xlsx"),
		ProcessedPath: getEnv("PROCESSED_FILE", "prod/shipments_processed.xlsx"),
		MinRow:        getEnvInt("SHIPMENTS_MIN_ROW", 114),
		MaxRow:        getEnvInt("SHIPMENTS_MAX_ROW", 114),
		TestMode:      os.Getenv("TEST_MODE") == "true",
	}

	renderer := render.NewRenderer(
		getEnv("TEMPLATES_DIR", "templates"),
		getEnv("WORK_DIR", "temp"),
		cfg.TestMode,
		render.ChromeEngine{},
	)

	store, err := storage.NewPublisher(ctx)
	if err != nil {
		log.Fatalf("failed to configure s3 publisher: %v", err)
	}
	if !store.Enabled() && !cfg.TestMode {
		log.Println("WARNING: PDF_S3_BUCKET not set; uploads and presigned URLs will fail")
	}

	creds, err := secrets.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load credentials: %v", err)
	}
	var short *shortener.Client
	if creds.HasRebrandly() {
		short = shortener.New(creds.RebrandlyAPIKey, creds.RebrandlyWorkspace)
	} else {
		log.Println("WARNING: no Rebrandly credentials; link shortening disabled")
	}
	var shipper *shipstation.Client
	if creds.HasShipStation() {
		shipper = shipstation.New(creds.ShipStationKey, creds.ShipStationSecret)
	} else {
		log.Println("WARNING: no ShipStation credentials; fulfillment submission disabled")
	}

	// Run history is optional; the service still processes orders
	// without it.
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

	pipe := pipeline.New(cfg, renderer, store, short, shipper, runs)
	h := api.NewHandler(pipe, runs)

	r := gin.New()
	r.Use(gin.Recovery(), logging.JSONLogger())

	corsCfg := cors.Config{AllowMethods: []string{"GET", "POST", "OPTIONS"}, AllowHeaders: []string{"Authorization", "Content-Type"}}
	if origin := os.Getenv("ADMIN_ORIGIN"); origin != "" {
		corsCfg.AllowOrigins = []string{origin}
	} else {
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))

	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	// Both historical webhook paths accept the same payload
	r.POST("/api/post/order", h.HandleOrderWebhook)
	r.POST("/webhook", h.HandleOrderWebhook)

	admin := r.Group("/api/admin")
	admin.Use(api.AuthMiddleware(), api.AdminMiddleware())
	{
		admin.GET("/runs", h.ListRuns)
		admin.GET("/runs/:order_uuid", h.GetOrderRuns)
	}

	log.Printf("fulfillment-service listening on :%s", port)
	if err := r.Run(fmt.Sprintf(":%s", port)); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid %s value: %s, using default %d", k, v, def)
		return def
	}
	return n
}
