package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zippz/fulfillment-service/internal/db"
	"github.com/zippz/fulfillment-service/internal/ingest"
	"github.com/zippz/fulfillment-service/internal/logging"
	"github.com/zippz/fulfillment-service/internal/models"
	"github.com/zippz/fulfillment-service/internal/pipeline"
)

// Handler holds the pipeline and the optional run store, and provides
// HTTP handlers
type Handler struct {
	pipe *pipeline.Pipeline
	runs *db.Database
}

// NewHandler creates a new handler instance
func NewHandler(pipe *pipeline.Pipeline, runs *db.Database) *Handler {
	return &Handler{pipe: pipe, runs: runs}
}

// Root is the service banner endpoint
func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, "zippz pdf fulfillment service")
}

// Health checks the health of the service
func (h *Handler) Health(c *gin.Context) {
	if h.runs != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.runs.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
				Error:   "Database connection failed",
				Message: err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "fulfillment-service",
		"timestamp": time.Now().UTC(),
	})
}

// HandleOrderWebhook receives a storefront order webhook and runs the
// full pipeline for it. The response status reflects the run outcome:
// 400 for a malformed payload, 422 for a record that cannot be
// fulfilled, 502 for an external-service failure, 500 otherwise.
func (h *Handler) HandleOrderWebhook(c *gin.Context) {
	var order ingest.WebhookOrder
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request",
			Message: err.Error(),
		})
		return
	}

	res, err := h.pipe.ProcessWebhook(c.Request.Context(), order)
	c.Set("run_id", res.RunID)
	if err != nil {
		stage := pipeline.StageOf(err)
		logging.LogKV("error", "pipeline run failed", map[string]interface{}{
			"run_id": res.RunID, "order_uuid": res.OrderUUID, "stage": stage, "error": err.Error(),
		})
		c.JSON(statusForStage(stage, err), models.ErrorResponse{
			Error:   "Pipeline failed at stage " + stage,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Message: "Order processed successfully",
		Data:    res,
	})
}

func statusForStage(stage string, err error) int {
	if errors.Is(err, ingest.ErrNotShippable) {
		return http.StatusUnprocessableEntity
	}
	switch stage {
	case pipeline.StagePresign, pipeline.StageShorten, pipeline.StageFulfill:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
