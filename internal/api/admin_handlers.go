package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zippz/fulfillment-service/internal/models"
)

const defaultRunListLimit = 50

// ListRuns returns the most recent pipeline runs
func (h *Handler) ListRuns(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "Run history disabled",
			Message: "No database configured for run history",
		})
		return
	}

	limit := defaultRunListLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "Invalid limit",
				Message: "limit must be an integer between 1 and 500",
			})
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	runs, err := h.runs.ListRuns(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to list runs",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Message: "Runs retrieved successfully",
		Data:    runs,
	})
}

// GetOrderRuns returns the run history for one order
func (h *Handler) GetOrderRuns(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "Run history disabled",
			Message: "No database configured for run history",
		})
		return
	}

	orderUUID := c.Param("order_uuid")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	runs, err := h.runs.RunsForOrder(ctx, orderUUID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to get runs",
			Message: err.Error(),
		})
		return
	}
	if len(runs) == 0 {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "Order not found",
			Message: "No runs recorded for order " + orderUUID,
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Message: "Runs retrieved successfully",
		Data:    runs,
	})
}
