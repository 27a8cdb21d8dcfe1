// Package http provides HTTP handlers for dashboard alerts and anomaly-event ingestion.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/allisson/remediation/internal/alert/http/dto"
	alertUseCase "github.com/allisson/remediation/internal/alert/usecase"
	"github.com/allisson/remediation/internal/httputil"
	customValidation "github.com/allisson/remediation/internal/validation"
)

// AlertHandler handles HTTP requests for alerts.
type AlertHandler struct {
	alertUseCase alertUseCase.AlertUseCase
	logger       *slog.Logger
}

// NewAlertHandler creates a new alert handler with required dependencies.
func NewAlertHandler(alertUseCase alertUseCase.AlertUseCase, logger *slog.Logger) *AlertHandler {
	return &AlertHandler{
		alertUseCase: alertUseCase,
		logger:       logger,
	}
}

// ListHandler retrieves alerts newest first.
// GET /v1/alerts?offset=0&limit=50
func (h *AlertHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c, httputil.AlertPage)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	alerts, err := h.alertUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAlertsToListResponse(alerts))
}

// AcknowledgeHandler sets or clears the acknowledgement flag.
// PATCH /v1/alerts/:id/acknowledgement
// Returns 200 OK with the updated alert.
func (h *AlertHandler) AcknowledgeHandler(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid alert ID format: must be a positive integer"),
			h.logger)
		return
	}

	var req dto.AcknowledgeAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	alert, err := h.alertUseCase.Acknowledge(c.Request.Context(), id, *req.IsAcknowledged)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAlertToResponse(alert))
}

// IngestEventHandler stores an anomaly event as an alert and queues its remediation.
// POST /v1/alerts/events
// Returns 201 Created with the alert and the queued job.
func (h *AlertHandler) IngestEventHandler(c *gin.Context) {
	var req dto.AnomalyEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.alertUseCase.Ingest(c.Request.Context(), req.ToDomain())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapIngestResultToResponse(result))
}
