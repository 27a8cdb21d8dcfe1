// Package http provides HTTP handlers for the remediation job queue.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/remediation/internal/httputil"
	"github.com/allisson/remediation/internal/remediation/http/dto"
	remediationUseCase "github.com/allisson/remediation/internal/remediation/usecase"
	customValidation "github.com/allisson/remediation/internal/validation"
)

// RemediationHandler handles HTTP requests for the remediation queue.
type RemediationHandler struct {
	remediationUseCase remediationUseCase.RemediationUseCase
	logger             *slog.Logger
}

// NewRemediationHandler creates a new remediation handler with required dependencies.
func NewRemediationHandler(
	remediationUseCase remediationUseCase.RemediationUseCase,
	logger *slog.Logger,
) *RemediationHandler {
	return &RemediationHandler{
		remediationUseCase: remediationUseCase,
		logger:             logger,
	}
}

// EnqueueHandler accepts a remediation job.
// POST /v1/remediation/jobs
// Returns 201 Created with the job id, trace id and status.
func (h *RemediationHandler) EnqueueHandler(c *gin.Context) {
	var req dto.EnqueueJobRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	entry, err := h.remediationUseCase.Enqueue(c.Request.Context(), req.ToDomain())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapEntryToEnqueueResponse(entry))
}

// GetHandler returns a snapshot of a live job.
// GET /v1/remediation/jobs/:id
func (h *RemediationHandler) GetHandler(c *gin.Context) {
	id, ok := h.parseJobID(c)
	if !ok {
		return
	}

	entry, err := h.remediationUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEntryToResponse(entry))
}

// ProcessNextHandler runs one synchronous processing cycle.
// POST /v1/remediation/jobs/process-next
// Returns 200 OK with the result, or 204 No Content when nothing is processable.
func (h *RemediationHandler) ProcessNextHandler(c *gin.Context) {
	result, err := h.remediationUseCase.ProcessNext(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if result == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, dto.MapResultToResponse(result))
}

// ProcessJobHandler processes a named job.
// POST /v1/remediation/jobs/:id/process
// Returns 204 No Content when the job is absent or not processable.
func (h *RemediationHandler) ProcessJobHandler(c *gin.Context) {
	id, ok := h.parseJobID(c)
	if !ok {
		return
	}

	result, err := h.remediationUseCase.ProcessJob(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if result == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, dto.MapResultToResponse(result))
}

// StatusHandler returns the queue health snapshot.
// GET /v1/remediation/status
func (h *RemediationHandler) StatusHandler(c *gin.Context) {
	report, err := h.remediationUseCase.Status(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStatusToResponse(report))
}

// ListDeadLettersHandler returns dead-lettered jobs, newest first.
// GET /v1/remediation/dead-letters?offset=0&limit=50
func (h *RemediationHandler) ListDeadLettersHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c, httputil.DeadLetterPage)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	entries, err := h.remediationUseCase.ListDeadLetters(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDeadLettersToListResponse(entries))
}

func (h *RemediationHandler) parseJobID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid job ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return id, true
}
