package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/remediation/internal/remediation/domain"
	"github.com/allisson/remediation/internal/remediation/http/dto"
	"github.com/allisson/remediation/internal/remediation/usecase/mocks"
)

func setupTestHandler(t *testing.T) (*RemediationHandler, *mocks.MockRemediationUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mocks.MockRemediationUseCase{}
	t.Cleanup(func() { mockUseCase.AssertExpectations(t) })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewRemediationHandler(mockUseCase, logger), mockUseCase
}

func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

func TestRemediationHandler_EnqueueHandler(t *testing.T) {
	t.Run("Success_Created", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		jobID := uuid.Must(uuid.NewV7())
		mockUseCase.On("Enqueue", mock.Anything, mock.MatchedBy(func(p domain.Payload) bool {
			return p.ManualReference != nil && p.ManualReference.Path == "pumps/p100.md"
		})).Return(&domain.QueueEntry{ID: jobID, TraceID: "trace-abc", Status: domain.StatusPending}, nil).Once()

		body := map[string]any{
			"anomaly":          map[string]any{"metric": "pressure"},
			"manual_reference": map[string]any{"path": "pumps/p100.md"},
			"metadata":         map[string]any{"dashboard_id": 7},
		}
		c, w := createTestContext(http.MethodPost, "/v1/remediation/jobs", body)
		handler.EnqueueHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		var response dto.EnqueueJobResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, jobID.String(), response.ID)
		assert.Equal(t, "trace-abc", response.TraceID)
		assert.Equal(t, "pending", response.Status)
	})

	t.Run("Error_DuplicateTrace", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("Enqueue", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: trace-abc", domain.ErrDuplicateTrace)).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/remediation/jobs", map[string]any{"trace_id": "trace-abc"})
		handler.EnqueueHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Error_EmptyPayload", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("Enqueue", mock.Anything, domain.Payload{}).Return(nil, domain.ErrEmptyPayload).Once()

		c, w := createTestContext(http.MethodPost, "/v1/remediation/jobs", map[string]any{})
		handler.EnqueueHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_InvalidManualPath", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/remediation/jobs",
			map[string]any{"manual_reference": map[string]any{"path": "../secret"}})
		handler.EnqueueHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestRemediationHandler_GetHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		jobID := uuid.New()
		mockUseCase.On("Get", mock.Anything, jobID).Return(&domain.QueueEntry{
			ID:           jobID,
			TraceID:      "trace-1",
			Status:       domain.StatusError,
			AttemptCount: 1,
			LastError:    "unexpected error: boom",
			CreatedAt:    time.Now().UTC(),
		}, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/remediation/jobs/"+jobID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: jobID.String()}}
		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.JobResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "error", response.Status)
		require.NotNil(t, response.LastError)
		assert.Equal(t, "unexpected error: boom", *response.LastError)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		jobID := uuid.New()
		mockUseCase.On("Get", mock.Anything, jobID).Return(nil, domain.ErrJobNotFound).Once()

		c, w := createTestContext(http.MethodGet, "/v1/remediation/jobs/"+jobID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: jobID.String()}}
		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_InvalidUUID", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/remediation/jobs/nope", nil)
		c.Params = gin.Params{{Key: "id", Value: "nope"}}
		handler.GetHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestRemediationHandler_ProcessNextHandler(t *testing.T) {
	t.Run("Success_Processed", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("ProcessNext", mock.Anything).Return(&domain.RemediationResult{
			TraceID:    "trace-1",
			AlertID:    7,
			Summary:    "close valve",
			Steps:      []domain.Step{{Order: 1, Action: "close valve"}},
			Confidence: domain.ConfidenceMedium,
		}, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/remediation/jobs/process-next", nil)
		handler.ProcessNextHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.ProcessResultResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "close valve", response.Summary)
		assert.Len(t, response.Steps, 1)
	})

	t.Run("Success_NothingToProcess", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("ProcessNext", mock.Anything).Return(nil, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/remediation/jobs/process-next", nil)
		handler.ProcessNextHandler(c)

		assert.Equal(t, http.StatusNoContent, c.Writer.Status())
		assert.Equal(t, 0, w.Body.Len())
	})

	t.Run("Error_ProcessingFailure", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("ProcessNext", mock.Anything).
			Return(nil, fmt.Errorf("%w: p.md", domain.ErrManualNotFound)).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/remediation/jobs/process-next", nil)
		handler.ProcessNextHandler(c)

		assert.Equal(t, http.StatusFailedDependency, w.Code)
	})
}

func TestRemediationHandler_ProcessJobHandler(t *testing.T) {
	t.Run("Success_NotProcessable", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		jobID := uuid.New()
		mockUseCase.On("ProcessJob", mock.Anything, jobID).Return(nil, nil).Once()

		c, _ := createTestContext(http.MethodPost, "/v1/remediation/jobs/"+jobID.String()+"/process", nil)
		c.Params = gin.Params{{Key: "id", Value: jobID.String()}}
		handler.ProcessJobHandler(c)

		assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	})

	t.Run("Success_Processed", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		jobID := uuid.New()
		mockUseCase.On("ProcessJob", mock.Anything, jobID).
			Return(&domain.RemediationResult{TraceID: "trace-9", AlertID: 9, Steps: []domain.Step{}}, nil).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/remediation/jobs/"+jobID.String()+"/process", nil)
		c.Params = gin.Params{{Key: "id", Value: jobID.String()}}
		handler.ProcessJobHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_Unexpected", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		jobID := uuid.New()
		mockUseCase.On("ProcessJob", mock.Anything, jobID).Return(nil, errors.New("boom")).Once()

		c, w := createTestContext(http.MethodPost, "/v1/remediation/jobs/"+jobID.String()+"/process", nil)
		c.Params = gin.Params{{Key: "id", Value: jobID.String()}}
		handler.ProcessJobHandler(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRemediationHandler_StatusHandler(t *testing.T) {
	handler, mockUseCase := setupTestHandler(t)

	mockUseCase.On("Status", mock.Anything).
		Return(&domain.StatusReport{Pending: 2, DeadLetters: 1, Enqueued: 3}, nil).
		Once()

	c, w := createTestContext(http.MethodGet, "/v1/remediation/status", nil)
	handler.StatusHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"pending":2,"processing":0,"error":0,"completed":0,"dead_letters":1,"enqueued":3,"pruned":0,"dead_letters_evicted":0}`,
		w.Body.String())
}

func TestRemediationHandler_ListDeadLettersHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("ListDeadLetters", mock.Anything, 5, 10).
			Return([]*domain.DeadLetterEntry{{TraceID: "trace-1", ErrorMessage: "boom"}}, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/remediation/dead-letters?offset=5&limit=10", nil)
		handler.ListDeadLettersHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.ListDeadLettersResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Data, 1)
		assert.Equal(t, "boom", response.Data[0].ErrorMessage)
	})

	t.Run("Error_InvalidOffset", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/remediation/dead-letters?offset=-1", nil)
		handler.ListDeadLettersHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
