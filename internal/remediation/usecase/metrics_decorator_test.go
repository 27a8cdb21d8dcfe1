package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/remediation/internal/metrics"
	"github.com/allisson/remediation/internal/remediation/domain"
	"github.com/allisson/remediation/internal/remediation/usecase/mocks"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

func expectRecord(m *mockBusinessMetrics, ctx context.Context, operation, status string) {
	m.On("RecordOperation", ctx, "remediation", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "remediation", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

// TestNewRemediationUseCaseWithMetrics tests the metrics decorator constructor.
func TestNewRemediationUseCaseWithMetrics(t *testing.T) {
	decorator := NewRemediationUseCaseWithMetrics(&mocks.MockRemediationUseCase{}, &mockBusinessMetrics{})

	assert.NotNil(t, decorator)
	assert.Implements(t, (*RemediationUseCase)(nil), decorator)
}

// TestMetricsDecorator_Enqueue tests the Enqueue method with metrics.
func TestMetricsDecorator_Enqueue(t *testing.T) {
	ctx := context.Background()
	payload := validPayload("t-1")

	t.Run("Success_RecordsSuccessMetrics", func(t *testing.T) {
		mockUseCase := &mocks.MockRemediationUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		entry := &domain.QueueEntry{ID: uuid.New(), TraceID: "t-1", Status: domain.StatusPending}
		mockUseCase.On("Enqueue", ctx, payload).Return(entry, nil).Once()
		expectRecord(mockMetrics, ctx, "job_enqueue", "success")

		result, err := NewRemediationUseCaseWithMetrics(mockUseCase, mockMetrics).Enqueue(ctx, payload)

		assert.NoError(t, err)
		assert.Equal(t, entry, result)
		mockUseCase.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Error_RecordsErrorMetrics", func(t *testing.T) {
		mockUseCase := &mocks.MockRemediationUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		mockUseCase.On("Enqueue", ctx, payload).Return(nil, domain.ErrDuplicateTrace).Once()
		expectRecord(mockMetrics, ctx, "job_enqueue", "error")

		result, err := NewRemediationUseCaseWithMetrics(mockUseCase, mockMetrics).Enqueue(ctx, payload)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrDuplicateTrace)
		mockMetrics.AssertExpectations(t)
	})
}

// TestMetricsDecorator_Process tests the processing methods with metrics.
func TestMetricsDecorator_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ProcessNextRecordsSuccess", func(t *testing.T) {
		mockUseCase := &mocks.MockRemediationUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		mockUseCase.On("ProcessNext", ctx).Return(&domain.RemediationResult{TraceID: "t-1"}, nil).Once()
		expectRecord(mockMetrics, ctx, "job_process_next", "success")

		result, err := NewRemediationUseCaseWithMetrics(mockUseCase, mockMetrics).ProcessNext(ctx)

		assert.NoError(t, err)
		assert.Equal(t, "t-1", result.TraceID)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Success_ProcessNextRecordsSkipped", func(t *testing.T) {
		mockUseCase := &mocks.MockRemediationUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		mockUseCase.On("ProcessNext", ctx).Return(nil, nil).Once()
		expectRecord(mockMetrics, ctx, "job_process_next", "skipped")

		result, err := NewRemediationUseCaseWithMetrics(mockUseCase, mockMetrics).ProcessNext(ctx)

		assert.NoError(t, err)
		assert.Nil(t, result)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Error_ProcessJobRecordsError", func(t *testing.T) {
		mockUseCase := &mocks.MockRemediationUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		id := uuid.New()
		mockUseCase.On("ProcessJob", ctx, id).Return(nil, errors.New("boom")).Once()
		expectRecord(mockMetrics, ctx, "job_process", "error")

		_, err := NewRemediationUseCaseWithMetrics(mockUseCase, mockMetrics).ProcessJob(ctx, id)

		assert.EqualError(t, err, "boom")
		mockMetrics.AssertExpectations(t)
	})
}

// TestMetricsDecorator_Reads tests the read-only methods with metrics.
func TestMetricsDecorator_Reads(t *testing.T) {
	ctx := context.Background()
	mockUseCase := &mocks.MockRemediationUseCase{}
	mockMetrics := &mockBusinessMetrics{}
	id := uuid.New()

	mockUseCase.On("Get", ctx, id).Return(nil, domain.ErrJobNotFound).Once()
	mockUseCase.On("Status", ctx).Return(&domain.StatusReport{Pending: 1}, nil).Once()
	mockUseCase.On("ListDeadLetters", ctx, 0, 50).Return([]*domain.DeadLetterEntry{}, nil).Once()
	mockUseCase.On("Start", ctx).Return(context.Canceled).Once()
	expectRecord(mockMetrics, ctx, "job_get", "error")
	expectRecord(mockMetrics, ctx, "queue_status", "success")
	expectRecord(mockMetrics, ctx, "dead_letter_list", "success")

	decorator := NewRemediationUseCaseWithMetrics(mockUseCase, mockMetrics)

	_, err := decorator.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
	report, err := decorator.Status(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, report.Pending)
	entries, err := decorator.ListDeadLetters(ctx, 0, 50)
	assert.NoError(t, err)
	assert.Empty(t, entries)
	assert.ErrorIs(t, decorator.Start(ctx), context.Canceled)

	mockUseCase.AssertExpectations(t)
	mockMetrics.AssertExpectations(t)
}
