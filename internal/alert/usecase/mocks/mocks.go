// Package mocks provides testify mocks for the alert use case interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	alertDomain "github.com/allisson/remediation/internal/alert/domain"
	remediationDomain "github.com/allisson/remediation/internal/remediation/domain"
)

// MockAlertRepository is a mock implementation of usecase.AlertRepository.
type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) Create(ctx context.Context, alert *alertDomain.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepository) Update(ctx context.Context, alert *alertDomain.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepository) Get(ctx context.Context, id int64) (*alertDomain.Alert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*alertDomain.Alert), args.Error(1)
}

func (m *MockAlertRepository) List(ctx context.Context, offset, limit int) ([]*alertDomain.Alert, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*alertDomain.Alert), args.Error(1)
}

// MockJobEnqueuer is a mock implementation of usecase.JobEnqueuer.
type MockJobEnqueuer struct {
	mock.Mock
}

func (m *MockJobEnqueuer) Enqueue(
	ctx context.Context,
	payload remediationDomain.Payload,
) (*remediationDomain.QueueEntry, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*remediationDomain.QueueEntry), args.Error(1)
}

// MockAlertUseCase is a mock implementation of usecase.AlertUseCase.
type MockAlertUseCase struct {
	mock.Mock
}

func (m *MockAlertUseCase) Ingest(
	ctx context.Context,
	event *alertDomain.AnomalyEvent,
) (*alertDomain.IngestResult, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*alertDomain.IngestResult), args.Error(1)
}

func (m *MockAlertUseCase) List(ctx context.Context, offset, limit int) ([]*alertDomain.Alert, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*alertDomain.Alert), args.Error(1)
}

func (m *MockAlertUseCase) Acknowledge(
	ctx context.Context,
	id int64,
	acknowledged bool,
) (*alertDomain.Alert, error) {
	args := m.Called(ctx, id, acknowledged)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*alertDomain.Alert), args.Error(1)
}
