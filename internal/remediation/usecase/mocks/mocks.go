// Package mocks provides mock implementations of the remediation use case interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/remediation/internal/remediation/domain"
)

// MockRemediationUseCase is a mock implementation of RemediationUseCase for testing.
type MockRemediationUseCase struct {
	mock.Mock
}

// Enqueue mocks the Enqueue method.
func (m *MockRemediationUseCase) Enqueue(ctx context.Context, payload domain.Payload) (*domain.QueueEntry, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QueueEntry), args.Error(1)
}

// Get mocks the Get method.
func (m *MockRemediationUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.QueueEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QueueEntry), args.Error(1)
}

// ProcessNext mocks the ProcessNext method.
func (m *MockRemediationUseCase) ProcessNext(ctx context.Context) (*domain.RemediationResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RemediationResult), args.Error(1)
}

// ProcessJob mocks the ProcessJob method.
func (m *MockRemediationUseCase) ProcessJob(ctx context.Context, id uuid.UUID) (*domain.RemediationResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RemediationResult), args.Error(1)
}

// Status mocks the Status method.
func (m *MockRemediationUseCase) Status(ctx context.Context) (*domain.StatusReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatusReport), args.Error(1)
}

// ListDeadLetters mocks the ListDeadLetters method.
func (m *MockRemediationUseCase) ListDeadLetters(
	ctx context.Context,
	offset, limit int,
) ([]*domain.DeadLetterEntry, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DeadLetterEntry), args.Error(1)
}

// Start mocks the Start method.
func (m *MockRemediationUseCase) Start(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockManualLookup is a mock implementation of ManualLookup for testing.
type MockManualLookup struct {
	mock.Mock
}

// Read mocks the Read method.
func (m *MockManualLookup) Read(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

// MockGuidanceGenerator is a mock implementation of GuidanceGenerator for testing.
type MockGuidanceGenerator struct {
	mock.Mock
}

// Generate mocks the Generate method.
func (m *MockGuidanceGenerator) Generate(
	ctx context.Context,
	payload domain.Payload,
	manualText string,
) (*domain.Guidance, error) {
	args := m.Called(ctx, payload, manualText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Guidance), args.Error(1)
}
