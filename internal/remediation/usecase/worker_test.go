package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/allisson/remediation/internal/remediation/domain"
)

func TestJobNotifier(t *testing.T) {
	t.Run("Success_FIFOOrder", func(t *testing.T) {
		n := newJobNotifier()
		first, second := uuid.New(), uuid.New()
		n.Push(first)
		n.Push(second)

		a, err := n.Pop(context.Background())
		require.NoError(t, err)
		b, err := n.Pop(context.Background())
		require.NoError(t, err)

		assert.Equal(t, first, a)
		assert.Equal(t, second, b)
		assert.Equal(t, 0, n.Len())
	})

	t.Run("Success_PopWaitsForPush", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		n := newJobNotifier()
		id := uuid.New()
		got := make(chan uuid.UUID)
		go func() {
			popped, _ := n.Pop(context.Background())
			got <- popped
		}()

		time.Sleep(10 * time.Millisecond)
		n.Push(id)

		select {
		case popped := <-got:
			assert.Equal(t, id, popped)
		case <-time.After(time.Second):
			t.Fatal("pop did not observe push")
		}
	})

	t.Run("Error_ContextCancelled", func(t *testing.T) {
		n := newJobNotifier()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := n.Pop(ctx)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRemediationUseCase_Start(t *testing.T) {
	t.Run("Success_WorkerProcessesEnqueuedJobs", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		env := newTestEnv(t, Config{MaxAttempts: 3}, alertSeven())
		env.manual.On("Read", mock.Anything, mock.Anything).Return("manual", nil)
		env.guidance.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(okGuidance(), nil)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- env.useCase.Start(ctx) }()

		_, err := env.useCase.Enqueue(context.Background(), validPayload("t-1"))
		require.NoError(t, err)
		_, err = env.useCase.Enqueue(context.Background(), validPayload("t-2"))
		require.NoError(t, err)

		assert.Eventually(t, func() bool {
			report, _ := env.useCase.Status(context.Background())
			return report.Completed == 2
		}, 2*time.Second, 10*time.Millisecond)

		cancel()
		assert.True(t, errors.Is(<-errCh, context.Canceled))
	})

	t.Run("Success_EnqueueReturnsPendingWhileWorkerRuns", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		env := newTestEnv(t, Config{MaxAttempts: 1}, alertSeven())

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- env.useCase.Start(ctx) }()

		const jobs = 500
		for i := 0; i < jobs; i++ {
			payload := validPayload(fmt.Sprintf("t-%d", i))
			payload.ManualReference = nil

			entry, err := env.useCase.Enqueue(context.Background(), payload)

			require.NoError(t, err)
			require.NotNil(t, entry)
			assert.Equal(t, domain.StatusPending, entry.Status)
			assert.Equal(t, 0, entry.AttemptCount)
			assert.Empty(t, entry.LastError)
		}

		assert.Eventually(t, func() bool {
			report, _ := env.useCase.Status(context.Background())
			return report.DeadLetters+report.DeadLettersEvicted == jobs
		}, 5*time.Second, 10*time.Millisecond)

		cancel()
		<-errCh
		env.manual.AssertNotCalled(t, "Read", mock.Anything, mock.Anything)
	})

	t.Run("Success_WorkerRetriesUntilDeadLetter", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		env := newTestEnv(t, Config{MaxAttempts: 3, RetryDelay: 5 * time.Millisecond}, alertSeven())
		env.manual.On("Read", mock.Anything, mock.Anything).Return("", domain.ErrManualNotFound)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- env.useCase.Start(ctx) }()

		_, err := env.useCase.Enqueue(context.Background(), validPayload("t-1"))
		require.NoError(t, err)

		assert.Eventually(t, func() bool {
			report, _ := env.useCase.Status(context.Background())
			return report.DeadLetters == 1
		}, 2*time.Second, 10*time.Millisecond)

		cancel()
		<-errCh
		env.manual.AssertNumberOfCalls(t, "Read", 3)
		assert.Equal(t, domain.FailureRecommendation, env.alerts.get(7).Recommendation)
	})

	t.Run("Success_WorkerSkipsJobsAlreadyProcessed", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		env := newTestEnv(t, Config{MaxAttempts: 3}, alertSeven())
		env.manual.On("Read", mock.Anything, mock.Anything).Return("manual", nil)
		env.guidance.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(okGuidance(), nil)

		_, err := env.useCase.Enqueue(context.Background(), validPayload("t-1"))
		require.NoError(t, err)
		_, err = env.useCase.ProcessNext(context.Background())
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- env.useCase.Start(ctx) }()

		assert.Eventually(t, func() bool {
			return env.useCase.notifier.Len() == 0
		}, time.Second, 5*time.Millisecond)

		cancel()
		<-errCh
		env.guidance.AssertNumberOfCalls(t, "Generate", 1)
	})

	t.Run("Success_PrunerRemovesExpiredDoneEntries", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		env := newTestEnv(t, Config{
			MaxAttempts:   3,
			DoneRetention: time.Millisecond,
			PruneInterval: 5 * time.Millisecond,
		}, alertSeven())
		env.manual.On("Read", mock.Anything, mock.Anything).Return("manual", nil)
		env.guidance.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(okGuidance(), nil)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- env.useCase.Start(ctx) }()

		_, err := env.useCase.Enqueue(context.Background(), validPayload("t-1"))
		require.NoError(t, err)

		assert.Eventually(t, func() bool {
			report, _ := env.useCase.Status(context.Background())
			return report.Pruned == 1 && report.Completed == 0
		}, 2*time.Second, 10*time.Millisecond)

		cancel()
		<-errCh
	})
}
