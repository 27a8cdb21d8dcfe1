package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// fakeServer blocks in Start until Shutdown is called.
type fakeServer struct {
	stopped  chan struct{}
	shutdown atomic.Int32
	startErr error
}

func newFakeServer() *fakeServer {
	return &fakeServer{stopped: make(chan struct{})}
}

func (f *fakeServer) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	<-f.stopped
	return nil
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	if f.shutdown.Add(1) == 1 {
		close(f.stopped)
	}
	return nil
}

// fakeWorker runs until its context is cancelled, like the remediation worker.
type fakeWorker struct{}

func (fakeWorker) Start(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRunAll(t *testing.T) {
	defer goleak.VerifyNone(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("context cancellation stops everything", func(t *testing.T) {
		api, metrics := newFakeServer(), newFakeServer()
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- runAll(ctx, logger, []starter{api, metrics, fakeWorker{}}, []stopper{api, metrics})
		}()

		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("runAll did not return")
		}
		assert.Equal(t, int32(1), api.shutdown.Load())
		assert.Equal(t, int32(1), metrics.shutdown.Load())
	})

	t.Run("runner failure shuts down the rest", func(t *testing.T) {
		api := newFakeServer()
		broken := &fakeServer{startErr: errors.New("address already in use")}

		err := runAll(context.Background(), logger, []starter{api, broken, fakeWorker{}}, []stopper{api})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "address already in use")
		assert.Equal(t, int32(1), api.shutdown.Load())
	})
}
