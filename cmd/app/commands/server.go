package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/remediation/internal/app"
	"github.com/allisson/remediation/internal/config"
)

// shutdownTimeout bounds graceful shutdown of the HTTP servers.
const shutdownTimeout = 30 * time.Second

// starter is a component that runs until stopped.
type starter interface {
	Start(ctx context.Context) error
}

// stopper is a component stopped by a graceful shutdown call.
type stopper interface {
	Shutdown(ctx context.Context) error
}

// RunServer starts the API server, the metrics server and the remediation worker, and
// blocks until SIGINT/SIGTERM or the first component failure.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	defer closeContainer(container, logger)

	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	worker, err := container.RemediationUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize remediation worker: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	servers := []stopper{server}
	runners := []starter{server, worker}
	if metricsServer != nil {
		servers = append(servers, metricsServer)
		runners = append(runners, metricsServer)
	}

	return runAll(ctx, logger, runners, servers)
}

// runAll starts every runner and waits. When ctx is done or any runner fails, the servers
// are shut down and the remaining runners observe the cancelled group context.
func runAll(ctx context.Context, logger *slog.Logger, runners []starter, servers []stopper) error {
	group, groupCtx := errgroup.WithContext(ctx)

	for _, r := range runners {
		group.Go(func() error {
			if err := r.Start(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var shutdownErrors []error
		for _, s := range servers {
			if err := s.Shutdown(shutdownCtx); err != nil {
				shutdownErrors = append(shutdownErrors, err)
			}
		}
		return errors.Join(shutdownErrors...)
	})

	return group.Wait()
}
