// Package http provides the API server, its router and shared middleware.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	alertHTTP "github.com/allisson/remediation/internal/alert/http"
	"github.com/allisson/remediation/internal/metrics"
	remediationHTTP "github.com/allisson/remediation/internal/remediation/http"
)

// readinessTimeout bounds the database ping performed by /ready.
const readinessTimeout = 2 * time.Second

// Server is the API server.
type Server struct {
	db     *sql.DB
	logger *slog.Logger
	router *gin.Engine
	server *http.Server
}

// RouterConfig carries the handlers and middleware settings used by SetupRouter.
type RouterConfig struct {
	RemediationHandler *remediationHTTP.RemediationHandler
	AlertHandler       *alertHTTP.AlertHandler

	// MetricsProvider enables the HTTP metrics middleware when not nil.
	MetricsProvider *metrics.Provider

	CORSEnabled      bool
	CORSAllowOrigins string

	// Ingestion endpoints (job enqueue, event ingest) are rate limited per client IP.
	RateLimitEnabled        bool
	RateLimitRequestsPerSec float64
	RateLimitBurst          int
}

// NewServer creates the API server. db is used by the readiness probe and may be nil.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			// process-next waits for the guidance round trip.
			WriteTimeout: 90 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine with middleware and all routes. ctx bounds the
// lifetime of background middleware state (rate limiter cleanup).
func (s *Server) SetupRouter(ctx context.Context, cfg RouterConfig) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger, "/health", "/ready"))

	if cors := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); cors != nil {
		router.Use(cors)
	}

	if cfg.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MetricsProvider.MeterProvider(), cfg.MetricsProvider.Namespace()))
	}

	router.GET("/health", healthHandler)
	router.GET("/ready", s.readinessHandler)

	ingest := func(c *gin.Context) { c.Next() }
	if cfg.RateLimitEnabled {
		ingest = IngestRateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger)
	}

	v1 := router.Group("/v1")

	if h := cfg.RemediationHandler; h != nil {
		remediation := v1.Group("/remediation")
		remediation.POST("/jobs", ingest, h.EnqueueHandler)
		remediation.POST("/jobs/process-next", h.ProcessNextHandler)
		remediation.GET("/jobs/:id", h.GetHandler)
		remediation.POST("/jobs/:id/process", h.ProcessJobHandler)
		remediation.GET("/status", h.StatusHandler)
		remediation.GET("/dead-letters", h.ListDeadLettersHandler)
	}

	if h := cfg.AlertHandler; h != nil {
		alerts := v1.Group("/alerts")
		alerts.GET("", h.ListHandler)
		alerts.POST("/events", ingest, h.IngestEventHandler)
		alerts.PATCH("/:id/acknowledgement", h.AcknowledgeHandler)
	}

	s.router = router
}

// GetHandler returns the configured router, or nil before SetupRouter.
func (s *Server) GetHandler() http.Handler {
	if s.router == nil {
		return nil
	}
	return s.router
}

// healthHandler answers liveness probes.
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	database := "ok"
	if s.db == nil {
		database = "error"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.Any("error", err))
			database = "error"
		}
	}

	status, code := "ready", http.StatusOK
	if database != "ok" {
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":     status,
		"components": gin.H{"database": database},
	})
}

// Start serves until Shutdown is called. ctx is unused by ListenAndServe; shutdown is
// driven by the caller.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("router not configured: call SetupRouter first")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
