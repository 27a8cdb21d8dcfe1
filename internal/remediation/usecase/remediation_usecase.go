package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/remediation/internal/errors"
	"github.com/allisson/remediation/internal/remediation/domain"
)

// Config holds remediation queue configuration.
type Config struct {
	// MaxAttempts is the number of failed attempts after which a job is dead-lettered.
	MaxAttempts int
	// RetryDelay delays the worker re-notification after a recoverable failure.
	RetryDelay time.Duration
	// DoneRetention is how long done entries stay in the queue. Zero disables pruning.
	DoneRetention time.Duration
	// PruneInterval is how often the pruner runs.
	PruneInterval time.Duration
}

// remediationUseCase implements the remediation queue service. It owns the Queue
// Store, the Dead-Letter Store and the worker notification FIFO.
type remediationUseCase struct {
	config         Config
	queueRepo      QueueRepository
	deadLetterRepo DeadLetterRepository
	manualLookup   ManualLookup
	guidance       GuidanceGenerator
	resultWriter   ResultWriter
	notifier       *jobNotifier
	logger         *slog.Logger
	now            func() time.Time

	// transferMu makes the queue-to-dead-letter move appear atomic to Status.
	transferMu sync.RWMutex
}

// NewRemediationUseCase creates a new remediation queue service.
func NewRemediationUseCase(
	config Config,
	queueRepo QueueRepository,
	deadLetterRepo DeadLetterRepository,
	manualLookup ManualLookup,
	guidance GuidanceGenerator,
	resultWriter ResultWriter,
	logger *slog.Logger,
) RemediationUseCase {
	return newRemediationUseCase(config, queueRepo, deadLetterRepo, manualLookup, guidance, resultWriter, logger)
}

func newRemediationUseCase(
	config Config,
	queueRepo QueueRepository,
	deadLetterRepo DeadLetterRepository,
	manualLookup ManualLookup,
	guidance GuidanceGenerator,
	resultWriter ResultWriter,
	logger *slog.Logger,
) *remediationUseCase {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &remediationUseCase{
		config:         config,
		queueRepo:      queueRepo,
		deadLetterRepo: deadLetterRepo,
		manualLookup:   manualLookup,
		guidance:       guidance,
		resultWriter:   resultWriter,
		notifier:       newJobNotifier(),
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Enqueue validates and stores a new job, then notifies the worker.
func (r *remediationUseCase) Enqueue(ctx context.Context, payload domain.Payload) (*domain.QueueEntry, error) {
	if payload.IsEmpty() {
		return nil, domain.ErrEmptyPayload
	}

	traceID := strings.TrimSpace(payload.TraceID)
	if traceID == "" {
		traceID = newTraceID()
	}
	payload.TraceID = traceID

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	now := r.now()
	entry := &domain.QueueEntry{
		ID:        id,
		TraceID:   traceID,
		Payload:   payload,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The store keeps its own copy, so entry stays the pending snapshot returned to
	// the caller even if the worker picks the job up right away.
	if err := r.queueRepo.Create(entry); err != nil {
		return nil, err
	}

	r.notifier.Push(entry.ID)

	r.logger.Info("remediation job enqueued",
		slog.String("job_id", entry.ID.String()),
		slog.String("trace_id", traceID),
	)

	return entry, nil
}

// Get returns a snapshot of a live entry.
func (r *remediationUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.QueueEntry, error) {
	return r.queueRepo.Get(id)
}

// ProcessNext claims the oldest processable entry and runs one attempt.
func (r *remediationUseCase) ProcessNext(ctx context.Context) (*domain.RemediationResult, error) {
	entry, err := r.queueRepo.ClaimNext(r.now())
	if err != nil {
		if apperrors.Is(err, domain.ErrJobNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.attempt(ctx, entry)
}

// ProcessJob claims a specific entry and runs one attempt. Absent or non-processable
// entries are a silent no-op.
func (r *remediationUseCase) ProcessJob(ctx context.Context, id uuid.UUID) (*domain.RemediationResult, error) {
	entry, err := r.queueRepo.MarkProcessing(id, r.now())
	if err != nil {
		if apperrors.IsAny(err, domain.ErrJobNotFound, domain.ErrJobNotProcessable) {
			return nil, nil
		}
		return nil, err
	}

	return r.attempt(ctx, entry)
}

// Status returns the queue health snapshot.
func (r *remediationUseCase) Status(ctx context.Context) (*domain.StatusReport, error) {
	r.transferMu.RLock()
	counts := r.queueRepo.Counts()
	deadLetters := r.deadLetterRepo.Count()
	evicted := r.deadLetterRepo.EvictedCount()
	r.transferMu.RUnlock()

	return &domain.StatusReport{
		Pending:            counts.Pending,
		Processing:         counts.Processing,
		Error:              counts.Error,
		Completed:          counts.Done,
		DeadLetters:        deadLetters,
		Enqueued:           counts.Enqueued,
		Pruned:             counts.Pruned,
		DeadLettersEvicted: evicted,
	}, nil
}

// ListDeadLetters returns dead-lettered jobs, newest first.
func (r *remediationUseCase) ListDeadLetters(
	ctx context.Context,
	offset, limit int,
) ([]*domain.DeadLetterEntry, error) {
	return r.deadLetterRepo.List(offset, limit), nil
}

// attempt runs the pipeline for a claimed entry. Any failure, including a panic in a
// collaborator, goes through the failure policy before being returned.
func (r *remediationUseCase) attempt(
	ctx context.Context,
	entry *domain.QueueEntry,
) (result *domain.RemediationResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("panic during remediation: %v", rec)
		}
		if err != nil {
			r.handleFailure(ctx, entry, err)
		}
	}()

	r.logger.Info("processing remediation job",
		slog.String("job_id", entry.ID.String()),
		slog.String("trace_id", entry.TraceID),
		slog.Int("attempt", entry.AttemptCount),
	)

	manualPath, err := entry.Payload.ManualPath()
	if err != nil {
		return nil, err
	}

	manualText, err := r.manualLookup.Read(ctx, manualPath)
	if err != nil {
		return nil, err
	}

	guidance, err := r.guidance.Generate(ctx, entry.Payload, manualText)
	if err != nil {
		return nil, err
	}

	alertID, err := r.resultWriter.Write(ctx, entry.Payload, guidance)
	if err != nil {
		return nil, err
	}

	if err := r.queueRepo.MarkDone(entry.ID, r.now()); err != nil {
		return nil, err
	}

	r.logger.Info("remediation job completed",
		slog.String("job_id", entry.ID.String()),
		slog.String("trace_id", entry.TraceID),
		slog.Int64("alert_id", alertID),
		slog.String("confidence", guidance.Confidence),
	)

	return &domain.RemediationResult{
		TraceID:    entry.TraceID,
		AlertID:    alertID,
		Summary:    guidance.Summary,
		Steps:      guidance.OrderedSteps(),
		Confidence: guidance.Confidence,
	}, nil
}

// handleFailure records the failure and either schedules a retry or dead-letters the job.
func (r *remediationUseCase) handleFailure(ctx context.Context, entry *domain.QueueEntry, cause error) {
	message := failureMessage(cause)

	// The exhausted entry leaves the Queue Store and enters the Dead-Letter Store
	// under transferMu, before any I/O, so it is never claimable in between.
	r.transferMu.Lock()
	failed, exhausted, err := r.queueRepo.MarkError(entry.ID, message, r.now(), r.config.MaxAttempts)
	if err != nil {
		r.transferMu.Unlock()
		r.logger.Error("failed to record remediation failure",
			slog.String("job_id", entry.ID.String()),
			slog.Any("error", err),
		)
		return
	}

	if !exhausted {
		r.transferMu.Unlock()
		r.logger.Warn("remediation attempt failed, will retry",
			slog.String("job_id", failed.ID.String()),
			slog.String("trace_id", failed.TraceID),
			slog.Int("attempt", failed.AttemptCount),
			slog.Int("max_attempts", r.config.MaxAttempts),
			slog.String("error", message),
		)
		r.scheduleRetry(failed.ID)
		return
	}

	evicted := r.deadLetterRepo.Push(&domain.DeadLetterEntry{
		TraceID:      failed.TraceID,
		Payload:      failed.Payload,
		ErrorMessage: message,
		FailedAt:     r.now(),
	})
	r.transferMu.Unlock()

	r.logger.Error("remediation job dead-lettered",
		slog.String("job_id", failed.ID.String()),
		slog.String("trace_id", failed.TraceID),
		slog.Int("attempts", failed.AttemptCount),
		slog.String("error", message),
		slog.Bool("evicted_oldest", evicted),
	)

	r.writeFailureMarker(ctx, failed)
}

// writeFailureMarker stores the failure sentinel on the referenced alert. The job is
// already dead-lettered, so errors are only logged.
func (r *remediationUseCase) writeFailureMarker(ctx context.Context, entry *domain.QueueEntry) {
	if err := r.resultWriter.WriteFailure(ctx, entry.Payload); err != nil {
		r.logger.Warn("failed to write failure marker",
			slog.String("trace_id", entry.TraceID),
			slog.Any("error", err),
		)
	}
}

func (r *remediationUseCase) scheduleRetry(id uuid.UUID) {
	if r.config.RetryDelay <= 0 {
		r.notifier.Push(id)
		return
	}
	time.AfterFunc(r.config.RetryDelay, func() { r.notifier.Push(id) })
}

func isClassified(err error) bool {
	return apperrors.IsAny(err,
		domain.ErrMissingManualReference,
		domain.ErrManualNotFound,
		domain.ErrGuidanceGeneration,
		domain.ErrMissingAlertReference,
		domain.ErrAlertNotFound,
	)
}

// failureMessage renders the last_error text for a failed attempt.
func failureMessage(err error) string {
	if isClassified(err) {
		return err.Error()
	}
	return "unexpected error: " + err.Error()
}

// newTraceID returns "trace-" followed by 32 hex characters.
func newTraceID() string {
	return "trace-" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
