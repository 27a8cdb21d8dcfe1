package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/allisson/remediation/internal/remediation/domain"
	"github.com/allisson/remediation/internal/remediation/http/dto"
	remediationUseCase "github.com/allisson/remediation/internal/remediation/usecase"
)

// RunRemediate enqueues one payload and processes it synchronously until it completes or
// is dead-lettered. payloadSource is a file path, or "-" to read from io.Reader.
func RunRemediate(
	ctx context.Context,
	useCase remediationUseCase.RemediationUseCase,
	logger *slog.Logger,
	io IOTuple,
	payloadSource string,
	format string,
) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}

	payload, err := readPayload(io.Reader, payloadSource)
	if err != nil {
		return err
	}

	entry, err := useCase.Enqueue(ctx, payload)
	if err != nil {
		return fmt.Errorf("failed to enqueue remediation job: %w", err)
	}
	logger.Info("remediation job enqueued",
		slog.String("job_id", entry.ID.String()),
		slog.String("trace_id", entry.TraceID),
	)

	for {
		result, err := useCase.ProcessNext(ctx)
		if result != nil {
			return outputResult(io.Writer, result, format)
		}

		if err == nil {
			return fmt.Errorf("remediation job %s is no longer processable", entry.TraceID)
		}
		logger.Warn("remediation attempt failed", slog.Any("error", err))

		if _, getErr := useCase.Get(ctx, entry.ID); errors.Is(getErr, domain.ErrJobNotFound) {
			return deadLetterError(ctx, useCase, entry.TraceID, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func readPayload(stdin io.Reader, source string) (domain.Payload, error) {
	var (
		data []byte
		err  error
	)
	if source == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return domain.Payload{}, fmt.Errorf("failed to read payload: %w", err)
	}

	var request dto.EnqueueJobRequest
	if err := json.Unmarshal(data, &request); err != nil {
		return domain.Payload{}, fmt.Errorf("failed to parse payload: %w", err)
	}
	if err := request.Validate(); err != nil {
		return domain.Payload{}, fmt.Errorf("invalid payload: %w", err)
	}

	return request.ToDomain(), nil
}

// deadLetterError reports the recorded failure of a dead-lettered job.
func deadLetterError(
	ctx context.Context,
	useCase remediationUseCase.RemediationUseCase,
	traceID string,
	lastErr error,
) error {
	entries, err := useCase.ListDeadLetters(ctx, 0, 1)
	if err == nil && len(entries) == 1 && entries[0].TraceID == traceID {
		return fmt.Errorf("remediation job %s dead-lettered: %s", traceID, entries[0].ErrorMessage)
	}
	return fmt.Errorf("remediation job %s dead-lettered: %w", traceID, lastErr)
}

func outputResult(w io.Writer, result *domain.RemediationResult, format string) error {
	if format == "json" {
		return writeJSON(w, dto.MapResultToResponse(result))
	}

	_, _ = fmt.Fprintf(w, "Trace ID: %s\n", result.TraceID)
	_, _ = fmt.Fprintf(w, "Alert ID: %d\n", result.AlertID)
	_, _ = fmt.Fprintf(w, "Summary: %s\n", result.Summary)
	if result.Confidence != "" {
		_, _ = fmt.Fprintf(w, "Confidence: %s\n", result.Confidence)
	}
	_, _ = fmt.Fprintln(w, "Steps:")
	for _, step := range result.Steps {
		line := fmt.Sprintf("  %d. %s", step.Order, step.Action)
		if step.Note != "" {
			line += " (" + step.Note + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
