package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// QueueSnapshot is the point-in-time queue size reported by the gauges.
type QueueSnapshot struct {
	Pending     int
	Processing  int
	Error       int
	Done        int
	DeadLetters int
}

// QueueSnapshotFunc returns the current queue size. It is called on every scrape.
type QueueSnapshotFunc func(ctx context.Context) (QueueSnapshot, error)

// RegisterQueueGauges registers observable gauges for live queue entries by status
// ("<namespace>_queue_entries{status}") and the dead-letter store size
// ("<namespace>_dead_letters").
func RegisterQueueGauges(meterProvider metric.MeterProvider, namespace string, snapshot QueueSnapshotFunc) error {
	meter := meterProvider.Meter(namespace)

	entries, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_queue_entries", namespace),
		metric.WithDescription("Live remediation queue entries by status"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create queue entries gauge: %w", err)
	}

	deadLetters, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_dead_letters", namespace),
		metric.WithDescription("Jobs held in the dead-letter store"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create dead letters gauge: %w", err)
	}

	_, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		s, err := snapshot(ctx)
		if err != nil {
			return err
		}

		for status, count := range map[string]int{
			"pending":    s.Pending,
			"processing": s.Processing,
			"error":      s.Error,
			"done":       s.Done,
		} {
			o.ObserveInt64(entries, int64(count), metric.WithAttributes(attribute.String("status", status)))
		}
		o.ObserveInt64(deadLetters, int64(s.DeadLetters))
		return nil
	}, entries, deadLetters)
	if err != nil {
		return fmt.Errorf("failed to register queue gauge callback: %w", err)
	}

	return nil
}
