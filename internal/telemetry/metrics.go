package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instrument names.
const (
	MetricDispatchSent     = "notifyd_dispatch_sent"
	MetricDispatchFailed   = "notifyd_dispatch_failed"
	MetricDispatchDuration = "notifyd_dispatch_duration"
)

// DispatchMetrics records the outcome of every dispatch. A nil
// *DispatchMetrics records nothing.
type DispatchMetrics struct {
	sent     metric.Int64Counter
	failed   metric.Int64Counter
	duration metric.Float64Histogram
}

// NewDispatchMetrics creates the dispatch instruments on meter.
func NewDispatchMetrics(meter metric.Meter) (*DispatchMetrics, error) {
	sent, err := meter.Int64Counter(MetricDispatchSent,
		metric.WithDescription("Notifications accepted by the mail relay"))
	if err != nil {
		return nil, err
	}
	failed, err := meter.Int64Counter(MetricDispatchFailed,
		metric.WithDescription("Notifications that failed validation, rendering or delivery"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(MetricDispatchDuration,
		metric.WithDescription("End-to-end dispatch time"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return &DispatchMetrics{sent: sent, failed: failed, duration: duration}, nil
}

// RecordSent counts a delivered notification.
func (m *DispatchMetrics) RecordSent(ctx context.Context, kind string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("event_kind", kind))
	m.sent.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordFailed counts a failed notification. reason is a short, bounded
// label such as "validation" or "transport".
func (m *DispatchMetrics) RecordFailed(ctx context.Context, kind, reason string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.failed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_kind", kind),
		attribute.String("reason", reason),
	))
	m.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("event_kind", kind)))
}
