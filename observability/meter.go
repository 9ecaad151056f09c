package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Meter returns a named meter from the installed provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// PipelineMetrics holds the metric instruments for pipeline execution.
type PipelineMetrics struct {
	itemsTotal      metric.Int64Counter
	elementDuration metric.Float64Histogram
	errorTotal      metric.Int64Counter
	runsActive      metric.Int64UpDownCounter
}

// NewPipelineMetrics creates pipeline metric instruments on the given meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	itemsTotal, err := meter.Int64Counter("pipeline.items.total",
		metric.WithDescription("Total records emitted per element"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.items.total counter: %w", err)
	}

	elementDuration, err := meter.Float64Histogram("pipeline.element.duration",
		metric.WithDescription("Duration of element processing in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.element.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("pipeline.errors.total",
		metric.WithDescription("Total errors by element and error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.errors.total counter: %w", err)
	}

	runsActive, err := meter.Int64UpDownCounter("pipeline.runs.active",
		metric.WithDescription("Number of currently draining pipeline runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.runs.active gauge: %w", err)
	}

	return &PipelineMetrics{
		itemsTotal:      itemsTotal,
		elementDuration: elementDuration,
		errorTotal:      errorTotal,
		runsActive:      runsActive,
	}, nil
}

// RecordItems adds to an element's emitted record count.
func (m *PipelineMetrics) RecordItems(ctx context.Context, element string, n int64) {
	m.itemsTotal.Add(ctx, n, metric.WithAttributes(
		attribute.String("element", element),
	))
}

// RecordElement records one finished element pass.
func (m *PipelineMetrics) RecordElement(ctx context.Context, element, status string, duration time.Duration) {
	m.elementDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("element", element),
		attribute.String("status", status),
	))
}

// RecordError counts an error by element and error code.
func (m *PipelineMetrics) RecordError(ctx context.Context, element, code string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("element", element),
		attribute.String("code", code),
	))
}

// RecordRunStart increments the active run count.
func (m *PipelineMetrics) RecordRunStart(ctx context.Context) {
	m.runsActive.Add(ctx, 1)
}

// RecordRunEnd decrements the active run count.
func (m *PipelineMetrics) RecordRunEnd(ctx context.Context) {
	m.runsActive.Add(ctx, -1)
}
