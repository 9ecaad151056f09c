package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/errors"
	"github.com/kbukum/conduit/logger"
	"github.com/kbukum/conduit/observability"
	"github.com/kbukum/conduit/stream"
)

// WithTracing decorates an element so each Process pass runs under a span.
// The span stays open while the output sequence is pulled and closes when
// the sequence is exhausted, fails, or is closed.
func WithTracing(id string, el element.Element) element.Element {
	return &tracedElement{el: el, id: id}
}

type tracedElement struct {
	el element.Element
	id string
}

func (t *tracedElement) Unwrap() element.Element { return t.el }
func (t *tracedElement) Input() element.Shape    { return t.el.Input() }

func (t *tracedElement) Process(ctx context.Context, in stream.Iterator) stream.Iterator {
	ctx, span := observability.StartSpan(ctx, observability.SpanElementProcess,
		trace.WithAttributes(attribute.String(observability.AttrElementID, t.id)))
	out := t.el.Process(ctx, in)

	var items int64
	ended := false
	end := func(err error) {
		if ended {
			return
		}
		ended = true
		span.SetAttributes(attribute.Int64(observability.AttrItems, items))
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String(observability.AttrStatus, StatusFailed))
		} else {
			span.SetAttributes(attribute.String(observability.AttrStatus, StatusCompleted))
		}
		span.End()
	}

	return stream.Func(func(ctx context.Context) (any, bool, error) {
		val, ok, err := out.Next(ctx)
		if err != nil || !ok {
			end(err)
			return nil, false, err
		}
		items++
		return val, true, nil
	}, func() error {
		end(nil)
		return out.Close()
	})
}

// WithMetrics decorates an element so each Process pass reports item counts,
// duration, and errors to the given instruments.
func WithMetrics(id string, el element.Element, m *observability.PipelineMetrics) element.Element {
	return &meteredElement{el: el, id: id, metrics: m}
}

type meteredElement struct {
	el      element.Element
	id      string
	metrics *observability.PipelineMetrics
}

func (t *meteredElement) Unwrap() element.Element { return t.el }
func (t *meteredElement) Input() element.Shape    { return t.el.Input() }

func (t *meteredElement) Process(ctx context.Context, in stream.Iterator) stream.Iterator {
	out := t.el.Process(ctx, in)
	start := time.Now()

	var items int64
	ended := false
	end := func(err error) {
		if ended {
			return
		}
		ended = true
		t.metrics.RecordItems(ctx, t.id, items)
		status := StatusCompleted
		if err != nil {
			status = StatusFailed
			code := string(errors.ErrCodeInternal)
			if e, ok := errors.As(err); ok {
				code = string(e.Code)
			}
			t.metrics.RecordError(ctx, t.id, code)
		}
		t.metrics.RecordElement(ctx, t.id, status, time.Since(start))
	}

	return stream.Func(func(ctx context.Context) (any, bool, error) {
		val, ok, err := out.Next(ctx)
		if err != nil || !ok {
			end(err)
			return nil, false, err
		}
		items++
		return val, true, nil
	}, func() error {
		end(nil)
		return out.Close()
	})
}

// WithLogging decorates an element so each Process pass logs its start and
// completion with the item count.
func WithLogging(id string, el element.Element, log *logger.Logger) element.Element {
	return &loggedElement{el: el, id: id, log: log}
}

type loggedElement struct {
	el  element.Element
	id  string
	log *logger.Logger
}

func (t *loggedElement) Unwrap() element.Element { return t.el }
func (t *loggedElement) Input() element.Shape    { return t.el.Input() }

func (t *loggedElement) Process(ctx context.Context, in stream.Iterator) stream.Iterator {
	t.log.Debug("element started", logger.Fields(logger.FieldElement, t.id))
	out := t.el.Process(ctx, in)
	start := time.Now()

	var items int64
	ended := false
	end := func(err error) {
		if ended {
			return
		}
		ended = true
		if err != nil {
			t.log.Error("element failed", logger.Fields(
				logger.FieldElement, t.id,
				logger.FieldItems, items,
				logger.FieldDuration, time.Since(start).Milliseconds(),
				logger.FieldError, err.Error(),
			))
			return
		}
		t.log.Debug("element finished", logger.Fields(
			logger.FieldElement, t.id,
			logger.FieldItems, items,
			logger.FieldDuration, time.Since(start).Milliseconds(),
		))
	}

	return stream.Func(func(ctx context.Context) (any, bool, error) {
		val, ok, err := out.Next(ctx)
		if err != nil || !ok {
			end(err)
			return nil, false, err
		}
		items++
		return val, true, nil
	}, func() error {
		end(nil)
		return out.Close()
	})
}
