package pipeline_test

import (
	"context"
	"testing"

	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/logger"
	"github.com/kbukum/conduit/observability"
	"github.com/kbukum/conduit/pipeline"
)

func TestWrappersPassThroughAndUnwrap(t *testing.T) {
	metrics, err := observability.NewPipelineMetrics(observability.Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reg := testRegistry(t)
	p := build(t, reg, []element.Descriptor{{"id": "identity"}},
		pipeline.WithElementWrapper(func(id string, el element.Element) element.Element {
			el = pipeline.WithTracing(id, el)
			el = pipeline.WithMetrics(id, el, metrics)
			return pipeline.WithLogging(id, el, logger.Nop())
		}),
	)

	got, err := p.Collect(context.Background(), []any{1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected records to pass through wrappers, got %v", got)
	}
}

func TestGraphSeesThroughWrappers(t *testing.T) {
	reg := testRegistry(t)
	p := build(t, reg, []element.Descriptor{{"id": "sort"}},
		pipeline.WithElementWrapper(func(id string, el element.Element) element.Element {
			return pipeline.WithLogging(id, el, logger.Nop())
		}),
	)

	g := pipeline.BuildGraph(p)
	if len(g.Nodes) != 1 || g.Nodes[0].ID != "sort" {
		t.Fatalf("expected the structural element, got %v", g.Nodes)
	}
	if _, ok := g.Nodes[0].Element.(pipeline.Unwrapper); ok {
		t.Fatal("expected the decorator unwrapped in the graph")
	}
}
