package pipeline_test

import (
	"context"
	"testing"

	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/errors"
	"github.com/kbukum/conduit/logger"
	"github.com/kbukum/conduit/pipeline"
)

func forkDescriptor(paths map[string]any) element.Descriptor {
	return element.Descriptor{"id": "fork", "paths": paths}
}

func TestForkCompositePerItem(t *testing.T) {
	reg := testRegistry(t)
	p := build(t, reg, []element.Descriptor{
		forkDescriptor(map[string]any{
			"a": []element.Descriptor{{"id": "identity"}},
			"b": []element.Descriptor{{"id": "identity"}},
		}),
	})

	got, err := p.Collect(context.Background(), []any{5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one composite per input, got %v", got)
	}
	composite := got[0].(map[string]any)
	if composite["a"] != 5 || composite["b"] != 5 {
		t.Fatalf("unexpected composite: %v", composite)
	}
}

func TestForkEmptyBranchYieldsNil(t *testing.T) {
	reg := testRegistry(t)
	p := build(t, reg, []element.Descriptor{
		forkDescriptor(map[string]any{
			"kept":    []element.Descriptor{{"id": "identity"}},
			"dropped": []element.Descriptor{{"id": "iterate", "count": 0}},
		}),
	})

	got, err := p.Collect(context.Background(), []any{"x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	composite := got[0].(map[string]any)
	if composite["kept"] != "x" {
		t.Fatalf("unexpected composite: %v", composite)
	}
	if v, present := composite["dropped"]; !present || v != nil {
		t.Fatalf("expected nil entry for empty branch, got %v", composite)
	}
}

func TestForkBarrierPerItem(t *testing.T) {
	reg := testRegistry(t)
	p := build(t, reg, []element.Descriptor{
		forkDescriptor(map[string]any{
			"a": []element.Descriptor{{"id": "identity"}},
			"b": []element.Descriptor{{"id": "identity"}},
		}),
	})

	got, err := p.Collect(context.Background(), []any{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected one composite per input, got %d", len(got))
	}
	for i, raw := range got {
		composite := raw.(map[string]any)
		if composite["a"] != i+1 || composite["b"] != i+1 {
			t.Fatalf("composite %d out of sync: %v", i, composite)
		}
	}
}

func TestForkRequiresPaths(t *testing.T) {
	reg := testRegistry(t)
	_, err := pipeline.New([]element.Descriptor{{"id": "fork"}}, reg, logger.Nop())
	if !errors.Is(err, errors.ErrCodeMissingArgument) {
		t.Fatalf("expected missing-argument for paths, got %v", err)
	}
}

func TestForkBadBranchFailsBuild(t *testing.T) {
	reg := testRegistry(t)
	_, err := pipeline.New([]element.Descriptor{
		forkDescriptor(map[string]any{
			"bad": []element.Descriptor{{"id": "bogus"}},
		}),
	}, reg, logger.Nop())
	if err == nil {
		t.Fatal("expected build error for unknown branch element")
	}
}

func TestForkSetBranchesAtomic(t *testing.T) {
	reg := testRegistry(t)
	p := build(t, reg, []element.Descriptor{
		forkDescriptor(map[string]any{
			"a": []element.Descriptor{{"id": "identity"}},
		}),
	})

	fork := p.At(0).(*pipeline.Fork)
	err := fork.SetBranches(map[string][]element.Descriptor{
		"broken": {{"id": "bogus"}},
	})
	if err == nil {
		t.Fatal("expected error for broken replacement table")
	}
	// The previous table must survive a failed swap.
	if paths := fork.Paths(); len(paths) != 1 || paths[0] != "a" {
		t.Fatalf("expected original branches intact, got %v", paths)
	}
}

func TestForkBranchOrderSorted(t *testing.T) {
	reg := testRegistry(t)
	p := build(t, reg, []element.Descriptor{
		forkDescriptor(map[string]any{
			"zeta":  []element.Descriptor{{"id": "identity"}},
			"alpha": []element.Descriptor{{"id": "identity"}},
		}),
	})

	fork := p.At(0).(*pipeline.Fork)
	paths := fork.Paths()
	if len(paths) != 2 || paths[0] != "alpha" || paths[1] != "zeta" {
		t.Fatalf("expected sorted branch order, got %v", paths)
	}
}

func TestForkBranchFailurePropagates(t *testing.T) {
	reg := testRegistry(t)
	p := build(t, reg, []element.Descriptor{
		forkDescriptor(map[string]any{
			"bad": []element.Descriptor{{"id": "text_len"}},
		}),
	})

	// Branches halt on the first failure regardless of the outer policy;
	// a record the branch cannot coerce fails the whole item.
	_, err := p.Collect(context.Background(), []any{map[string]any{"other": 1}})
	if err == nil {
		t.Fatal("expected branch failure to propagate")
	}
}

func TestForkBranchFailureRecoveredByOuterPolicy(t *testing.T) {
	reg := testRegistry(t)
	p := build(t, reg, []element.Descriptor{
		forkDescriptor(map[string]any{
			"bad": []element.Descriptor{{"id": "text_len"}},
		}),
	}, pipeline.WithStopOnError(false))

	// The branch still halts on its own coercion failure, but the outer
	// pipeline treats the fork's remaining output as empty and carries on.
	got, err := p.Collect(context.Background(), []any{map[string]any{"other": 1}})
	if err != nil {
		t.Fatalf("expected outer policy to recover, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no records from the failed element, got %v", got)
	}
}
