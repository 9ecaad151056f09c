// Package observability provides OpenTelemetry tracing and metrics
// instrumentation for pipeline runs.
//
// Only the OpenTelemetry API is used here: spans and instruments go to
// whatever provider the embedding application installed. Without a
// provider they are no-ops, so instrumented pipelines cost nothing in
// library use.
//
//	ctx, span := observability.StartSpan(ctx, "pipeline.run")
//	defer span.End()
//
//	metrics, err := observability.NewPipelineMetrics(observability.Meter("conduit"))
//	metrics.RecordElement(ctx, "sort", "completed", duration)
package observability
