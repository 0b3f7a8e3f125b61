// Package observability wires OpenTelemetry tracing and metrics for the
// createsend client.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("createsend"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("createsend"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("createsend"))
//
// The HTTP adapter starts one client span per API request and records each
// request on Metrics when one is configured.
package observability
