// Package instrumentation provides comprehensive OpenTelemetry instrumentation
// for the meetfewer MCP server.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for HTTP requests, scheduling engine operations, and MCP tools
//   - Distributed tracing for request flows and engine evaluations
//   - Prometheus metrics export via /metrics endpoint on dedicated port
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// The package exposes the following metric categories:
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//   - active_sessions: Gauge of active MCP sessions
//
// Engine Metrics:
//   - engine_operations_total: Counter of engine operations by component, operation, status
//   - engine_operation_duration_seconds: Histogram of engine operation durations
//   - slots_evaluated_total: Counter of candidate slots scored by the scheduler
//   - conflicts_detected_total: Counter of detected conflicts by severity
//   - store_operations_total: Counter of snapshot store operations by operation and status
//   - optimizer_recommendations_total: Counter of optimizer recommendations by kind
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Distributed tracing spans are created for:
//   - HTTP request handling
//   - MCP tool invocations (tool.<name>)
//   - Engine evaluations (engine.<component>.<operation>)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - MEETFEWER_INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - MEETFEWER_METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - MEETFEWER_TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: meetfewer)
//
// # Example Usage
//
//	// Initialize instrumentation
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "meetfewer",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	// Get metrics recorder
//	recorder := provider.Metrics()
//
//	// Record an HTTP request
//	recorder.RecordHTTPRequest(ctx, "POST", "/mcp", 200, time.Since(start))
//
//	// Record an engine operation
//	recorder.RecordEngineOperation(ctx, instrumentation.ComponentScheduler, "search", "success", time.Since(start))
//
//	// Record an MCP tool invocation
//	recorder.RecordToolInvocation(ctx, "find_optimal_slots", "success", time.Since(start))
package instrumentation
