package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	// Common attributes (reused across metrics)
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrComponent = "component"
	attrTool      = "tool"
	attrActor     = "actor"
	attrSeverity  = "severity"
	attrKind      = "kind"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram
	activeSessions      metric.Int64UpDownCounter

	// Engine metrics
	engineOperationsTotal   metric.Int64Counter
	engineOperationDuration metric.Float64Histogram

	// Scheduling domain metrics
	slotsEvaluatedTotal  metric.Int64Counter
	conflictsTotal       metric.Int64Counter
	storeOperationsTotal metric.Int64Counter
	recommendationsTotal metric.Int64Counter

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// Configuration
	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	// HTTP Metrics
	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.activeSessions, err = meter.Int64UpDownCounter(
		"active_sessions",
		metric.WithDescription("Number of active user sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active_sessions gauge: %w", err)
	}

	// Engine Metrics
	m.engineOperationsTotal, err = meter.Int64Counter(
		"engine_operations_total",
		metric.WithDescription("Total number of scheduling engine operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine_operations_total counter: %w", err)
	}

	m.engineOperationDuration, err = meter.Float64Histogram(
		"engine_operation_duration_seconds",
		metric.WithDescription("Scheduling engine operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine_operation_duration_seconds histogram: %w", err)
	}

	// Scheduling Domain Metrics
	m.slotsEvaluatedTotal, err = meter.Int64Counter(
		"slots_evaluated_total",
		metric.WithDescription("Total number of candidate slots scored by the slot search"),
		metric.WithUnit("{slot}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create slots_evaluated_total counter: %w", err)
	}

	m.conflictsTotal, err = meter.Int64Counter(
		"conflicts_detected_total",
		metric.WithDescription("Total number of scheduling conflicts detected, by severity"),
		metric.WithUnit("{conflict}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create conflicts_detected_total counter: %w", err)
	}

	m.storeOperationsTotal, err = meter.Int64Counter(
		"store_operations_total",
		metric.WithDescription("Total number of snapshot store operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create store_operations_total counter: %w", err)
	}

	m.recommendationsTotal, err = meter.Int64Counter(
		"optimizer_recommendations_total",
		metric.WithDescription("Total number of optimizer recommendations emitted, by kind"),
		metric.WithUnit("{recommendation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create optimizer_recommendations_total counter: %w", err)
	}

	// MCP Tool Metrics
	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordEngineOperation records a scheduling engine operation with component,
// operation, status, and duration.
//
// Parameters:
//   - component: Engine component name (scheduler, conflicts, workload,
//     effectiveness, optimizer, patterns, store)
//   - operation: Operation type (search, detect, balance, score, optimize, analyze, ...)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation
func (m *Metrics) RecordEngineOperation(ctx context.Context, component, operation, status string, duration time.Duration) {
	if m.engineOperationsTotal == nil || m.engineOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrComponent, component),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.engineOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.engineOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordSlotsEvaluated records how many candidate slots a slot search scored.
func (m *Metrics) RecordSlotsEvaluated(ctx context.Context, count int) {
	if m.slotsEvaluatedTotal == nil || count <= 0 {
		return // Instrumentation not initialized
	}

	m.slotsEvaluatedTotal.Add(ctx, int64(count))
}

// RecordConflictsDetected records detected conflicts for one severity class.
// Severity should be one of: "hard", "soft", "buffer".
func (m *Metrics) RecordConflictsDetected(ctx context.Context, severity string, count int) {
	if m.conflictsTotal == nil || count <= 0 {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrSeverity, severity),
	}

	m.conflictsTotal.Add(ctx, int64(count), metric.WithAttributes(attrs...))
}

// RecordStoreOperation records a snapshot store operation with result.
// Operation should be one of: "load", "create", "update", "append".
func (m *Metrics) RecordStoreOperation(ctx context.Context, operation, status string) {
	if m.storeOperationsTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.storeOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRecommendation records an optimizer recommendation by kind.
// Kind should be one of: "rebalance", "reschedule", "agenda".
func (m *Metrics) RecordRecommendation(ctx context.Context, kind string) {
	if m.recommendationsTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrKind, kind),
	}

	m.recommendationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
//
// Parameters:
//   - toolName: Name of the MCP tool (e.g., "find_optimal_slots", "create_meeting")
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the tool execution
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// IncrementActiveSessions increments the active sessions counter.
func (m *Metrics) IncrementActiveSessions(ctx context.Context) {
	if m.activeSessions == nil {
		return // Instrumentation not initialized
	}

	m.activeSessions.Add(ctx, 1)
}

// DecrementActiveSessions decrements the active sessions counter.
func (m *Metrics) DecrementActiveSessions(ctx context.Context) {
	if m.activeSessions == nil {
		return // Instrumentation not initialized
	}

	m.activeSessions.Add(ctx, -1)
}

// RecordToolInvocationWithActor records an MCP tool invocation with actor info.
// This is the detailed version that includes the acting user identifier when
// detailedLabels is enabled.
//
// Parameters:
//   - toolName: Name of the MCP tool
//   - status: Result status ("success" or "error")
//   - actor: Roster user ID the tool ran on behalf of (only included if detailedLabels is true)
//   - duration: Time taken for the tool execution
func (m *Metrics) RecordToolInvocationWithActor(ctx context.Context, toolName, status, actor string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	// Only add high-cardinality labels if explicitly enabled
	if m.detailedLabels && actor != "" {
		attrs = append(attrs, attribute.String(attrActor, actor))
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
