// Package server provides the MCP server context, health probes, and the
// dedicated metrics endpoint for the meetfewer application.
//
// # Key Components
//
// ServerContext carries the shared state tool handlers need: the schedule
// snapshot store, the metrics recorder, and the audit logger. It wraps the
// process context so handlers observe shutdown through Context().
//
// HTTPServer serves the MCP endpoint at /mcp over streamable HTTP, with
// per-request metrics and the health probes mounted on the same listener.
//
// HealthChecker serves Kubernetes-style probes:
//   - /healthz: liveness, always ok while the process runs
//   - /readyz: readiness, fails while starting up or shutting down and when
//     the schedule store is unavailable
//   - /healthz/detailed: uptime plus the size of the loaded snapshot
//
// MetricsServer exposes Prometheus metrics on a dedicated port (default
// :9090), isolated from MCP traffic. With the stdio transport it can also
// carry the health endpoints, since no other HTTP surface exists.
package server
