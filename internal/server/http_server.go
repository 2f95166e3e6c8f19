package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meetfewer/internal/instrumentation"
)

// HTTPServer wraps an MCP server behind an HTTP listener. It serves the MCP
// endpoint together with health probes and optional request metrics.
type HTTPServer struct {
	mcpServer        *mcpserver.MCPServer
	httpServer       *http.Server
	serverType       string // "streamable-http"
	disableStreaming bool
	healthChecker    *HealthChecker
	metrics          *instrumentation.Metrics
}

// NewHTTPServer creates a new HTTP server for the given MCP server.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, serverType string, disableStreaming bool) (*HTTPServer, error) {
	if serverType != "streamable-http" {
		return nil, fmt.Errorf("unsupported server type: %s", serverType)
	}
	return &HTTPServer{
		mcpServer:        mcpServer,
		serverType:       serverType,
		disableStreaming: disableStreaming,
	}, nil
}

// SetHealthChecker attaches health check endpoints to the server.
func (s *HTTPServer) SetHealthChecker(h *HealthChecker) {
	s.healthChecker = h
}

// SetMetrics enables HTTP request metrics.
func (s *HTTPServer) SetMetrics(m *instrumentation.Metrics) {
	s.metrics = m
}

// Start starts the HTTP server. It blocks until the listener fails or
// Shutdown is called.
func (s *HTTPServer) Start(addr string) error {
	mux := http.NewServeMux()

	// MCP endpoint
	var mcpHandler http.Handler
	if s.disableStreaming {
		mcpHandler = mcpserver.NewStreamableHTTPServer(s.mcpServer,
			mcpserver.WithEndpointPath("/mcp"),
			mcpserver.WithDisableStreaming(true),
		)
	} else {
		mcpHandler = mcpserver.NewStreamableHTTPServer(s.mcpServer,
			mcpserver.WithEndpointPath("/mcp"),
		)
	}
	mux.Handle("/mcp", s.instrument("/mcp", mcpHandler))

	// Health endpoints for Kubernetes probes
	if s.healthChecker != nil {
		s.healthChecker.RegisterHealthEndpoints(mux)
	}

	// Streaming responses stay open indefinitely, so only bound writes when
	// streaming is off.
	writeTimeout := time.Duration(0)
	if s.disableStreaming {
		writeTimeout = 10 * time.Second
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       120 * time.Second,
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// instrument wraps a handler with request metrics when metrics are enabled.
func (s *HTTPServer) instrument(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.metrics.RecordHTTPRequest(r.Context(), r.Method, path, recorder.status, time.Since(start))
	})
}

// statusRecorder captures the response status while passing flushes through,
// which streaming responses depend on.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
