package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/professional-hubs/conflicts/internal/auth"
	"github.com/professional-hubs/conflicts/internal/conflicts"
	"github.com/professional-hubs/conflicts/internal/ratelimit"
)

// Server is the conflict check HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	logger     *slog.Logger
}

// Handler returns the root HTTP handler for use in tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ServerConfig holds all dependencies and configuration for creating a Server.
// Optional fields (nil-safe): DB, JWTMgr, Limiter, MCPServer, OpenAPISpec, Middlewares.
type ServerConfig struct {
	// Required dependencies.
	Checker *conflicts.Checker
	Logger  *slog.Logger

	// Optional dependencies (nil = disabled).
	DB        Pinger
	JWTMgr    *auth.JWTManager
	Limiter   ratelimit.Limiter
	MCPServer *mcpserver.MCPServer

	// RequireAuth rejects requests without a firm token. When false, the
	// firm may instead be named with the X-Firm-ID header.
	RequireAuth bool

	// Allowed CORS origins; empty disables CORS headers, "*" allows any.
	CORSAllowedOrigins []string

	// HTTP server settings.
	Port                int
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	SearchTimeout       time.Duration
	Version             string
	MaxRequestBodyBytes int64

	// Embedded OpenAPI YAML.
	OpenAPISpec []byte

	// Middlewares wrap the whole chain, first-registered outermost.
	Middlewares []func(http.Handler) http.Handler
}

// New creates a new HTTP server with all routes configured.
func New(cfg ServerConfig) *Server {
	h := NewHandlers(HandlersDeps{
		Checker:             cfg.Checker,
		DB:                  cfg.DB,
		Logger:              cfg.Logger,
		Version:             cfg.Version,
		SearchTimeout:       cfg.SearchTimeout,
		MaxRequestBodyBytes: cfg.MaxRequestBodyBytes,
		OpenAPISpec:         cfg.OpenAPISpec,
	})

	checkRL := ratelimit.Middleware(cfg.Limiter, ratelimit.FirmKeyFunc, time.Second, cfg.Logger)
	firmScoped := requireFirm(cfg.RequireAuth)

	mux := http.NewServeMux()

	// Conflict checks (firm required, rate limited per firm).
	mux.Handle("POST /v1/conflicts/check", firmScoped(checkRL(http.HandlerFunc(h.HandleCheckConflicts))))

	// Service status (no firm required).
	mux.HandleFunc("GET /v1/conflicts/status", h.HandleStatus)

	// MCP StreamableHTTP transport (firm required).
	if cfg.MCPServer != nil {
		mcpHTTP := mcpserver.NewStreamableHTTPServer(cfg.MCPServer)
		mux.Handle("/mcp", firmScoped(mcpHTTP))
	}

	// OpenAPI spec (no auth, no rate limit).
	mux.HandleFunc("GET /openapi.yaml", h.HandleOpenAPISpec)

	// Health (no auth, no rate limit).
	mux.HandleFunc("GET /health", h.HandleHealth)

	// Middleware chain (outermost executes first):
	// request ID → security headers → CORS → tracing → logging → auth → recovery → handler.
	var handler http.Handler = mux
	handler = recoveryMiddleware(cfg.Logger, handler)
	handler = authMiddleware(cfg.JWTMgr, cfg.RequireAuth, handler)
	handler = loggingMiddleware(cfg.Logger, handler)
	handler = tracingMiddleware(handler)
	handler = corsMiddleware(cfg.CORSAllowedOrigins, handler)
	handler = securityHeadersMiddleware(handler)
	handler = requestIDMiddleware(handler)
	for i := len(cfg.Middlewares) - 1; i >= 0; i-- {
		handler = cfg.Middlewares[i](handler)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		handler: handler,
		logger:  cfg.Logger,
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
