package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/difyops/difybridge/dify"
)

// Server re-exposes the Dify management surface as a local REST API.
// It holds a single client, and therefore a single session, matching the
// one-operator deployment model.
type Server struct {
	client     *dify.Client
	logger     zerolog.Logger
	httpServer *http.Server
}

// New creates a new Server listening on addr.
func New(addr string, client *dify.Client, logger zerolog.Logger) *Server {
	s := &Server{
		client: client,
		logger: logger,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// registerRoutes wires all routes through the middleware chain.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	chain := Chain(
		Recovery(s.logger),
		Logging(s.logger),
		Metrics(),
	)

	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, chain(h))
	}

	// Liveness; no session dependency.
	handle("GET /health", s.handleHealth)

	handle("POST /login", s.handleLogin)

	// Apps
	handle("GET /apps", s.handleListApps)
	handle("POST /apps", s.handleCreateApp)
	handle("GET /apps/{id}", s.handleGetApp)
	handle("PUT /apps/{id}", s.handleUpdateApp)
	handle("DELETE /apps/{id}", s.handleDeleteApp)
	handle("PUT /apps/{id}/prompt", s.handleUpdatePrompt)
	handle("PUT /apps/{id}/model", s.handleUpdateModel)
	handle("POST /apps/{id}/variables", s.handleAddVariable)
	handle("PUT /apps/{id}/opening", s.handleUpdateOpening)
	handle("POST /apps/{id}/knowledge", s.handleLinkKnowledge)

	// Datasets
	handle("GET /datasets", s.handleListDatasets)
	handle("POST /datasets", s.handleCreateDataset)

	mux.Handle("GET /metrics", promhttp.Handler())
}

// ListenAndServe starts the server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("Starting HTTP server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the server's root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
