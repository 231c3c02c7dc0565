package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"yamusic/internal/core"
	"yamusic/internal/flood"
	"yamusic/pkg/musiclink"
	"yamusic/pkg/text"
)

const shutdownTimeout = 10 * time.Second

// MediaResolver turns a link into host media. musiclink.ManagerAdapter implements it.
type MediaResolver interface {
	CanResolve(rawURL string) bool
	Resolve(ctx context.Context, rawURL string) (*musiclink.Media, error)
}

// Dependencies are the services the HTTP API exposes.
type Dependencies struct {
	Resolver  MediaResolver
	Queue     *core.Queue
	Floodgate *flood.Floodgate
	Metrics   *Metrics
	// Language is used when a request names no supported language.
	Language string
}

type Server struct {
	config  *core.ServerConfig
	logger  *zap.Logger
	server  *http.Server
	deps    Dependencies
	parser  *text.Parser
	ready   atomic.Bool
	handler http.Handler
}

func NewServer(config *core.ServerConfig, deps Dependencies, logger *zap.Logger) *Server {
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics()
	}

	s := &Server{
		config: config,
		logger: logger,
		deps:   deps,
		parser: text.NewParser(),
	}
	s.handler = s.setupRoutes()
	s.server = createHTTPServer(config, s.handler)
	return s
}

func createHTTPServer(config *core.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
}

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.healthzHandler)
	mux.HandleFunc("GET /readyz", s.readyzHandler)
	mux.Handle("GET /metrics", s.deps.Metrics.Handler())
	mux.HandleFunc("GET /resolve", s.resolveHandler)
	mux.HandleFunc("GET /queue", s.queueListHandler)
	mux.HandleFunc("POST /queue", s.queueAddHandler)
	mux.HandleFunc("GET /{$}", homeHandler(s.logger))

	return mux
}

// Handler returns the routed API handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr))

	go func() {
		<-ctx.Done()
		s.ready.Store(false)
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	s.ready.Store(true)
	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// SetReady toggles the /readyz status.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

func (s *Server) GetMetrics() *Metrics {
	return s.deps.Metrics
}
