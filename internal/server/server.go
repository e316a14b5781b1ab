package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/goliatone/go-blog/internal/books"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/metrics"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/restaurants"
	"github.com/goliatone/go-blog/internal/search"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ErrInvalidConfig marks a server constructed without its required settings.
var ErrInvalidConfig = errors.New("server: invalid configuration")

// Config captures the HTTP listener behaviour.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// StaticDir serves the generated site when non-empty.
	StaticDir       string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Logger          interfaces.Logger
}

// Dependencies lists the services the API layer fronts. Optional services may
// be nil; their endpoints then degrade instead of failing.
type Dependencies struct {
	Posts       *posts.Service
	Search      *search.Index
	Metrics     *metrics.Service
	Books       *books.Service
	Restaurants *restaurants.Service
}

// Server hosts the JSON API and, optionally, the generated static site.
type Server struct {
	cfg    Config
	deps   Dependencies
	router *mux.Router
	logger interfaces.Logger
}

// New constructs the HTTP server and registers every route.
func New(cfg Config, deps Dependencies) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, fmt.Errorf("%w: listen address required", ErrInvalidConfig)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
	}
	s.router = s.buildRouter()
	return s, nil
}

// Handler returns the fully wired HTTP handler, including middleware.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.router
	handler = handlers.CompressHandler(handler)
	handler = handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(handler)
	handler = s.logRequests(handler)
	return handler
}

// Start runs the listener until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return <-errCh
}

func (s *Server) buildRouter() *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/visitors", s.handleVisitors).Methods(http.MethodGet)
	api.HandleFunc("/books", s.handleBooks).Methods(http.MethodGet)
	api.HandleFunc("/restaurants", s.handleRestaurantList).Methods(http.MethodGet)
	api.HandleFunc("/restaurants/{slug}", s.handleRestaurantGet).Methods(http.MethodGet)
	api.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found"})
	})

	if dir := strings.TrimSpace(s.cfg.StaticDir); dir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(dir)))
	}

	return router
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds())
	})
}
