// Package server exposes the generator over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mcncl/jsonmodel/internal/engine"
	"github.com/mcncl/jsonmodel/internal/fetcher"
	"github.com/mcncl/jsonmodel/internal/models"
)

// Options configures a Server.
type Options struct {
	Addr string
	// RootName and Defaults apply to requests that leave them out.
	RootName string
	Defaults models.GenerationOptions
	// Headers and AuthToken are sent with every fetch; request values win.
	Headers   map[string]string
	AuthToken string

	Engine  *engine.Engine
	Fetcher *fetcher.Client
	Logger  zerolog.Logger
}

// Server serves the generation API.
type Server struct {
	httpServer *http.Server
	opts       Options
	log        zerolog.Logger
}

// New creates a Server. A nil Engine or Fetcher is replaced with a default one.
func New(opts Options) *Server {
	if opts.Engine == nil {
		opts.Engine = engine.New(nil)
	}
	if opts.Fetcher == nil {
		opts.Fetcher = fetcher.New(fetcher.Options{Logger: opts.Logger})
	}

	s := &Server{
		opts: opts,
		log:  opts.Logger.With().Str("component", "server").Logger(),
	}
	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           h2c.NewHandler(s.Handler(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed API with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/languages", s.handleLanguages)
	mux.HandleFunc("POST /v1/generate", s.handleGenerate)
	mux.HandleFunc("GET /v1/generate", s.handleGenerateQuery)
	return s.logRequests(mux)
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("starting API server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		event := s.log.Info()
		if rec.status >= http.StatusInternalServerError {
			event = s.log.Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
