// Package server exposes a map session over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"sradmap/internal/logging"
	"sradmap/internal/metrics"
	"sradmap/internal/session"
)

// Config holds the server configuration.
type Config struct {
	Addr    string
	Version string
}

// Server is the sradmap HTTP server.
type Server struct {
	config  Config
	mux     *http.ServeMux
	humaAPI huma.API
	handler *Handler
	log     logging.Logger
}

// New wires the API, served by huma on a plain ServeMux, and /metrics.
func New(cfg Config, sess *session.Session, m *metrics.Metrics, log logging.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	mux := http.NewServeMux()

	humaConfig := huma.DefaultConfig("sradmap API", cfg.Version)
	humaConfig.Info.Description = "Solar radiation hex map: surface raster, pointer interaction and hit testing."
	humaConfig.Servers = []*huma.Server{{URL: "http://" + cfg.Addr, Description: "Local server"}}
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}
	humaAPI := humago.New(mux, humaConfig)

	s := &Server{
		config:  cfg,
		mux:     mux,
		humaAPI: humaAPI,
		handler: NewHandler(sess, cfg.Version, log),
		log:     log.Named("server"),
	}
	s.handler.Register(humaAPI)
	if m != nil {
		mux.Handle("/metrics", m.Handler())
	}
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.mux.ServeHTTP(w, r)
	s.log.Debug("request",
		logging.String("method", r.Method),
		logging.String("path", r.URL.Path),
		logging.Duration("took", time.Since(start)),
	)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", logging.String("addr", s.config.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.log.Info("stopped")
	return nil
}

// OpenAPI is the generated API description.
func (s *Server) OpenAPI() *huma.OpenAPI { return s.humaAPI.OpenAPI() }
