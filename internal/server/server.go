package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/emiliopalmerini/mreport/internal/ports"
	"github.com/emiliopalmerini/mreport/internal/report"
)

const (
	defaultMaxUploadBytes  = 10 << 20
	defaultHistoryLimit    = 20
	defaultShutdownTimeout = 5 * time.Second
)

// Config holds server-specific configuration.
type Config struct {
	Addr string

	// Report configures the controller built for every intake request.
	Report report.Config

	// Version is written into the footer of every card.
	Version string

	// MaxUploadBytes caps the multipart body. Zero means 10 MiB.
	MaxUploadBytes int64

	// ShutdownTimeout bounds the graceful shutdown. Zero means 5s.
	ShutdownTimeout time.Duration
}

// Deps are the collaborators shared by every request. Repository and
// Metrics are optional.
type Deps struct {
	Client     ports.CardClient
	Repository ports.SubmissionRepository
	Metrics    ports.MetricsExporter
	Logger     *slog.Logger
}

// Server relays reports from other processes through a report controller.
type Server struct {
	cfg    Config
	deps   Deps
	logger *slog.Logger
}

func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Client == nil {
		return nil, errors.New("server: card client is required")
	}
	if _, err := report.New(cfg.Report, deps.Client); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, deps: deps, logger: logger}, nil
}

// Handler returns the intake router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Post("/reports", s.handleCreateReport)
	r.Get("/reports", s.handleListReports)

	return r
}

// NewHTTPServer wraps the intake router in an http.Server listening on cfg.Addr.
func (s *Server) NewHTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.writeTimeout(),
		IdleTimeout:  60 * time.Second,
	}
}

// Start serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := s.NewHTTPServer()

	s.logger.Info("starting report intake", "addr", s.cfg.Addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown error", "error", err)
		}
	}()

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// writeTimeout leaves room for card creation, capture and upload.
func (s *Server) writeTimeout() time.Duration {
	step := s.cfg.Report.RequestTimeout
	if step == 0 {
		step = report.DefaultRequestTimeout
	}
	if step < 0 {
		return 0
	}
	return 3*step + 15*time.Second
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
