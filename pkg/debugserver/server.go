package debugserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/dynbind/internal/errors"
	"github.com/vango-dev/dynbind/pkg/binding"
	"github.com/vango-dev/dynbind/pkg/middleware"
	"github.com/vango-dev/dynbind/pkg/scenario"
)

// DefaultMaxScenarioBytes limits request bodies and WebSocket messages.
const DefaultMaxScenarioBytes = 1 << 20

// Config configures a Server.
type Config struct {
	// Address is the listen address used by Run.
	Address string

	// ReadHeaderTimeout bounds request header reads. Default: 5s.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown. Default: 10s.
	ShutdownTimeout time.Duration

	// MaxScenarioBytes limits scenario size. Default: DefaultMaxScenarioBytes.
	MaxScenarioBytes int64

	// Registry receives the binding metrics and backs /metrics. A fresh
	// registry is used when nil.
	Registry *prometheus.Registry

	// MetricsNamespace overrides the binding metrics namespace.
	MetricsNamespace string

	// DisableMetrics turns off the binding metrics and the /metrics route.
	DisableMetrics bool

	// Tracer is passed to every replayed coordinator.
	Tracer trace.Tracer

	// Logger is the server logger. Default: slog.Default().
	Logger *slog.Logger
}

func (c *Config) applyDefaults() {
	if c.ReadHeaderTimeout <= 0 {
		c.ReadHeaderTimeout = 5 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.MaxScenarioBytes <= 0 {
		c.MaxScenarioBytes = DefaultMaxScenarioBytes
	}
	if c.Registry == nil {
		c.Registry = prometheus.NewRegistry()
	}
	if c.Tracer == nil {
		c.Tracer = otel.Tracer("dynbind")
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Server replays scenarios for HTTP and WebSocket clients.
type Server struct {
	config      Config
	router      chi.Router
	metrics     *binding.Metrics
	httpMetrics *middleware.Metrics
	upgrader    websocket.Upgrader
	logger      *slog.Logger
}

// New creates a Server.
func New(config Config) *Server {
	config.applyDefaults()

	s := &Server{
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		logger: config.Logger.With("component", "debugserver"),
	}

	if !config.DisableMetrics {
		metricOpts := []binding.MetricsOption{binding.WithRegistry(config.Registry)}
		if config.MetricsNamespace != "" {
			metricOpts = append(metricOpts, binding.WithNamespace(config.MetricsNamespace))
		}
		s.metrics = binding.NewMetrics(metricOpts...)

		httpOpts := []middleware.MetricsOption{middleware.WithRegistry(config.Registry)}
		if config.MetricsNamespace != "" {
			httpOpts = append(httpOpts, middleware.WithNamespace(config.MetricsNamespace))
		}
		s.httpMetrics = middleware.NewMetrics(httpOpts...)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.logRequests)
	r.Use(middleware.OpenTelemetry(
		middleware.WithTracer(config.Tracer),
		middleware.WithRequestFilter(func(r *http.Request) bool {
			return r.URL.Path != "/healthz" && r.URL.Path != "/metrics"
		}),
	))
	if s.httpMetrics != nil {
		r.Use(s.httpMetrics.Handler)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(config.Registry, promhttp.HandlerOpts{}))
	}
	r.Post("/replay", s.handleReplay)
	r.Get("/ws/replay", s.handleReplayStream)

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("shutdown error", "error", err)
		return err
	}
	s.logger.Info("server shutdown complete")
	return nil
}

func (s *Server) runner(extra ...scenario.Option) *scenario.Runner {
	opts := []scenario.Option{
		scenario.WithLogger(s.logger),
		scenario.WithMetrics(s.metrics),
		scenario.WithTracer(s.config.Tracer),
	}
	return scenario.NewRunner(append(opts, extra...)...)
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxScenarioBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, errors.New("S001").Wrap(err))
		return
	}

	sc, err := scenario.Parse(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.runner().Run(r.Context(), sc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.logger.Info("scenario replayed", "scenario", sc.Name, "pass", res.Pass, "events", len(res.Trace))
	writeJSON(w, http.StatusOK, res)
}

// errorBody is the JSON error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Error   string `json:"error"`
}

func newErrorBody(err error) errorBody {
	e := errors.FromError(err, "S001")
	return errorBody{
		Code:    e.Code,
		Message: e.Message,
		Detail:  e.Detail,
		Error:   err.Error(),
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, newErrorBody(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// logRequests logs each request once it completes.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}
