package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/embedded"
	"go.opentelemetry.io/otel/trace/noop"
)

type spanKey struct{}

// namingTracer records span names and marks the context it returns.
type namingTracer struct {
	embedded.Tracer

	mu    sync.Mutex
	names []string
}

func (t *namingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	t.mu.Lock()
	t.names = append(t.names, name)
	t.mu.Unlock()
	ctx, span := noop.NewTracerProvider().Tracer("test").Start(ctx, name, opts...)
	return context.WithValue(ctx, spanKey{}, name), span
}

func TestOpenTelemetryStartsSpan(t *testing.T) {
	tracer := &namingTracer{}
	var extracted int

	r := chi.NewRouter()
	r.Use(OpenTelemetry(
		WithTracer(tracer),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			extracted++
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	))

	var inHandler any
	r.Post("/replay", func(w http.ResponseWriter, r *http.Request) {
		inHandler = r.Context().Value(spanKey{})
		w.WriteHeader(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/replay", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"POST /replay"}, tracer.names)
	assert.Equal(t, "POST /replay", inHandler, "handler sees the span context")
	assert.Equal(t, 1, extracted)
}

func TestOpenTelemetryFilter(t *testing.T) {
	tracer := &namingTracer{}

	r := chi.NewRouter()
	r.Use(OpenTelemetry(
		WithTracer(tracer),
		WithRequestFilter(func(r *http.Request) bool { return r.URL.Path != "/healthz" }),
	))
	r.Get("/healthz", func(http.ResponseWriter, *http.Request) {})
	r.Get("/metrics", func(http.ResponseWriter, *http.Request) {})

	for _, path := range []string{"/healthz", "/metrics", "/healthz"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, []string{"GET /metrics"}, tracer.names)
}

func TestOpenTelemetryDefaultTracer(t *testing.T) {
	h := OpenTelemetry(WithTracerName("dynbind-test"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotNil(t, trace.SpanFromContext(r.Context()))
		http.Error(w, "nope", http.StatusBadGateway)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
