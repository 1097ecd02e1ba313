// Package middleware provides HTTP middleware for the replay debug server.
//
// This package includes:
//   - OpenTelemetry tracing middleware
//   - Prometheus request metrics middleware
//
// # OpenTelemetry Middleware
//
// OpenTelemetry starts a server span for every request and passes the span
// context down, so replayed coordinators nest their pass spans under the
// request span.
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("dynbind"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// # Prometheus Metrics
//
// Prometheus records, per chi route pattern:
//   - dynbind_http_requests_total: requests by route, method and status class
//   - dynbind_http_request_duration_seconds: request duration histogram
//   - dynbind_http_streams_active: open WebSocket replay streams
//
//	reg := prometheus.NewRegistry()
//	r.Use(middleware.Prometheus(middleware.WithRegistry(reg)))
//	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// Route patterns keep label cardinality bounded; requests that match no
// route are recorded as "unmatched".
package middleware
