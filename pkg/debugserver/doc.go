// Package debugserver exposes scenario replay over HTTP.
//
// Routes:
//
//	GET  /healthz     liveness probe
//	GET  /metrics     Prometheus metrics for every replayed coordinator
//	POST /replay      run the YAML scenario in the body, respond with the result as JSON
//	GET  /ws/replay   WebSocket; send one YAML scenario, receive each trace
//	                  event as it is recorded, then the result
//
// The server is a development tool. It has no authentication and should
// listen on a loopback address.
package debugserver
