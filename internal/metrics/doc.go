// Package metrics exports crawl and link check counters to Prometheus.
//
// A Recorder implements crawler.Observer and liveness.Observer and keeps its
// collectors in a private registry, so several audits in one process never
// collide with the default registry. A nil *Recorder is valid and records
// nothing, which lets callers wire it unconditionally.
//
// Server exposes the registry on /metrics together with a /healthz probe
// for the lifetime of a run:
//
//	rec := metrics.NewRecorder()
//	srv := metrics.NewServer(":9090", rec, logger)
//	if err := srv.Start(); err != nil { ... }
//	defer srv.Shutdown(context.Background())
package metrics
