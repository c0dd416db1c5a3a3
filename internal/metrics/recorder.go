package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// namespace prefixes every metric name.
const namespace = "seoaudit"

// Recorder holds the Prometheus collectors of one process.
type Recorder struct {
	registry *prometheus.Registry

	pagesCrawled   prometheus.Counter
	skipped        *prometheus.CounterVec
	requests       *prometheus.CounterVec
	fetchDuration  *prometheus.HistogramVec
	frontierSize   prometheus.Gauge
	livenessChecks *prometheus.CounterVec
	audits         *prometheus.CounterVec
	auditDuration  prometheus.Histogram
	issues         *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		pagesCrawled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_crawled_total",
			Help:      "The total number of HTML pages added to a corpus.",
		}),
		skipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crawl_skipped_total",
			Help:      "URLs dropped during a crawl, by reason.",
		}, []string{"reason"}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Crawler HTTP requests, by method and outcome.",
		}, []string{"method", "outcome"}),
		fetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of crawler HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		frontierSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frontier_size",
			Help:      "Current number of URLs waiting in the crawl frontier.",
		}),
		livenessChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "liveness_checks_total",
			Help:      "Link liveness probes, by link source and result.",
		}, []string{"source", "result"}),
		audits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audits_total",
			Help:      "Completed site audits, by status.",
		}, []string{"status"}),
		auditDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "audit_duration_seconds",
			Help:      "Duration of complete site audits.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		issues: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "issues",
			Help:      "Issues found by the last audit of a site, by severity.",
		}, []string{"site", "severity"}),
	}
}

// Registry returns the registry holding the collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// PageCrawled implements crawler.Observer.
func (r *Recorder) PageCrawled() {
	if r == nil {
		return
	}
	r.pagesCrawled.Inc()
}

// Skipped implements crawler.Observer.
func (r *Recorder) Skipped(reason string) {
	if r == nil {
		return
	}
	r.skipped.WithLabelValues(reason).Inc()
}

// Request implements crawler.Observer.
func (r *Recorder) Request(method, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(method, outcome).Inc()
	r.fetchDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// FrontierSize implements crawler.Observer.
func (r *Recorder) FrontierSize(n int) {
	if r == nil {
		return
	}
	r.frontierSize.Set(float64(n))
}

// LivenessChecked implements liveness.Observer.
func (r *Recorder) LivenessChecked(source, result string) {
	if r == nil {
		return
	}
	r.livenessChecks.WithLabelValues(source, result).Inc()
}

// AuditFinished records one complete audit. status is "success",
// "timeout" or "failed".
func (r *Recorder) AuditFinished(status string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.audits.WithLabelValues(status).Inc()
	r.auditDuration.Observe(elapsed.Seconds())
}

// IssuesFound sets the issue count of site for one severity.
func (r *Recorder) IssuesFound(site, severity string, n int) {
	if r == nil {
		return
	}
	r.issues.WithLabelValues(site, severity).Set(float64(n))
}
