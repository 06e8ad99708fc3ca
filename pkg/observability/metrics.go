package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes
const (
	OutcomeOK             = "ok"
	OutcomeServiceError   = "service_error"
	OutcomeTransportError = "transport_error"
	OutcomeSnapshotError  = "snapshot_error"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Canvas metrics
	NodesDropped   *prometheus.CounterVec
	NodesDeleted   prometheus.Counter
	EdgesConnected prometheus.Counter
	EdgesDangling  *prometheus.CounterVec

	// Submission metrics
	Submissions        *prometheus.CounterVec
	SubmissionDuration prometheus.Histogram

	// Validation service metrics
	Analyses      *prometheus.CounterVec
	AnalysisNodes prometheus.Histogram
}

// NewCollector creates a collector with its own registry. Every metric is
// prefixed with namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		NodesDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "nodes_dropped_total",
				Help:      "Total number of nodes dropped onto the canvas",
			},
			[]string{"type"},
		),
		NodesDeleted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "nodes_deleted_total",
				Help:      "Total number of nodes deleted",
			},
		),
		EdgesConnected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "edges_connected_total",
				Help:      "Total number of edges connected",
			},
		),
		EdgesDangling: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "edges_dangling_total",
				Help:      "Edges that lost a handle after a port recompute",
			},
			[]string{"policy"},
		),
		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_submissions_total",
				Help:      "Total number of pipeline submissions by outcome",
			},
			[]string{"outcome"},
		),
		SubmissionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pipeline_submission_duration_seconds",
				Help:      "Round trip of a pipeline submission",
				Buckets:   prometheus.DefBuckets,
			},
		),
		Analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_analyses_total",
				Help:      "Total number of analysed pipelines",
			},
			[]string{"is_dag"},
		),
		AnalysisNodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pipeline_analysis_nodes",
				Help:      "Number of nodes per analysed pipeline",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.NodesDropped,
		c.NodesDeleted,
		c.EdgesConnected,
		c.EdgesDangling,
		c.Submissions,
		c.SubmissionDuration,
		c.Analyses,
		c.AnalysisNodes,
	)
	return c
}

// RecordHTTP records one served request. A nil collector records nothing.
func (c *Collector) RecordHTTP(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordNodeDropped counts a node of the given type placed on the canvas
func (c *Collector) RecordNodeDropped(nodeType string) {
	if c == nil {
		return
	}
	c.NodesDropped.WithLabelValues(nodeType).Inc()
}

// RecordNodeDeleted counts a deleted node
func (c *Collector) RecordNodeDeleted() {
	if c == nil {
		return
	}
	c.NodesDeleted.Inc()
}

// RecordEdgeConnected counts a new edge
func (c *Collector) RecordEdgeConnected() {
	if c == nil {
		return
	}
	c.EdgesConnected.Inc()
}

// RecordDanglingEdge counts an edge dropped or flagged under policy
func (c *Collector) RecordDanglingEdge(policy string) {
	if c == nil {
		return
	}
	c.EdgesDangling.WithLabelValues(policy).Inc()
}

// RecordSubmission records a submission outcome and its duration
func (c *Collector) RecordSubmission(outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.Submissions.WithLabelValues(outcome).Inc()
	c.SubmissionDuration.Observe(d.Seconds())
}

// RecordAnalysis records one analysed pipeline
func (c *Collector) RecordAnalysis(numNodes int, isDAG bool) {
	if c == nil {
		return
	}
	c.Analyses.WithLabelValues(strconv.FormatBool(isDAG)).Inc()
	c.AnalysisNodes.Observe(float64(numNodes))
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
