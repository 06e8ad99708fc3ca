package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestCollectorRecords(t *testing.T) {
	c := NewCollector("test")

	c.RecordHTTP(http.MethodGet, "/", http.StatusOK, 10*time.Millisecond)
	c.RecordNodeDropped("llm")
	c.RecordNodeDropped("llm")
	c.RecordEdgeConnected()
	c.RecordDanglingEdge("drop")
	c.RecordSubmission(OutcomeTransportError, time.Second)
	c.RecordAnalysis(3, true)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.NodesDropped.WithLabelValues("llm")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.EdgesConnected))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.EdgesDangling.WithLabelValues("drop")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Submissions.WithLabelValues(OutcomeTransportError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Analyses.WithLabelValues("true")))
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RecordHTTP(http.MethodGet, "/", http.StatusOK, time.Millisecond)
		c.RecordNodeDropped("text")
		c.RecordNodeDeleted()
		c.RecordSubmission(OutcomeOK, time.Millisecond)
		c.RecordAnalysis(0, true)
	})
}

func TestCollectorHandler(t *testing.T) {
	c := NewCollector("test")
	c.RecordNodeDeleted()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_nodes_deleted_total 1")
}

func TestRecordErrorMarksSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := NewTracerProvider(exporter)
	defer tp.Shutdown(context.Background())

	_, span := tp.Tracer().Start(context.Background(), "op")
	RecordError(span, errors.New("boom"))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "boom", spans[0].Status.Description)
}
