// Package validation is the HTTP client of the remote pipeline validation
// service.
package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"pipeline-builder/application/ports"
	"pipeline-builder/domain/core/aggregates"
	pkgerrors "pipeline-builder/pkg/errors"
	"pipeline-builder/pkg/observability"
)

const (
	maxErrorBody = 4 << 10
	serviceName  = "validation"
)

// TransportError is returned when no analysis came back: the request could
// not be sent, the breaker refused it, or the service answered with a non-2xx
// status.
type TransportError struct {
	StatusCode int
	Body       string
	Cause      error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed: %v", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// AppError classifies the failure: a refused call is unavailable, an expired
// deadline is a timeout, a non-2xx answer is an upstream error and anything
// else is a network failure.
func (e *TransportError) AppError() *pkgerrors.AppError {
	var netErr net.Error
	switch {
	case errors.Is(e.Cause, gobreaker.ErrOpenState), errors.Is(e.Cause, gobreaker.ErrTooManyRequests):
		return pkgerrors.NewUnavailableError(serviceName).WithCause(e)
	case errors.Is(e.Cause, context.DeadlineExceeded),
		errors.As(e.Cause, &netErr) && netErr.Timeout():
		return pkgerrors.NewTimeoutError("pipeline validation").WithCause(e)
	case e.StatusCode != 0:
		return pkgerrors.NewExternalError(serviceName, e).
			WithDetails(map[string]interface{}{"status": e.StatusCode})
	default:
		return pkgerrors.NewNetworkError("validation request failed", e)
	}
}

// ClientConfig configures the validation client
type ClientConfig struct {
	Endpoint string
	Timeout  time.Duration

	// Breaker trips once MinRequests calls were made in the current interval
	// and at least FailureRatio of them failed. It stays open for OpenTimeout.
	MinRequests  uint32
	FailureRatio float64
	OpenTimeout  time.Duration
}

// DefaultClientConfig returns the configuration used by the editor by default
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Endpoint:     "http://localhost:8000/pipelines/parse",
		Timeout:      10 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.6,
		OpenTimeout:  30 * time.Second,
	}
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTracer sets the tracer used for request spans
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// Client implements ports.ValidationService over HTTP. It never retries.
type Client struct {
	endpoint string
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker
	tracer   trace.Tracer
	logger   *zap.Logger
}

var _ ports.ValidationService = (*Client)(nil)

// NewClient creates a validation client
func NewClient(cfg ClientConfig, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		endpoint: cfg.Endpoint,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "validation-service",
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: isHealthy,
	})
	for _, opt := range opts {
		opt(c)
	}
	if c.tracer == nil {
		c.tracer = observability.Tracer()
	}
	return c
}

// Parse posts doc to the service and decodes its analysis. Every failure is a
// *TransportError.
func (c *Client) Parse(ctx context.Context, doc aggregates.PipelineDocument) (*ports.ParseResult, error) {
	ctx, span := c.tracer.Start(ctx, "validation.parse",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.url", c.endpoint),
			attribute.Int("pipeline.nodes", doc.NumNodes()),
			attribute.Int("pipeline.edges", doc.NumEdges()),
		),
	)
	defer span.End()

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.post(ctx, doc)
	})
	if err != nil {
		var terr *TransportError
		if !errors.As(err, &terr) {
			terr = &TransportError{Cause: err}
		}
		observability.RecordError(span, terr)
		return nil, terr
	}

	res := out.(*ports.ParseResult)
	span.SetAttributes(attribute.Bool("pipeline.is_dag", res.IsDAG))
	span.SetStatus(codes.Ok, "")
	return res, nil
}

func (c *Client) post(ctx context.Context, doc aggregates.PipelineDocument) (*ports.ParseResult, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, &TransportError{Cause: fmt.Errorf("failed to encode pipeline: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("Validation service returned an error status",
			zap.Int("status", resp.StatusCode),
			zap.String("endpoint", c.endpoint),
		)
		return nil, &TransportError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	var res ports.ParseResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, &TransportError{Cause: fmt.Errorf("invalid response body: %w", err)}
	}
	return &res, nil
}

// isHealthy decides what counts against the breaker. A 4xx answer means the
// service is up and rejected this pipeline.
func isHealthy(err error) bool {
	if err == nil {
		return true
	}
	var terr *TransportError
	if errors.As(err, &terr) {
		return terr.StatusCode >= 400 && terr.StatusCode < 500
	}
	return false
}
