package ports

import (
	"context"

	"pipeline-builder/domain/core/aggregates"
	"pipeline-builder/domain/events"
)

// ParseResult is the validation service's analysis of a submitted pipeline.
// Error is set when the service noticed a problem but still produced counts.
type ParseResult struct {
	NumNodes int    `json:"num_nodes"`
	NumEdges int    `json:"num_edges"`
	IsDAG    bool   `json:"is_dag"`
	Error    string `json:"error,omitempty"`
}

// ValidationService analyses a serialized pipeline.
// This is a port in hexagonal architecture - the editor doesn't know whether
// the service is remote or in-process.
type ValidationService interface {
	// Parse submits the document and returns the service's analysis
	Parse(ctx context.Context, doc aggregates.PipelineDocument) (*ParseResult, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// EventBus defines the interface for publishing and observing domain events
type EventBus interface {
	EventPublisher

	// Subscribe registers a handler for an event type; "*" receives every event
	Subscribe(eventType string, handler EventHandler) error
}

// EventHandler defines the interface for handling domain events
type EventHandler interface {
	Handle(ctx context.Context, event events.DomainEvent) error
}

// EventHandlerFunc adapts a function to EventHandler
type EventHandlerFunc func(ctx context.Context, event events.DomainEvent) error

// Handle implements EventHandler
func (f EventHandlerFunc) Handle(ctx context.Context, event events.DomainEvent) error {
	return f(ctx, event)
}
