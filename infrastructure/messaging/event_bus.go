// Package messaging delivers domain events to in-process subscribers and
// forwards them to external publishers.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"pipeline-builder/application/ports"
	"pipeline-builder/domain/events"
)

// AllEvents subscribes a handler to every event type
const AllEvents = "*"

// EventBus dispatches events synchronously to local handlers, then hands them
// to the forward publishers. Local handler failures are logged and do not
// stop delivery to the other handlers.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]ports.EventHandler
	forward  []ports.EventPublisher
	logger   *zap.Logger
}

var _ ports.EventBus = (*EventBus)(nil)

// NewEventBus creates an event bus. Every published batch is also sent to
// each forward publisher, in order.
func NewEventBus(logger *zap.Logger, forward ...ports.EventPublisher) *EventBus {
	return &EventBus{
		handlers: make(map[string][]ports.EventHandler),
		forward:  forward,
		logger:   logger,
	}
}

// Subscribe registers a handler for an event type
func (b *EventBus) Subscribe(eventType string, handler ports.EventHandler) error {
	if eventType == "" {
		return errors.New("event type is required")
	}
	if handler == nil {
		return errors.New("handler is required")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// Publish delivers a single event
func (b *EventBus) Publish(ctx context.Context, event events.DomainEvent) error {
	return b.PublishBatch(ctx, []events.DomainEvent{event})
}

// PublishBatch delivers events locally in order, then forwards the batch.
// Only forwarding failures are returned.
func (b *EventBus) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	if len(batch) == 0 {
		return nil
	}

	startTime := time.Now()
	failureCount := 0
	for _, event := range batch {
		for _, h := range b.handlersFor(event.GetEventType()) {
			if err := h.Handle(ctx, event); err != nil {
				failureCount++
				b.logger.Warn("Failed to dispatch event locally",
					zap.String("eventType", event.GetEventType()),
					zap.String("aggregateID", event.GetAggregateID()),
					zap.Error(err),
				)
			}
		}
	}
	b.logger.Debug("Events dispatched locally",
		zap.Int("total", len(batch)),
		zap.Int("failed", failureCount),
		zap.Duration("duration", time.Since(startTime)),
	)

	var errs []error
	for i, p := range b.forward {
		if err := p.PublishBatch(ctx, batch); err != nil {
			errs = append(errs, fmt.Errorf("forward publisher %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (b *EventBus) handlersFor(eventType string) []ports.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]ports.EventHandler, 0, len(b.handlers[eventType])+len(b.handlers[AllEvents]))
	out = append(out, b.handlers[eventType]...)
	return append(out, b.handlers[AllEvents]...)
}
