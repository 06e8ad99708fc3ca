package messaging

import (
	"context"

	"pipeline-builder/domain/core/aggregates"
	"pipeline-builder/domain/events"
	"pipeline-builder/pkg/observability"
)

// MetricsProjector turns canvas events into Prometheus counters
type MetricsProjector struct {
	metrics *observability.Collector
}

// NewMetricsProjector creates a projector over metrics
func NewMetricsProjector(metrics *observability.Collector) *MetricsProjector {
	return &MetricsProjector{metrics: metrics}
}

// Register subscribes the projector to every event
func (p *MetricsProjector) Register(bus *EventBus) error {
	return bus.Subscribe(AllEvents, p)
}

// Handle implements ports.EventHandler
func (p *MetricsProjector) Handle(_ context.Context, event events.DomainEvent) error {
	switch e := event.(type) {
	case events.NodeDropped:
		p.metrics.RecordNodeDropped(e.NodeType)
	case events.NodeDeleted:
		p.metrics.RecordNodeDeleted()
	case events.EdgeConnected:
		p.metrics.RecordEdgeConnected()
	case events.EdgeDropped:
		p.metrics.RecordDanglingEdge(string(aggregates.DropDangling))
	case events.EdgeFlagged:
		p.metrics.RecordDanglingEdge(string(aggregates.FlagDangling))
	}
	return nil
}
