package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pipeline-builder/application/ports"
	"pipeline-builder/domain/core/valueobjects"
	"pipeline-builder/domain/events"
	"pipeline-builder/pkg/observability"
)

type failingPublisher struct {
	calls int
}

func (p *failingPublisher) Publish(ctx context.Context, e events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{e})
}

func (p *failingPublisher) PublishBatch(context.Context, []events.DomainEvent) error {
	p.calls++
	return errors.New("bus unreachable")
}

func dropped(nodeType string, n int) events.NodeDropped {
	id := valueobjects.NewNodeID(nodeType, 1)
	return events.NewNodeDropped("canvas", n, id, nodeType, valueobjects.NewPosition(0, 0), time.Now())
}

func TestEventBusDispatchesByTypeAndWildcard(t *testing.T) {
	bus := NewEventBus(zap.NewNop())

	var typed, all []string
	require.NoError(t, bus.Subscribe(events.TypeNodeDropped, ports.EventHandlerFunc(func(_ context.Context, e events.DomainEvent) error {
		typed = append(typed, e.GetEventType())
		return nil
	})))
	require.NoError(t, bus.Subscribe(AllEvents, ports.EventHandlerFunc(func(_ context.Context, e events.DomainEvent) error {
		all = append(all, e.GetEventType())
		return nil
	})))

	reset := events.NewCanvasReset("canvas", 3, 1, 0, time.Now())
	require.NoError(t, bus.PublishBatch(context.Background(), []events.DomainEvent{dropped("llm", 1), reset}))

	assert.Equal(t, []string{events.TypeNodeDropped}, typed)
	assert.Equal(t, []string{events.TypeNodeDropped, events.TypeCanvasReset}, all)
}

func TestEventBusHandlerFailureDoesNotStopDelivery(t *testing.T) {
	bus := NewEventBus(zap.NewNop())

	delivered := 0
	require.NoError(t, bus.Subscribe(AllEvents, ports.EventHandlerFunc(func(context.Context, events.DomainEvent) error {
		return errors.New("handler broke")
	})))
	require.NoError(t, bus.Subscribe(AllEvents, ports.EventHandlerFunc(func(context.Context, events.DomainEvent) error {
		delivered++
		return nil
	})))

	assert.NoError(t, bus.Publish(context.Background(), dropped("text", 1)))
	assert.Equal(t, 1, delivered)
}

func TestEventBusReturnsForwardFailures(t *testing.T) {
	forward := &failingPublisher{}
	bus := NewEventBus(zap.NewNop(), forward)

	err := bus.Publish(context.Background(), dropped("text", 1))
	assert.ErrorContains(t, err, "bus unreachable")
	assert.Equal(t, 1, forward.calls)

	assert.NoError(t, bus.PublishBatch(context.Background(), nil))
	assert.Equal(t, 1, forward.calls)
}

func TestSubscribeRejectsEmptyArguments(t *testing.T) {
	bus := NewEventBus(zap.NewNop())
	assert.Error(t, bus.Subscribe("", ports.EventHandlerFunc(func(context.Context, events.DomainEvent) error { return nil })))
	assert.Error(t, bus.Subscribe(AllEvents, nil))
}

func TestMetricsProjector(t *testing.T) {
	metrics := observability.NewCollector("test")
	bus := NewEventBus(zap.NewNop())
	require.NoError(t, NewMetricsProjector(metrics).Register(bus))

	ref := events.EdgeRef{
		ID:           "e1",
		Source:       valueobjects.MustNodeID("a-1"),
		SourceHandle: "a-1-out",
		Target:       valueobjects.MustNodeID("b-1"),
		TargetHandle: "b-1-in",
	}
	now := time.Now()
	batch := []events.DomainEvent{
		dropped("llm", 1),
		dropped("llm", 2),
		events.NewEdgeConnected("canvas", 3, ref, now),
		events.NewEdgeDropped("canvas", 4, ref, "b-1-in", now),
		events.NewNodeDeleted("canvas", 5, valueobjects.MustNodeID("b-1"), nil, now),
	}
	require.NoError(t, bus.PublishBatch(context.Background(), batch))

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.NodesDropped.WithLabelValues("llm")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EdgesConnected))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EdgesDangling.WithLabelValues("drop")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.NodesDeleted))
}
