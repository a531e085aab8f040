// Package jobs holds the background work triggered by order lifecycle
// events.
package jobs

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shashiranjanraj/shirtshop/app/services"
	"github.com/shashiranjanraj/shirtshop/pkg/event"
	"github.com/shashiranjanraj/shirtshop/pkg/logger"
	"github.com/shashiranjanraj/shirtshop/pkg/publisher"
	"github.com/shashiranjanraj/shirtshop/pkg/queue"
)

// PublishOrderEvent forwards an order event to the configured publisher,
// keyed by order id so one order's events stay in sequence.
type PublishOrderEvent struct {
	Event services.OrderEvent `json:"event"`
}

// JobName keeps queued and failed_jobs payloads decodable across renames.
func (j *PublishOrderEvent) JobName() string { return "order.publish_event" }

func (j *PublishOrderEvent) Handle(ctx context.Context) error {
	key := strconv.FormatUint(uint64(j.Event.OrderID), 10)
	return publisher.Default().Publish(ctx, key, j.Event)
}

// Register makes the job known to the queue and subscribes it to the order
// events. Call once at boot.
func Register() {
	queue.Register(queue.NameOf(&PublishOrderEvent{}), func() queue.Job { return &PublishOrderEvent{} })

	event.Listen(services.EventOrderPlaced, enqueue)
	event.Listen(services.EventOrderShipped, enqueue)
}

func enqueue(ctx context.Context, payload interface{}) {
	ev, ok := payload.(services.OrderEvent)
	if !ok {
		logger.WithCtx(ctx).Warn("jobs: unexpected order event payload", "type", fmt.Sprintf("%T", payload))
		return
	}
	if err := queue.Dispatch(&PublishOrderEvent{Event: ev}); err != nil {
		logger.WithCtx(ctx).Error("jobs: dispatch failed", "event", ev.Event, "order_id", ev.OrderID, "error", err)
	}
}
