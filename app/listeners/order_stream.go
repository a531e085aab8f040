// Package listeners subscribes in-process consumers to application events.
package listeners

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shashiranjanraj/shirtshop/app/services"
	"github.com/shashiranjanraj/shirtshop/pkg/event"
	"github.com/shashiranjanraj/shirtshop/pkg/logger"
	"github.com/shashiranjanraj/shirtshop/pkg/ws"
)

// RegisterOrderStream pushes every order.placed and order.shipped event to
// the order owner's open streams and to every connected admin.
func RegisterOrderStream(hub *ws.Hub) {
	push := func(ctx context.Context, payload interface{}) {
		ev, ok := payload.(services.OrderEvent)
		if !ok {
			logger.WithCtx(ctx).Warn("listeners: unexpected order event payload", "type", fmt.Sprintf("%T", payload))
			return
		}
		msg, err := json.Marshal(ev)
		if err != nil {
			logger.WithCtx(ctx).Error("listeners: encode order event", "order_id", ev.OrderID, "error", err)
			return
		}
		n := hub.Notify(ev.UserID, msg)
		logger.WithCtx(ctx).Debug("listeners: order event streamed", "event", ev.Event, "order_id", ev.OrderID, "connections", n)
	}
	event.Listen(services.EventOrderPlaced, push)
	event.Listen(services.EventOrderShipped, push)
}
