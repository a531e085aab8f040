package services

import (
	"context"
	"time"

	"github.com/shashiranjanraj/shirtshop/app/models"
	"github.com/shashiranjanraj/shirtshop/pkg/event"
)

const (
	EventOrderPlaced  = "order.placed"
	EventOrderShipped = "order.shipped"
)

// OrderEvent is the payload of the order lifecycle events.
type OrderEvent struct {
	Event          string             `json:"event"`
	OrderID        uint               `json:"order_id"`
	UserID         uint               `json:"user_id"`
	Status         models.OrderStatus `json:"status"`
	TrackingNumber string             `json:"tracking_number,omitempty"`
	Total          string             `json:"total"`
	Items          int                `json:"items"`
	At             time.Time          `json:"at"`
}

func fireOrderEvent(ctx context.Context, name string, o *models.Order) {
	ev := OrderEvent{
		Event:   name,
		OrderID: o.ID,
		UserID:  o.UserID,
		Status:  o.Status,
		Total:   o.Total().StringFixed(2),
		Items:   len(o.Items),
		At:      time.Now().UTC(),
	}
	if o.TrackingNumber != nil {
		ev.TrackingNumber = *o.TrackingNumber
	}
	event.Fire(ctx, name, ev)
}
