package models

import (
	"fmt"

	"github.com/shashiranjanraj/shirtshop/pkg/apperr"
)

type OrderStatus string

const (
	StatusPending         OrderStatus = "pending"
	StatusWaitingShipment OrderStatus = "waiting_shipment"
	StatusShipped         OrderStatus = "shipped"
	// StatusSuccess is a legacy terminal state. Rows may carry it but no
	// transition produces it.
	StatusSuccess OrderStatus = "success"
)

var (
	ErrUnknownStatus     = apperr.Validation("unknown order status")
	ErrIllegalTransition = apperr.Conflict("invalid status transition")
	ErrTrackingRequired  = apperr.Validation("tracking number is required")
)

// ParseStatus accepts only the four known statuses.
func ParseStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case StatusPending, StatusWaitingShipment, StatusShipped, StatusSuccess:
		return st, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownStatus)
	}
}

// Terminal reports whether no transition leaves s.
func (s OrderStatus) Terminal() bool {
	return s == StatusShipped || s == StatusSuccess
}

// Placed reports whether the order has left the cart stage.
func (s OrderStatus) Placed() bool {
	return s != StatusPending
}

// fulfillmentTransitions is the full set of moves an administrator may make.
// pending → waiting_shipment happens only through checkout.
var fulfillmentTransitions = map[OrderStatus][]OrderStatus{
	StatusWaitingShipment: {StatusShipped},
}

// CanFulfill checks an administrator move from s to next.
func (s OrderStatus) CanFulfill(next OrderStatus) error {
	if s.Terminal() {
		return fmt.Errorf("order is already %s: %w", s, ErrIllegalTransition)
	}
	for _, allowed := range fulfillmentTransitions[s] {
		if allowed == next {
			return nil
		}
	}
	return fmt.Errorf("%s → %s: %w", s, next, ErrIllegalTransition)
}

// Checkout moves a pending cart to waiting_shipment.
func (o *Order) Checkout() error {
	if o.Status != StatusPending {
		return fmt.Errorf("%s → %s: %w", o.Status, StatusWaitingShipment, ErrIllegalTransition)
	}
	o.Status = StatusWaitingShipment
	return nil
}

// Advance applies an administrator transition. Shipping requires a
// non-blank tracking number.
func (o *Order) Advance(next OrderStatus, tracking string) error {
	if err := o.Status.CanFulfill(next); err != nil {
		return err
	}
	if next == StatusShipped {
		if tracking == "" {
			return ErrTrackingRequired
		}
		o.TrackingNumber = &tracking
	}
	o.Status = next
	return nil
}
