package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/shirtshop/app/models"
	"github.com/shashiranjanraj/shirtshop/app/repositories"
	"github.com/shashiranjanraj/shirtshop/pkg/auth"
	"github.com/shashiranjanraj/shirtshop/pkg/logger"
	"github.com/shashiranjanraj/shirtshop/pkg/metrics"
)

// FulfillmentService is the administrator's view of placed orders. Every
// method rejects non-admin callers before touching storage.
type FulfillmentService struct {
	tx txRunner
}

func NewFulfillmentService(repo *repositories.Repository) *FulfillmentService {
	return &FulfillmentService{tx: newTxRunner(repo)}
}

func (s *FulfillmentService) ListOrders(ctx context.Context, id auth.Identity) ([]models.Order, error) {
	if !id.IsAdmin() {
		return nil, ErrAdminOnly
	}

	var orders []models.Order
	err := s.tx.read(ctx, "admin_list", func(repo *repositories.Repository) error {
		var err error
		orders, err = repo.Orders.Placed()
		return err
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// AdvanceStatus moves an order along the fulfillment table. The row stays
// locked from read to write so concurrent admins cannot both ship it.
func (s *FulfillmentService) AdvanceStatus(ctx context.Context, id auth.Identity, orderID uint, status, tracking string) (*models.Order, error) {
	if !id.IsAdmin() {
		return nil, ErrAdminOnly
	}

	next, err := models.ParseStatus(strings.TrimSpace(status))
	if err != nil {
		return nil, err
	}
	tracking = strings.TrimSpace(tracking)

	var (
		from    models.OrderStatus
		updated *models.Order
	)
	err = s.tx.run(ctx, "advance_status", func(tx *repositories.Repository) error {
		o, err := tx.Orders.LockByID(orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return ErrOrderNotFound
		}

		from = o.Status
		if err := o.Advance(next, tracking); err != nil {
			return err
		}
		if err := tx.Orders.SaveStatus(o); err != nil {
			return err
		}

		updated, err = tx.Orders.FindWithItems(o.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.OrderTransitions.WithLabelValues(string(from), string(updated.Status)).Inc()
	logger.WithCtx(ctx).Info("order status changed",
		"order_id", updated.ID, "from", from, "to", updated.Status, "admin_id", id.UserID)
	if updated.Status == models.StatusShipped {
		fireOrderEvent(ctx, EventOrderShipped, updated)
	}

	return updated, nil
}

func (s *FulfillmentService) GetAddressForUser(ctx context.Context, id auth.Identity, userID uint) (*models.Address, error) {
	if !id.IsAdmin() {
		return nil, ErrAdminOnly
	}

	var addr *models.Address
	err := s.tx.read(ctx, "admin_address", func(repo *repositories.Repository) error {
		var err error
		addr, err = repo.Addresses.FindByUser(userID)
		if err == nil && addr == nil {
			return ErrAddressNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return addr, nil
}
