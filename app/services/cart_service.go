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

// CartService is the cart/order engine. A user's cart is their single
// pending order; checkout turns it into a placed order.
type CartService struct {
	tx txRunner
}

func NewCartService(repo *repositories.Repository) *CartService {
	return &CartService{tx: newTxRunner(repo)}
}

// pendingOrder returns the caller's pending order, creating it when absent.
// A concurrent creator makes Create fail on the pending-order index; the
// runner then repeats the transaction, which finds the winner's row.
func pendingOrder(tx *repositories.Repository, userID uint) (*models.Order, error) {
	o, err := tx.Orders.LockPending(userID)
	if err != nil || o != nil {
		return o, err
	}

	o = &models.Order{UserID: userID, Status: models.StatusPending}
	if err := tx.Orders.Create(o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *CartService) GetOrCreatePendingOrder(ctx context.Context, id auth.Identity) (*models.Order, error) {
	var order *models.Order
	err := s.tx.run(ctx, "get_or_create", func(tx *repositories.Repository) error {
		o, err := pendingOrder(tx, id.UserID)
		order = o
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// AddItem adds one unit of (productID, size) to the caller's cart at the
// product's current price and returns the reloaded cart.
func (s *CartService) AddItem(ctx context.Context, id auth.Identity, productID uint, size string) ([]models.OrderItem, error) {
	size = strings.TrimSpace(size)

	var items []models.OrderItem
	err := s.tx.run(ctx, "add_item", func(tx *repositories.Repository) error {
		p, err := tx.Products.FindByID(productID)
		if err != nil {
			return err
		}
		if p == nil || !p.Visible {
			return ErrProductNotFound
		}
		if !p.HasSize(size) {
			return ErrInvalidSize
		}

		o, err := pendingOrder(tx, id.UserID)
		if err != nil {
			return err
		}

		line := &models.OrderItem{
			OrderID:   o.ID,
			ProductID: p.ID,
			Size:      size,
			Price:     p.Price,
			Quantity:  1,
		}
		if err := tx.Orders.UpsertItem(line); err != nil {
			return err
		}

		items, err = tx.Orders.Items(o.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// RemoveItem deletes a line from the caller's pending order. Lines of other
// users and of placed orders are reported as not found.
func (s *CartService) RemoveItem(ctx context.Context, id auth.Identity, itemID uint) error {
	return s.tx.run(ctx, "remove_item", func(tx *repositories.Repository) error {
		ok, err := tx.Orders.DeletePendingItem(id.UserID, itemID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrItemNotFound
		}
		return nil
	})
}

// GetCart returns the lines of the caller's pending order, or an empty list.
func (s *CartService) GetCart(ctx context.Context, id auth.Identity) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	err := s.tx.read(ctx, "get_cart", func(repo *repositories.Repository) error {
		o, err := repo.Orders.FindPending(id.UserID)
		if err != nil || o == nil {
			return err
		}
		items, err = repo.Orders.Items(o.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Checkout places the caller's pending order.
func (s *CartService) Checkout(ctx context.Context, id auth.Identity) (*models.Order, error) {
	var placed *models.Order
	err := s.tx.run(ctx, "checkout", func(tx *repositories.Repository) error {
		o, err := tx.Orders.LockPending(id.UserID)
		if err != nil {
			return err
		}
		if o == nil {
			return ErrNothingToCheckout
		}

		n, err := tx.Orders.CountItems(o.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrEmptyCart
		}

		if err := o.Checkout(); err != nil {
			return err
		}
		if err := tx.Orders.SaveStatus(o); err != nil {
			return err
		}

		placed, err = tx.Orders.FindWithItems(o.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.OrderTransitions.WithLabelValues(string(models.StatusPending), string(placed.Status)).Inc()
	logger.WithCtx(ctx).Info("order placed", "order_id", placed.ID, "user_id", placed.UserID, "total", placed.Total().StringFixed(2))
	fireOrderEvent(ctx, EventOrderPlaced, placed)

	return placed, nil
}

// GetHistory lists the caller's placed orders, newest first.
func (s *CartService) GetHistory(ctx context.Context, id auth.Identity) ([]models.Order, error) {
	var orders []models.Order
	err := s.tx.read(ctx, "history", func(repo *repositories.Repository) error {
		var err error
		orders, err = repo.Orders.History(id.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}
