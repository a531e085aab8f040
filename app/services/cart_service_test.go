package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shashiranjanraj/shirtshop/app/models"
	"github.com/shashiranjanraj/shirtshop/app/services"
	"github.com/shashiranjanraj/shirtshop/pkg/apperr"
	"github.com/shashiranjanraj/shirtshop/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItem_MergesSameProductAndSize(t *testing.T) {
	f := newFixture(t)
	cart := services.NewCartService(f.repo)
	alice := f.user(t, "alice")
	p1 := f.product(t, "P1", "100", "S", "M", "L")
	ctx := context.Background()

	_, err := cart.AddItem(ctx, alice, p1.ID, "M")
	require.NoError(t, err)
	items, err := cart.AddItem(ctx, alice, p1.ID, "M")
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "P1", items[0].Product.Name)
}

func TestAddItem_ConcurrentBurstKeepsOnePendingOrder(t *testing.T) {
	f := newFixture(t)
	cart := services.NewCartService(f.repo)
	alice := f.user(t, "alice")
	p1 := f.product(t, "P1", "100", "M")

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cart.AddItem(context.Background(), alice, p1.ID, "M")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, int64(1), f.countOrders(t, alice.UserID, models.StatusPending))

	items, err := cart.GetCart(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, n, items[0].Quantity)
}

func TestAddItem_RejectsUnknownHiddenAndBadSize(t *testing.T) {
	f := newFixture(t)
	cart := services.NewCartService(f.repo)
	alice := f.user(t, "alice")
	p1 := f.product(t, "P1", "100", "M")
	hidden := f.product(t, "Hidden", "50", "M")
	require.NoError(t, f.db.Model(&hidden).Update("visible", false).Error)
	ctx := context.Background()

	_, err := cart.AddItem(ctx, alice, 9999, "M")
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	_, err = cart.AddItem(ctx, alice, hidden.ID, "M")
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	_, err = cart.AddItem(ctx, alice, p1.ID, "XXL")
	assert.ErrorIs(t, err, services.ErrInvalidSize)
	assert.True(t, apperr.IsValidation(err))

	// failed adds leave no cart behind
	assert.Equal(t, int64(0), f.countOrders(t, alice.UserID, models.StatusPending))
}

func TestAddItem_SnapshotsServerPrice(t *testing.T) {
	f := newFixture(t)
	cart := services.NewCartService(f.repo)
	alice := f.user(t, "alice")
	p1 := f.product(t, "P1", "100", "M")
	ctx := context.Background()

	_, err := cart.AddItem(ctx, alice, p1.ID, "M")
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&p1).Update("price", dec("150")).Error)

	items, err := cart.AddItem(ctx, alice, p1.ID, "M")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Price.Equal(dec("100")), items[0].Price.String())
}

func TestGetOrCreatePendingOrder_IsStable(t *testing.T) {
	f := newFixture(t)
	cart := services.NewCartService(f.repo)
	alice := f.user(t, "alice")
	ctx := context.Background()

	a, err := cart.GetOrCreatePendingOrder(ctx, alice)
	require.NoError(t, err)
	b, err := cart.GetOrCreatePendingOrder(ctx, alice)
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, models.StatusPending, b.Status)
}

func TestGetCart_EmptyWithoutPendingOrder(t *testing.T) {
	f := newFixture(t)
	cart := services.NewCartService(f.repo)
	alice := f.user(t, "alice")

	items, err := cart.GetCart(context.Background(), alice)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCheckout_ConcurrentDoubleCheckout(t *testing.T) {
	f := newFixture(t)
	cart := services.NewCartService(f.repo)
	alice := f.user(t, "alice")
	p1 := f.product(t, "P1", "100", "M")
	_, err := cart.AddItem(context.Background(), alice, p1.ID, "M")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = cart.Checkout(context.Background(), alice)
		}(i)
	}
	wg.Wait()

	var ok, notFound int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, services.ErrNothingToCheckout):
			notFound++
		default:
			t.Fatalf("unexpected checkout error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, notFound)
	assert.Equal(t, int64(1), f.countOrders(t, alice.UserID, models.StatusWaitingShipment))
	assert.Equal(t, int64(0), f.countOrders(t, alice.UserID, models.StatusPending))
}

func TestCheckout_EmptyCartIsRejectedWithoutChange(t *testing.T) {
	f := newFixture(t)
	cart := services.NewCartService(f.repo)
	alice := f.user(t, "alice")
	ctx := context.Background()

	pending, err := cart.GetOrCreatePendingOrder(ctx, alice)
	require.NoError(t, err)

	_, err = cart.Checkout(ctx, alice)
	assert.ErrorIs(t, err, services.ErrEmptyCart)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	var reloaded models.Order
	require.NoError(t, f.db.First(&reloaded, pending.ID).Error)
	assert.Equal(t, models.StatusPending, reloaded.Status)
}

func TestCheckout_NothingToCheckout(t *testing.T) {
	f := newFixture(t)
	cart := services.NewCartService(f.repo)
	alice := f.user(t, "alice")

	_, err := cart.Checkout(context.Background(), alice)
	assert.ErrorIs(t, err, services.ErrNothingToCheckout)
	assert.True(t, apperr.IsNotFound(err))
}

func TestCheckout_FiresOrderPlaced(t *testing.T) {
	f := newFixture(t)
	cart := services.NewCartService(f.repo)
	alice := f.user(t, "alice")
	p1 := f.product(t, "P1", "100", "M")

	var got []services.OrderEvent
	event.Listen(services.EventOrderPlaced, func(_ context.Context, payload interface{}) {
		got = append(got, payload.(services.OrderEvent))
	})

	_, err := cart.AddItem(context.Background(), alice, p1.ID, "M")
	require.NoError(t, err)
	order, err := cart.Checkout(context.Background(), alice)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, order.ID, got[0].OrderID)
	assert.Equal(t, "100.00", got[0].Total)
	assert.Equal(t, models.StatusWaitingShipment, got[0].Status)
}

func TestRemoveItem_OwnershipIsolation(t *testing.T) {
	f := newFixture(t)
	cart := services.NewCartService(f.repo)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	p1 := f.product(t, "P1", "100", "M")
	ctx := context.Background()

	items, err := cart.AddItem(ctx, alice, p1.ID, "M")
	require.NoError(t, err)
	itemID := items[0].ID

	err = cart.RemoveItem(ctx, bob, itemID)
	assert.ErrorIs(t, err, services.ErrItemNotFound)

	left, err := cart.GetCart(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, left, 1)

	require.NoError(t, cart.RemoveItem(ctx, alice, itemID))
	left, err = cart.GetCart(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestRemoveItem_PlacedOrderLinesAreNotFound(t *testing.T) {
	f := newFixture(t)
	cart := services.NewCartService(f.repo)
	alice := f.user(t, "alice")
	p1 := f.product(t, "P1", "100", "M")
	ctx := context.Background()

	items, err := cart.AddItem(ctx, alice, p1.ID, "M")
	require.NoError(t, err)
	_, err = cart.Checkout(ctx, alice)
	require.NoError(t, err)

	err = cart.RemoveItem(ctx, alice, items[0].ID)
	assert.ErrorIs(t, err, services.ErrItemNotFound)

	var n int64
	require.NoError(t, f.db.Model(&models.OrderItem{}).Where("id = ?", items[0].ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestGetHistory_ExcludesPendingNewestFirst(t *testing.T) {
	f := newFixture(t)
	cart := services.NewCartService(f.repo)
	alice := f.user(t, "alice")
	p1 := f.product(t, "P1", "100", "M")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := cart.AddItem(ctx, alice, p1.ID, "M")
		require.NoError(t, err)
		_, err = cart.Checkout(ctx, alice)
		require.NoError(t, err)
	}
	_, err := cart.AddItem(ctx, alice, p1.ID, "M")
	require.NoError(t, err)

	history, err := cart.GetHistory(ctx, alice)
	require.NoError(t, err)
	require.Len(t, history, 2)
	for _, o := range history {
		assert.NotEqual(t, models.StatusPending, o.Status)
		require.Len(t, o.Items, 1)
		assert.Equal(t, "P1", o.Items[0].Product.Name)
	}
	assert.Greater(t, history[0].ID, history[1].ID)
}

func TestGetHistory_KeepsDeletedProducts(t *testing.T) {
	f := newFixture(t)
	cart := services.NewCartService(f.repo)
	alice := f.user(t, "alice")
	p1 := f.product(t, "Retired Tee", "80", "M")
	ctx := context.Background()

	_, err := cart.AddItem(ctx, alice, p1.ID, "M")
	require.NoError(t, err)
	_, err = cart.Checkout(ctx, alice)
	require.NoError(t, err)

	require.NoError(t, f.db.Delete(&models.Product{}, p1.ID).Error)

	history, err := cart.GetHistory(ctx, alice)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Retired Tee", history[0].Items[0].Product.Name)
}

func TestCartScenario(t *testing.T) {
	f := newFixture(t)
	cart := services.NewCartService(f.repo)
	alice := f.user(t, "alice")
	p1 := f.product(t, "P1", "100", "M", "L")
	ctx := context.Background()

	items, err := cart.AddItem(ctx, alice, p1.ID, "M")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
	assert.True(t, items[0].Subtotal().Equal(dec("100")))

	items, err = cart.AddItem(ctx, alice, p1.ID, "M")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].Subtotal().Equal(dec("200")))

	items, err = cart.AddItem(ctx, alice, p1.ID, "L")
	require.NoError(t, err)
	require.Len(t, items, 2)

	order, err := cart.Checkout(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaitingShipment, order.Status)
	assert.True(t, order.Total().Equal(dec("300")), order.Total().String())

	items, err = cart.GetCart(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, items)

	next, err := cart.GetOrCreatePendingOrder(ctx, alice)
	require.NoError(t, err)
	assert.NotEqual(t, order.ID, next.ID)
}
