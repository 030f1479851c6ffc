package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravchenko/marketplace/internal/models"
)

func cartItems(price float64, quantity int) []models.CartItem {
	return []models.CartItem{{
		ID:        "ci-1",
		ProductID: "p1",
		Product: models.ProductSnapshot{
			ID: "p1", Name: "Headphones", Price: price,
			SellerID: "s1", SellerName: "TechStore",
		},
		Quantity: quantity,
	}}
}

func TestCreate_SnapshotsItemsAndTotals(t *testing.T) {
	t.Parallel()

	store := NewStore()
	order, err := store.Create(context.Background(), "u1", CheckoutInput{
		Items: cartItems(30, 1),
	})
	require.NoError(t, err)

	assert.Equal(t, "u1", order.UserID)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)

	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, "p1", item.ProductID)
	assert.Equal(t, "s1", item.SellerID)
	assert.InDelta(t, 30, item.Total, 1e-9)

	// Same pricing rules as the cart.
	assert.InDelta(t, 30, order.Subtotal, 1e-9)
	assert.InDelta(t, 2.4, order.Tax, 1e-9)
	assert.InDelta(t, 5.99, order.Shipping, 1e-9)
	assert.InDelta(t, 38.39, order.Total, 1e-9)
}

func TestCreate_EmptyCart(t *testing.T) {
	t.Parallel()

	store := NewStore()
	order, err := store.Create(context.Background(), "u1", CheckoutInput{})
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, order)
}

func TestByID(t *testing.T) {
	t.Parallel()

	store := NewStore()
	created, err := store.Create(context.Background(), "u1", CheckoutInput{Items: cartItems(10, 1)})
	require.NoError(t, err)

	got, err := store.ByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = store.ByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListByUser_NewestFirst(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()
	first, err := store.Create(ctx, "u1", CheckoutInput{Items: cartItems(10, 1)})
	require.NoError(t, err)
	second, err := store.Create(ctx, "u1", CheckoutInput{Items: cartItems(20, 1)})
	require.NoError(t, err)
	_, err = store.Create(ctx, "u2", CheckoutInput{Items: cartItems(30, 1)})
	require.NoError(t, err)

	list := store.ListByUser(ctx, "u1")
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestListBySeller(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()
	_, err := store.Create(ctx, "u1", CheckoutInput{Items: cartItems(10, 1)})
	require.NoError(t, err)

	assert.Len(t, store.ListBySeller(ctx, "s1"), 1)
	assert.Empty(t, store.ListBySeller(ctx, "other"))
}

func TestUpdateStatus_Transitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path []models.OrderStatus
		ok   bool
	}{
		{name: "full lifecycle", path: []models.OrderStatus{models.OrderConfirmed, models.OrderProcessing, models.OrderShipped, models.OrderDelivered, models.OrderReturned}, ok: true},
		{name: "cancel from pending", path: []models.OrderStatus{models.OrderCancelled}, ok: true},
		{name: "skip ahead", path: []models.OrderStatus{models.OrderShipped}, ok: false},
		{name: "backwards", path: []models.OrderStatus{models.OrderConfirmed, models.OrderPending}, ok: false},
		{name: "cancel after shipped", path: []models.OrderStatus{models.OrderConfirmed, models.OrderProcessing, models.OrderShipped, models.OrderCancelled}, ok: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := NewStore()
			ctx := context.Background()
			order, err := store.Create(ctx, "u1", CheckoutInput{Items: cartItems(10, 1)})
			require.NoError(t, err)

			var lastErr error
			for _, status := range tt.path {
				_, lastErr = store.UpdateStatus(ctx, order.ID, status)
				if lastErr != nil {
					break
				}
			}
			if tt.ok {
				require.NoError(t, lastErr)
			} else {
				require.ErrorIs(t, lastErr, ErrBadTransition)
			}
		})
	}
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	t.Parallel()

	store := NewStore()
	_, err := store.UpdateStatus(context.Background(), "missing", models.OrderConfirmed)
	require.ErrorIs(t, err, ErrNotFound)
}
