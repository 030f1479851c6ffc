// Package orders keeps checkout results. Orders snapshot the cart items
// and re-derive the same pricing totals the cart engine computes.
package orders

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkravchenko/marketplace/internal/cart"
	"github.com/mkravchenko/marketplace/internal/models"
)

var (
	ErrNotFound  = errors.New("order not found")
	ErrEmptyCart = errors.New("cannot place an order from an empty cart")
)

var statusTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:    {models.OrderConfirmed, models.OrderCancelled},
	models.OrderConfirmed:  {models.OrderProcessing, models.OrderCancelled},
	models.OrderProcessing: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:    {models.OrderDelivered},
	models.OrderDelivered:  {models.OrderReturned},
}

func validTransition(from, to models.OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type CheckoutInput struct {
	Items           []models.CartItem
	ShippingAddress models.ShippingAddress
	BillingAddress  models.ShippingAddress
	PaymentMethod   models.PaymentMethod
}

type Store struct {
	mu     sync.RWMutex
	orders []models.Order

	now func() time.Time
}

func NewStore() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

// Create builds an order from a cart snapshot. No payment is processed;
// payment status starts pending.
func (s *Store) Create(_ context.Context, userID string, in CheckoutInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	for _, ci := range in.Items {
		items = append(items, models.OrderItem{
			ID:              uuid.NewString(),
			ProductID:       ci.ProductID,
			Product:         ci.Product,
			SellerID:        ci.Product.SellerID,
			SellerName:      ci.Product.SellerName,
			Quantity:        ci.Quantity,
			Price:           ci.Product.Price,
			Total:           ci.Product.Price * float64(ci.Quantity),
			SelectedVariant: ci.SelectedVariant,
		})
	}

	subtotal, tax, shipping, total := cart.ComputeTotals(in.Items)
	now := s.now()
	order := models.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           items,
		Status:          models.OrderPending,
		PaymentStatus:   models.PaymentPending,
		ShippingAddress: in.ShippingAddress,
		BillingAddress:  in.BillingAddress,
		Subtotal:        subtotal,
		Tax:             tax,
		Shipping:        shipping,
		Total:           total,
		PaymentMethod:   in.PaymentMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	s.mu.Lock()
	s.orders = append(s.orders, order)
	s.mu.Unlock()

	return &order, nil
}

func (s *Store) ByID(_ context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			o := s.orders[i]
			return &o, nil
		}
	}
	return nil, ErrNotFound
}

// ListByUser returns a user's orders, newest first.
func (s *Store) ListByUser(_ context.Context, userID string) []models.Order {
	return s.list(func(o *models.Order) bool { return o.UserID == userID })
}

// ListBySeller returns orders containing at least one item sold by the
// given seller.
func (s *Store) ListBySeller(_ context.Context, sellerID string) []models.Order {
	return s.list(func(o *models.Order) bool {
		for _, item := range o.Items {
			if item.SellerID == sellerID {
				return true
			}
		}
		return false
	})
}

func (s *Store) list(match func(*models.Order) bool) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Order
	for i := len(s.orders) - 1; i >= 0; i-- {
		if match(&s.orders[i]) {
			out = append(out, s.orders[i])
		}
	}
	return out
}

var ErrBadTransition = errors.New("invalid status transition")

func (s *Store) UpdateStatus(_ context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			if !validTransition(s.orders[i].Status, status) {
				return nil, ErrBadTransition
			}
			s.orders[i].Status = status
			s.orders[i].UpdatedAt = s.now()
			o := s.orders[i]
			return &o, nil
		}
	}
	return nil, ErrNotFound
}
