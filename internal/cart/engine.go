// Package cart owns the shopping cart aggregate. The four derived totals
// are recomputed together after every item mutation and the whole snapshot
// is re-persisted; callers never set them directly.
package cart

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkravchenko/marketplace/internal/catalog"
	"github.com/mkravchenko/marketplace/internal/constants"
	"github.com/mkravchenko/marketplace/internal/events"
	"github.com/mkravchenko/marketplace/internal/models"
	"github.com/mkravchenko/marketplace/internal/storage"
	"github.com/mkravchenko/marketplace/pkg/logging"
)

type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

const guestCartID = "guest-cart"

// Engine serializes all mutations behind one mutex: each operation runs to
// completion against the last committed snapshot before the next begins, so
// back-to-back calls apply in lock-acquisition order.
type Engine struct {
	mu       sync.Mutex
	state    State
	cart     *models.Cart
	store    storage.Store
	products catalog.ProductStore
	producer *events.Producer

	now func() time.Time
}

func NewEngine(store storage.Store, products catalog.ProductStore, producer *events.Producer) *Engine {
	return &Engine{
		state:    StateUninitialized,
		store:    store,
		products: products,
		producer: producer,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func emptyCart(now time.Time) *models.Cart {
	return &models.Cart{
		ID:        guestCartID,
		Items:     []models.CartItem{},
		UpdatedAt: now,
	}
}

// Load reads the persisted cart once. A missing or corrupted entry falls
// back to the canonical empty cart; Load never fails.
func (e *Engine) Load(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateReady {
		return
	}
	e.state = StateLoading

	l := logging.FromContext(ctx).With("svc", "cart.load")

	raw, ok, err := e.store.Get(ctx, constants.StorageKeyCart)
	if err != nil {
		l.Error("cart_load_error", "error", err)
	}

	if ok && err == nil {
		var loaded models.Cart
		if uerr := json.Unmarshal(raw, &loaded); uerr == nil {
			if loaded.Items == nil {
				loaded.Items = []models.CartItem{}
			}
			e.cart = &loaded
			e.state = StateReady
			return
		} else {
			l.Warn("cart_parse_error", "error", uerr)
		}
	}

	e.cart = emptyCart(e.now())
	e.state = StateReady
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Cart returns a snapshot of the current aggregate, or nil before Load.
func (e *Engine) Cart() *models.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cart == nil {
		return nil
	}
	snap := *e.cart
	snap.Items = append([]models.CartItem(nil), e.cart.Items...)
	return &snap
}

func (e *Engine) GetCartTotal() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cart == nil {
		return 0
	}
	return e.cart.Total
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeTotals derives the four pricing fields from an item list, rounded
// to cents. Idempotent: recomputing over the same items yields the same
// values. An empty list prices to all zeros, shipping included.
func ComputeTotals(items []models.CartItem) (subtotal, tax, shipping, total float64) {
	for _, item := range items {
		subtotal += item.Product.Price * float64(item.Quantity)
	}
	subtotal = round2(subtotal)

	tax = round2(subtotal * constants.TaxRate)
	if subtotal > 0 && subtotal <= constants.FreeShippingThreshold {
		shipping = constants.ShippingFee
	}
	total = round2(subtotal + tax + shipping)
	return subtotal, tax, shipping, total
}

// recalculate applies ComputeTotals to the aggregate; the four fields are
// always written together.
func recalculate(c *models.Cart) {
	c.Subtotal, c.Tax, c.Shipping, c.Total = ComputeTotals(c.Items)
}

// commit recomputes totals, stamps the cart and persists it. A failed write
// is logged and the in-memory state kept; the next mutation retries.
func (e *Engine) commit(ctx context.Context) {
	recalculate(e.cart)
	e.cart.UpdatedAt = e.now()

	raw, err := json.Marshal(e.cart)
	if err != nil {
		logging.FromContext(ctx).Error("cart_marshal_error", "error", err)
		return
	}
	if err := e.store.Put(ctx, constants.StorageKeyCart, raw); err != nil {
		logging.FromContext(ctx).Error("cart_persist_error", "error", err)
	}
}

func (e *Engine) publish(ctx context.Context, event map[string]any) {
	if err := e.producer.PublishEvent(ctx, events.TopicCart, e.cart.ID, event); err != nil {
		logging.FromContext(ctx).Error("cart_event_publish_error", "error", err)
	}
}

// AddToCart resolves the product and either merges into the existing item
// for that product (quantities clamp at MaxItemQuantity) or appends a new
// one. Invalid requests are logged and dropped; the cart is left unchanged.
// Once the cart holds MaxCartItems items every add is rejected, merges
// included.
func (e *Engine) AddToCart(ctx context.Context, productID string, quantity int, variant string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	l := logging.FromContext(ctx).With("svc", "cart.add", "product_id", productID)

	if e.cart == nil {
		l.Warn("add_to_cart_rejected", "reason", "cart not loaded")
		return
	}
	if quantity < 1 {
		quantity = 1
	}

	if len(e.cart.Items) >= constants.MaxCartItems {
		l.Warn("add_to_cart_rejected", "reason", "cart full", "max_items", constants.MaxCartItems)
		return
	}

	product, err := e.products.ByID(ctx, productID)
	if err != nil {
		l.Warn("add_to_cart_rejected", "reason", "product not found", "error", err)
		return
	}
	if !product.InStock {
		l.Warn("add_to_cart_rejected", "reason", "out of stock")
		return
	}

	if existing := e.findByProduct(productID); existing != nil {
		q := existing.Quantity + quantity
		if q > constants.MaxItemQuantity {
			q = constants.MaxItemQuantity
		}
		existing.Quantity = q
	} else {
		if quantity > constants.MaxItemQuantity {
			quantity = constants.MaxItemQuantity
		}
		e.cart.Items = append(e.cart.Items, models.CartItem{
			ID:              uuid.NewString(),
			ProductID:       productID,
			Product:         product.Snapshot(),
			Quantity:        quantity,
			SelectedVariant: variant,
			AddedAt:         e.now(),
		})
	}

	e.commit(ctx)
	e.publish(ctx, map[string]any{
		"type":       "cart_item_added",
		"product_id": productID,
		"quantity":   quantity,
	})
	l.Info("item_added_to_cart")
}

func (e *Engine) findByProduct(productID string) *models.CartItem {
	for i := range e.cart.Items {
		if e.cart.Items[i].ProductID == productID {
			return &e.cart.Items[i]
		}
	}
	return nil
}

// RemoveFromCart drops the matching item. Removing an unknown item is a
// no-op, not an error.
func (e *Engine) RemoveFromCart(ctx context.Context, itemID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cart == nil {
		return
	}

	for i := range e.cart.Items {
		if e.cart.Items[i].ID == itemID {
			e.cart.Items = append(e.cart.Items[:i], e.cart.Items[i+1:]...)
			e.commit(ctx)
			e.publish(ctx, map[string]any{
				"type":    "cart_item_removed",
				"item_id": itemID,
			})
			logging.FromContext(ctx).Info("item_removed_from_cart", "item_id", itemID)
			return
		}
	}

	e.commit(ctx)
}

// UpdateQuantity replaces an item's quantity in place. Out-of-range values
// are rejected without touching the item list.
func (e *Engine) UpdateQuantity(ctx context.Context, itemID string, quantity int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	l := logging.FromContext(ctx).With("svc", "cart.update", "item_id", itemID)

	if e.cart == nil {
		return
	}
	if quantity < 1 || quantity > constants.MaxItemQuantity {
		l.Warn("update_quantity_rejected", "quantity", quantity)
		return
	}

	for i := range e.cart.Items {
		if e.cart.Items[i].ID == itemID {
			e.cart.Items[i].Quantity = quantity
			e.commit(ctx)
			e.publish(ctx, map[string]any{
				"type":     "cart_item_updated",
				"item_id":  itemID,
				"quantity": quantity,
			})
			return
		}
	}

	l.Warn("update_quantity_rejected", "reason", "item not found")
}

// ClearCart empties the item list; all derived totals become zero.
func (e *Engine) ClearCart(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cart == nil {
		return
	}

	e.cart.Items = []models.CartItem{}
	e.commit(ctx)
	e.publish(ctx, map[string]any{"type": "cart_cleared"})
	logging.FromContext(ctx).Info("cart_cleared")
}
