package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkravchenko/marketplace/internal/models"
	"github.com/mkravchenko/marketplace/internal/orders"
	"github.com/mkravchenko/marketplace/internal/util"
	"github.com/mkravchenko/marketplace/internal/validation"
	"github.com/mkravchenko/marketplace/pkg/logging"
)

func pageSlice[T any](items []T, page, size int) (int, []T) {
	total := len(items)
	from, limit := util.Calculate(page, size)
	if from >= total {
		return total, []T{}
	}
	end := from + limit
	if end > total {
		end = total
	}
	return total, items[from:end]
}

func (d *Deps) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), 0)

	all := d.Orders.ListByUser(ctx, userID(c))
	total, items := pageSlice(all, page, size)
	return respondList(c, items, util.Paginate(total, page, size))
}

func (d *Deps) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := d.Orders.ByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "The requested resource was not found.")
		}
		logging.FromContext(ctx).Error("get_order_error", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error. Please try again later.")
	}
	if order.UserID != userID(c) {
		return respondError(c, http.StatusNotFound, "The requested resource was not found.")
	}
	return respondOK(c, http.StatusOK, order)
}

// CreateOrder checks out the current cart: the order snapshots the cart
// items and the cart is cleared afterwards.
func (d *Deps) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	var req validation.CheckoutData
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_bad_body", "error", err)
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	if errs := validation.Checkout(req); !errs.Valid() {
		return respondValidation(c, errs)
	}

	snapshot := d.Cart.Cart()
	if snapshot == nil {
		return respondError(c, http.StatusBadRequest, "cart is not loaded")
	}

	billing := req.BillingAddress
	if req.SameAsBilling {
		billing = req.ShippingAddress
	}

	order, err := d.Orders.Create(ctx, userID(c), orders.CheckoutInput{
		Items:           snapshot.Items,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  billing,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		if errors.Is(err, orders.ErrEmptyCart) {
			return respondError(c, http.StatusBadRequest, "cart is empty")
		}
		l.Error("create_order_error", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error. Please try again later.")
	}

	d.Cart.ClearCart(ctx)
	return respondMessage(c, http.StatusCreated, order, "Order placed successfully!")
}

func (d *Deps) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.status")

	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("order_status_bad_body", "error", err)
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	order, err := d.Orders.UpdateStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrNotFound):
			return respondError(c, http.StatusNotFound, "The requested resource was not found.")
		case errors.Is(err, orders.ErrBadTransition):
			return respondError(c, http.StatusUnprocessableEntity, "invalid status transition")
		}
		l.Error("order_status_error", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error. Please try again later.")
	}
	return respondOK(c, http.StatusOK, order)
}
