package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkravchenko/marketplace/internal/validation"
	"github.com/mkravchenko/marketplace/pkg/logging"
)

// Cart handlers answer the full cart snapshot after every call, so the UI
// can re-render from one response. Rejections inside the engine (unknown
// product, out of stock, full cart) are logged there and do not surface as
// HTTP errors; the caller sees an unchanged cart.

func (d *Deps) GetCart(c echo.Context) error {
	return respondOK(c, http.StatusOK, d.Cart.Cart())
}

func (d *Deps) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req validation.AddToCartData
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_bad_body", "error", err)
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if errs := validation.AddToCart(req); !errs.Valid() {
		return respondValidation(c, errs)
	}

	d.Cart.AddToCart(ctx, req.ProductID, req.Quantity, req.SelectedVariant)
	return respondMessage(c, http.StatusOK, d.Cart.Cart(), "Item added to cart!")
}

func (d *Deps) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	var req validation.UpdateCartItemData
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_bad_body", "error", err)
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	if errs := validation.UpdateCartItem(req); !errs.Valid() {
		return respondValidation(c, errs)
	}

	d.Cart.UpdateQuantity(ctx, c.Param("itemId"), req.Quantity)
	return respondMessage(c, http.StatusOK, d.Cart.Cart(), "Cart updated successfully!")
}

func (d *Deps) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	d.Cart.RemoveFromCart(ctx, c.Param("itemId"))
	return respondOK(c, http.StatusOK, d.Cart.Cart())
}

func (d *Deps) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	d.Cart.ClearCart(ctx)
	return respondOK(c, http.StatusOK, d.Cart.Cart())
}
