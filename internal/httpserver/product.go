package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mkravchenko/marketplace/internal/catalog"
	"github.com/mkravchenko/marketplace/internal/constants"
	"github.com/mkravchenko/marketplace/internal/models"
	"github.com/mkravchenko/marketplace/internal/util"
	"github.com/mkravchenko/marketplace/internal/validation"
	"github.com/mkravchenko/marketplace/pkg/logging"
)

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func listParams(c echo.Context) catalog.ListParams {
	return catalog.ListParams{
		Category: c.QueryParam("category"),
		Page:     parseIntDefault(c.QueryParam("page"), 1),
		Size:     parseIntDefault(c.QueryParam("limit"), constants.DefaultPageSize),
	}
}

func applySort(items []models.Product, sortBy string) {
	switch sortBy {
	case "price-low":
		catalog.SortByPrice(items, true)
	case "price-high":
		catalog.SortByPrice(items, false)
	}
}

func (d *Deps) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	p := listParams(c)

	total, items, err := d.Products.List(ctx, p)
	if err != nil {
		logging.FromContext(ctx).Error("list_products_error", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error. Please try again later.")
	}
	applySort(items, c.QueryParam("sortBy"))

	return respondList(c, items, util.Paginate(total, p.Page, p.Size))
}

func (d *Deps) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	p := listParams(c)

	total, items, err := d.Products.Search(ctx, c.QueryParam("q"), p)
	if err != nil {
		logging.FromContext(ctx).Error("search_products_error", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error. Please try again later.")
	}
	applySort(items, c.QueryParam("sortBy"))

	return respondList(c, items, util.Paginate(total, p.Page, p.Size))
}

func (d *Deps) Categories(c echo.Context) error {
	return respondOK(c, http.StatusOK, constants.ProductCategories)
}

func (d *Deps) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := d.Products.ByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "The requested resource was not found.")
		}
		logging.FromContext(ctx).Error("get_product_error", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error. Please try again later.")
	}
	return respondOK(c, http.StatusOK, product)
}

func (d *Deps) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req models.Product
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_bad_body", "error", err)
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	if errs := validation.Product(req); !errs.Valid() {
		return respondValidation(c, errs)
	}

	req.SellerID = userID(c)
	req.InStock = req.StockQuantity > 0
	if err := d.Products.Create(ctx, &req); err != nil {
		l.Error("create_product_error", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error. Please try again later.")
	}

	return respondMessage(c, http.StatusCreated, req, "Product added successfully!")
}

func (d *Deps) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	var req models.Product
	if err := c.Bind(&req); err != nil {
		l.Warn("update_product_bad_body", "error", err)
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	req.ID = c.Param("id")
	if errs := validation.Product(req); !errs.Valid() {
		return respondValidation(c, errs)
	}

	req.InStock = req.StockQuantity > 0
	if err := d.Products.Update(ctx, &req); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "The requested resource was not found.")
		}
		l.Error("update_product_error", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error. Please try again later.")
	}

	return respondMessage(c, http.StatusOK, req, "Product updated successfully!")
}

func (d *Deps) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	if err := d.Products.Delete(ctx, c.Param("id")); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "The requested resource was not found.")
		}
		logging.FromContext(ctx).Error("delete_product_error", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error. Please try again later.")
	}
	return respondMessage(c, http.StatusOK, nil, "Product deleted successfully!")
}
