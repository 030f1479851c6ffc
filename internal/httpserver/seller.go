package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkravchenko/marketplace/internal/catalog"
	"github.com/mkravchenko/marketplace/internal/constants"
	"github.com/mkravchenko/marketplace/internal/util"
	"github.com/mkravchenko/marketplace/pkg/logging"
)

func (d *Deps) SellerProducts(c echo.Context) error {
	ctx := c.Request().Context()
	p := catalog.ListParams{
		SellerID: userID(c),
		Page:     parseIntDefault(c.QueryParam("page"), 1),
		Size:     parseIntDefault(c.QueryParam("limit"), constants.DefaultPageSize),
	}

	total, items, err := d.Products.List(ctx, p)
	if err != nil {
		logging.FromContext(ctx).Error("seller_products_error", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error. Please try again later.")
	}
	return respondList(c, items, util.Paginate(total, p.Page, p.Size))
}

func (d *Deps) SellerOrders(c echo.Context) error {
	ctx := c.Request().Context()
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), 0)

	all := d.Orders.ListBySeller(ctx, userID(c))
	total, items := pageSlice(all, page, size)
	return respondList(c, items, util.Paginate(total, page, size))
}

type sellerStats struct {
	TotalProducts int     `json:"totalProducts"`
	TotalOrders   int     `json:"totalOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// SellerStats aggregates the seller's catalog size and the revenue of
// their sold items across all orders.
func (d *Deps) SellerStats(c echo.Context) error {
	ctx := c.Request().Context()
	sellerID := userID(c)

	totalProducts, _, err := d.Products.List(ctx, catalog.ListParams{SellerID: sellerID, Page: 1, Size: 1})
	if err != nil {
		logging.FromContext(ctx).Error("seller_stats_error", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error. Please try again later.")
	}

	sellerOrders := d.Orders.ListBySeller(ctx, sellerID)
	revenue := 0.0
	for _, o := range sellerOrders {
		for _, item := range o.Items {
			if item.SellerID == sellerID {
				revenue += item.Total
			}
		}
	}

	return respondOK(c, http.StatusOK, sellerStats{
		TotalProducts: totalProducts,
		TotalOrders:   len(sellerOrders),
		TotalRevenue:  revenue,
	})
}
