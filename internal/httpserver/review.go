package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkravchenko/marketplace/internal/models"
	"github.com/mkravchenko/marketplace/internal/util"
	"github.com/mkravchenko/marketplace/internal/validation"
	"github.com/mkravchenko/marketplace/pkg/logging"
)

func (d *Deps) ListReviews(c echo.Context) error {
	ctx := c.Request().Context()
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), 0)

	all := d.Reviews.ListByProduct(ctx, c.QueryParam("productId"))
	total, items := pageSlice(all, page, size)
	return respondList(c, items, util.Paginate(total, page, size))
}

func (d *Deps) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.create")

	var req models.Review
	if err := c.Bind(&req); err != nil {
		l.Warn("create_review_bad_body", "error", err)
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	if errs := validation.Review(req); !errs.Valid() {
		return respondValidation(c, errs)
	}

	req.UserID = userID(c)
	if user, err := d.Auth.CurrentUser(ctx); err == nil && user != nil {
		req.UserName = user.Name
	}

	review := d.Reviews.Create(ctx, req)
	return respondMessage(c, http.StatusCreated, review, "Review submitted successfully!")
}
