package apiclient

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/mkravchenko/marketplace/internal/auth"
	"github.com/mkravchenko/marketplace/internal/constants"
	"github.com/mkravchenko/marketplace/internal/models"
)

// Auth

func (c *Client) SignIn(ctx context.Context, email, password string) (*Response[models.User], error) {
	body := map[string]string{"email": email, "password": password}
	return Do[models.User](ctx, c, http.MethodPost, "/auth/signin", nil, body)
}

func (c *Client) SignUp(ctx context.Context, data auth.SignUpData) (*Response[models.User], error) {
	return Do[models.User](ctx, c, http.MethodPost, "/auth/signup", nil, data)
}

func (c *Client) SignOut(ctx context.Context) (*Response[struct{}], error) {
	return Do[struct{}](ctx, c, http.MethodPost, "/auth/signout", nil, nil)
}

func (c *Client) CurrentUser(ctx context.Context) (*Response[models.User], error) {
	return Do[models.User](ctx, c, http.MethodGet, "/auth/me", nil, nil)
}

// Products

func (c *Client) Products(ctx context.Context, params url.Values) (*Paginated[models.Product], error) {
	return DoList[models.Product](ctx, c, http.MethodGet, "/products", params, nil)
}

func (c *Client) Product(ctx context.Context, id string) (*Response[models.Product], error) {
	return Do[models.Product](ctx, c, http.MethodGet, "/products/"+id, nil, nil)
}

func (c *Client) SearchProducts(ctx context.Context, query string, filters url.Values) (*Paginated[models.Product], error) {
	params := url.Values{}
	for k, vs := range filters {
		params[k] = vs
	}
	params.Set("q", query)
	return DoList[models.Product](ctx, c, http.MethodGet, "/products/search", params, nil)
}

func (c *Client) Categories(ctx context.Context) (*Response[[]constants.Category], error) {
	return Do[[]constants.Category](ctx, c, http.MethodGet, "/products/categories", nil, nil)
}

func (c *Client) CreateProduct(ctx context.Context, product models.Product) (*Response[models.Product], error) {
	return Do[models.Product](ctx, c, http.MethodPost, "/products", nil, product)
}

func (c *Client) UpdateProduct(ctx context.Context, id string, product models.Product) (*Response[models.Product], error) {
	return Do[models.Product](ctx, c, http.MethodPut, "/products/"+id, nil, product)
}

func (c *Client) DeleteProduct(ctx context.Context, id string) (*Response[struct{}], error) {
	return Do[struct{}](ctx, c, http.MethodDelete, "/products/"+id, nil, nil)
}

// Cart

func (c *Client) Cart(ctx context.Context) (*Response[models.Cart], error) {
	return Do[models.Cart](ctx, c, http.MethodGet, "/cart", nil, nil)
}

func (c *Client) AddToCart(ctx context.Context, productID string, quantity int, variant string) (*Response[models.Cart], error) {
	body := map[string]any{"productId": productID, "quantity": quantity}
	if variant != "" {
		body["selectedVariant"] = variant
	}
	return Do[models.Cart](ctx, c, http.MethodPost, "/cart", nil, body)
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID string, quantity int) (*Response[models.Cart], error) {
	body := map[string]any{"quantity": quantity}
	return Do[models.Cart](ctx, c, http.MethodPut, "/cart/"+itemID, nil, body)
}

func (c *Client) RemoveFromCart(ctx context.Context, itemID string) (*Response[models.Cart], error) {
	return Do[models.Cart](ctx, c, http.MethodDelete, "/cart/"+itemID, nil, nil)
}

func (c *Client) ClearCart(ctx context.Context) (*Response[models.Cart], error) {
	return Do[models.Cart](ctx, c, http.MethodDelete, "/cart", nil, nil)
}

// Orders

func (c *Client) Orders(ctx context.Context, params url.Values) (*Paginated[models.Order], error) {
	return DoList[models.Order](ctx, c, http.MethodGet, "/orders", params, nil)
}

func (c *Client) Order(ctx context.Context, id string) (*Response[models.Order], error) {
	return Do[models.Order](ctx, c, http.MethodGet, "/orders/"+id, nil, nil)
}

func (c *Client) CreateOrder(ctx context.Context, order any) (*Response[models.Order], error) {
	return Do[models.Order](ctx, c, http.MethodPost, "/orders", nil, order)
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*Response[models.Order], error) {
	body := map[string]string{"status": string(status)}
	return Do[models.Order](ctx, c, http.MethodPut, "/orders/"+id+"/status", nil, body)
}

// Reviews

func (c *Client) Reviews(ctx context.Context, productID string, params url.Values) (*Paginated[models.Review], error) {
	p := url.Values{}
	for k, vs := range params {
		p[k] = vs
	}
	p.Set("productId", productID)
	return DoList[models.Review](ctx, c, http.MethodGet, "/reviews", p, nil)
}

func (c *Client) CreateReview(ctx context.Context, review models.Review) (*Response[models.Review], error) {
	return Do[models.Review](ctx, c, http.MethodPost, "/reviews", nil, review)
}

// Seller

func (c *Client) SellerProducts(ctx context.Context, params url.Values) (*Paginated[models.Product], error) {
	return DoList[models.Product](ctx, c, http.MethodGet, "/seller/products", params, nil)
}

func (c *Client) SellerOrders(ctx context.Context, params url.Values) (*Paginated[models.Order], error) {
	return DoList[models.Order](ctx, c, http.MethodGet, "/seller/orders", params, nil)
}

type SellerStats struct {
	TotalProducts int     `json:"totalProducts"`
	TotalOrders   int     `json:"totalOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

func (c *Client) GetSellerStats(ctx context.Context) (*Response[SellerStats], error) {
	return Do[SellerStats](ctx, c, http.MethodGet, "/seller/stats", nil, nil)
}

// Upload

type UploadResult struct {
	URL string `json:"url"`
}

func (c *Client) UploadFile(ctx context.Context, fileName string, r io.Reader) (*Response[UploadResult], error) {
	body, err := NewMultipartFile("file", fileName, r)
	if err != nil {
		return nil, &APIError{Message: err.Error(), Status: 0}
	}
	return Do[UploadResult](ctx, c, http.MethodPost, "/upload", nil, body)
}
