package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravchenko/marketplace/internal/auth"
	"github.com/mkravchenko/marketplace/internal/cart"
	"github.com/mkravchenko/marketplace/internal/catalog"
	"github.com/mkravchenko/marketplace/internal/models"
	"github.com/mkravchenko/marketplace/internal/orders"
	"github.com/mkravchenko/marketplace/internal/reviews"
	"github.com/mkravchenko/marketplace/internal/util"
)

type fakeStore struct {
	m map[string][]byte
}

func (s *fakeStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *fakeStore) Put(_ context.Context, key string, value []byte) error {
	s.m[key] = append([]byte(nil), value...)
	return nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	delete(s.m, key)
	return nil
}

type testEnv struct {
	e    *echo.Echo
	deps *Deps
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users, err := auth.NewMemoryStore(auth.SeedUsers())
	require.NoError(t, err)

	store := &fakeStore{m: map[string][]byte{}}
	secret := []byte("test-secret")
	authSvc := auth.NewService(users, store, secret, nil)

	products := catalog.NewMemoryStore(catalog.SeedProducts())
	engine := cart.NewEngine(store, products, nil)
	engine.Load(context.Background())

	e := echo.New()
	deps := &Deps{
		Auth:      authSvc,
		Cart:      engine,
		Products:  products,
		Orders:    orders.NewStore(),
		Reviews:   reviews.NewStore(),
		Secret:    secret,
		UploadDir: t.TempDir(),
	}
	Register(e, deps)
	return &testEnv{e: e, deps: deps}
}

// signIn opens a session through the auth service and returns the bearer
// token for authenticated requests.
func (env *testEnv) signIn(t *testing.T, email string) string {
	t.Helper()
	_, err := env.deps.Auth.SignIn(context.Background(), email, "password123")
	require.NoError(t, err)
	token, ok, err := env.deps.Auth.Token(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	return token
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

type testEnvelope struct {
	Success    bool                `json:"success"`
	Data       json.RawMessage     `json:"data"`
	Message    string              `json:"message"`
	Error      string              `json:"error"`
	Errors     map[string][]string `json:"errors"`
	Pagination *util.Pagination    `json:"pagination"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodeData[T any](t *testing.T, env testEnvelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/ready", "", nil).Code)
}

func TestSignIn(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	t.Run("success", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
			"email": "customer@demo.com", "password": "password123",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeEnvelope(t, rec)
		assert.True(t, body.Success)
		assert.Equal(t, "Successfully signed in!", body.Message)
		user := decodeData[models.User](t, body)
		assert.Equal(t, "1", user.ID)
	})

	t.Run("bad credentials", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
			"email": "customer@demo.com", "password": "wrongpass",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeEnvelope(t, rec)
		assert.False(t, body.Success)
		assert.Equal(t, "Invalid email or password", body.Error)
	})

	t.Run("validation errors", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
			"email": "nope", "password": "x",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeEnvelope(t, rec)
		assert.False(t, body.Success)
		assert.Contains(t, body.Errors, "email")
		assert.Contains(t, body.Errors, "password")
	})
}

func TestSignUpAndSession(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	// No session yet: /me answers success with null data.
	rec := env.do(t, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "no session", body.Message)

	rec = env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"name": "New User", "email": "new@demo.com",
		"password": "secret1", "confirmPassword": "secret1",
		"role": "customer",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body = decodeEnvelope(t, rec)
	user := decodeData[models.User](t, body)
	assert.Equal(t, "new@demo.com", user.Email)

	// Session opened by the signup.
	rec = env.do(t, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeData[models.User](t, decodeEnvelope(t, rec))
	assert.Equal(t, user.ID, me.ID)

	// Duplicate email conflicts.
	rec = env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"name": "Impostor", "email": "new@demo.com",
		"password": "secret1", "confirmPassword": "secret1",
		"role": "customer",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Sign out drops the session.
	rec = env.do(t, http.MethodPost, "/api/auth/signout", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/auth/me", "", nil)
	body = decodeEnvelope(t, rec)
	assert.Equal(t, "no session", body.Message)
}

func TestListProducts(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	items := decodeData[[]models.Product](t, body)
	assert.Len(t, items, 4)
	require.NotNil(t, body.Pagination)
	assert.Equal(t, 4, body.Pagination.Total)

	// Sorted cheapest first.
	rec = env.do(t, http.MethodGet, "/api/products?sortBy=price-low", "", nil)
	items = decodeData[[]models.Product](t, decodeEnvelope(t, rec))
	require.NotEmpty(t, items)
	assert.Equal(t, "3", items[0].ID)

	// Category filter.
	rec = env.do(t, http.MethodGet, "/api/products?category=electronics", "", nil)
	body = decodeEnvelope(t, rec)
	assert.Equal(t, 2, body.Pagination.Total)
}

func TestGetProduct(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/products/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decodeData[models.Product](t, decodeEnvelope(t, rec))
	assert.Equal(t, "1", p.ID)

	rec = env.do(t, http.MethodGet, "/api/products/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchProducts(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/products/search?q=headphones", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeData[[]models.Product](t, decodeEnvelope(t, rec))
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].ID)
}

func TestCategories(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/products/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cats []struct {
		ID            string   `json:"id"`
		Subcategories []string `json:"subcategories"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &cats))
	assert.Len(t, cats, 6)
	assert.Equal(t, "electronics", cats[0].ID)
}

func validProductBody() map[string]any {
	return map[string]any{
		"name":          "Mechanical Keyboard",
		"description":   "Hot-swappable mechanical keyboard",
		"price":         129.99,
		"categoryId":    "electronics",
		"brand":         "KeyCo",
		"stockQuantity": 10,
	}
}

func TestCreateProduct_Authorization(t *testing.T) {
	t.Parallel()

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/api/products", "", validProductBody())
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("customer forbidden", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		token := env.signIn(t, "customer@demo.com")
		rec := env.do(t, http.MethodPost, "/api/products", token, validProductBody())
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("seller allowed", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		token := env.signIn(t, "seller@demo.com")
		rec := env.do(t, http.MethodPost, "/api/products", token, validProductBody())
		require.Equal(t, http.StatusCreated, rec.Code)
		p := decodeData[models.Product](t, decodeEnvelope(t, rec))
		assert.Equal(t, "2", p.SellerID, "seller id comes from the session")
		assert.True(t, p.InStock)
	})
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.signIn(t, "seller@demo.com")

	body := validProductBody()
	body["stockQuantity"] = 0
	rec := env.do(t, http.MethodPut, "/api/products/1", token, body)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decodeData[models.Product](t, decodeEnvelope(t, rec))
	assert.Equal(t, "1", p.ID)
	assert.False(t, p.InStock, "zero stock flips inStock off")

	rec = env.do(t, http.MethodDelete, "/api/products/1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/products/1", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/cart", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	c := decodeData[models.Cart](t, decodeEnvelope(t, rec))
	assert.Empty(t, c.Items)

	rec = env.do(t, http.MethodPost, "/api/cart", "", map[string]any{"productId": "3", "quantity": 1, "selectedVariant": "purple"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "Item added to cart!", body.Message)
	c = decodeData[models.Cart](t, body)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "purple", c.Items[0].SelectedVariant)
	assert.InDelta(t, 29.99, c.Subtotal, 1e-9)
	assert.InDelta(t, 5.99, c.Shipping, 1e-9)

	itemID := c.Items[0].ID
	rec = env.do(t, http.MethodPut, "/api/cart/"+itemID, "", map[string]any{"quantity": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	c = decodeData[models.Cart](t, decodeEnvelope(t, rec))
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Zero(t, c.Shipping, "subtotal above the free shipping threshold")

	rec = env.do(t, http.MethodDelete, "/api/cart/"+itemID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	c = decodeData[models.Cart](t, decodeEnvelope(t, rec))
	assert.Empty(t, c.Items)
	assert.Zero(t, c.Total)
}

func TestAddToCart_Validation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/cart", "", map[string]any{"quantity": 1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Errors, "productId")

	rec = env.do(t, http.MethodPut, "/api/cart/some-item", "", map[string]any{"quantity": 0})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Errors, "quantity")
}

func TestAddToCart_OutOfStockLeavesCartUnchanged(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	// Product 4 is seeded out of stock; the engine drops the add and the
	// handler still answers the (unchanged) cart.
	rec := env.do(t, http.MethodPost, "/api/cart", "", map[string]any{"productId": "4", "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	c := decodeData[models.Cart](t, decodeEnvelope(t, rec))
	assert.Empty(t, c.Items)
}

func validCheckoutBody() map[string]any {
	address := map[string]any{
		"fullName":      "John Customer",
		"streetAddress": "123 Main Street",
		"city":          "Springfield",
		"state":         "IL",
		"zipCode":       "62704",
		"country":       "US",
		"phone":         "5551234567",
	}
	return map[string]any{
		"shippingAddress": address,
		"sameAsBilling":   true,
		"paymentMethod":   map[string]any{"type": "credit_card"},
	}
}

func TestCheckoutFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.signIn(t, "customer@demo.com")

	rec := env.do(t, http.MethodPost, "/api/cart", "", map[string]any{"productId": "1", "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/orders", token, validCheckoutBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "Order placed successfully!", body.Message)
	order := decodeData[models.Order](t, body)
	assert.Equal(t, "1", order.UserID)
	assert.Equal(t, models.OrderPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, order.ShippingAddress, order.BillingAddress)
	assert.InDelta(t, order.Subtotal+order.Tax+order.Shipping, order.Total, 1e-9)

	// Checkout clears the cart.
	rec = env.do(t, http.MethodGet, "/api/cart", "", nil)
	c := decodeData[models.Cart](t, decodeEnvelope(t, rec))
	assert.Empty(t, c.Items)

	// The order is listed for its owner.
	rec = env.do(t, http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeData[[]models.Order](t, decodeEnvelope(t, rec))
	require.Len(t, list, 1)
	assert.Equal(t, order.ID, list[0].ID)

	rec = env.do(t, http.MethodGet, "/api/orders/"+order.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckout_EmptyCart(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.signIn(t, "customer@demo.com")

	rec := env.do(t, http.MethodPost, "/api/orders", token, validCheckoutBody())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrders_RequireAuth(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/orders", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/api/orders", "garbage-token", validCheckoutBody()).Code)
}

func TestGetOrder_OtherUsersOrderIsHidden(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.signIn(t, "customer@demo.com")

	env.do(t, http.MethodPost, "/api/cart", "", map[string]any{"productId": "1", "quantity": 1})
	rec := env.do(t, http.MethodPost, "/api/orders", token, validCheckoutBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	order := decodeData[models.Order](t, decodeEnvelope(t, rec))

	otherToken := env.signIn(t, "seller@demo.com")
	rec = env.do(t, http.MethodGet, "/api/orders/"+order.ID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.signIn(t, "customer@demo.com")

	env.do(t, http.MethodPost, "/api/cart", "", map[string]any{"productId": "1", "quantity": 1})
	rec := env.do(t, http.MethodPost, "/api/orders", token, validCheckoutBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	order := decodeData[models.Order](t, decodeEnvelope(t, rec))

	rec = env.do(t, http.MethodPut, "/api/orders/"+order.ID+"/status", token, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeData[models.Order](t, decodeEnvelope(t, rec))
	assert.Equal(t, models.OrderConfirmed, updated.Status)

	// Jumping to delivered is not a valid transition from confirmed.
	rec = env.do(t, http.MethodPut, "/api/orders/"+order.ID+"/status", token, map[string]string{"status": "delivered"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestReviews(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	review := map[string]any{
		"productId": "1",
		"rating":    5,
		"title":     "Excellent sound",
		"comment":   "Best headphones I have owned.",
	}

	rec := env.do(t, http.MethodPost, "/api/reviews", "", review)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := env.signIn(t, "customer@demo.com")
	rec = env.do(t, http.MethodPost, "/api/reviews", token, review)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeData[models.Review](t, decodeEnvelope(t, rec))
	assert.Equal(t, "1", created.UserID)
	assert.Equal(t, "John Customer", created.UserName)

	rec = env.do(t, http.MethodGet, "/api/reviews?productId=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeData[[]models.Review](t, decodeEnvelope(t, rec))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	rec = env.do(t, http.MethodGet, "/api/reviews?productId=other", "", nil)
	list = decodeData[[]models.Review](t, decodeEnvelope(t, rec))
	assert.Empty(t, list)
}

func TestSellerEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	customerToken := env.signIn(t, "customer@demo.com")
	rec := env.do(t, http.MethodGet, "/api/seller/stats", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Order a product sold by the demo seller, then check their stats.
	env.do(t, http.MethodPost, "/api/cart", "", map[string]any{"productId": "1", "quantity": 1})
	rec = env.do(t, http.MethodPost, "/api/orders", customerToken, validCheckoutBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	sellerToken := env.signIn(t, "seller@demo.com")

	rec = env.do(t, http.MethodGet, "/api/seller/products", sellerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	products := decodeData[[]models.Product](t, decodeEnvelope(t, rec))
	for _, p := range products {
		assert.Equal(t, "2", p.SellerID)
	}

	rec = env.do(t, http.MethodGet, "/api/seller/orders", sellerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sellerOrders := decodeData[[]models.Order](t, decodeEnvelope(t, rec))
	require.Len(t, sellerOrders, 1)

	rec = env.do(t, http.MethodGet, "/api/seller/stats", sellerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeData[sellerStats](t, decodeEnvelope(t, rec))
	assert.Equal(t, 1, stats.TotalOrders)
	assert.InDelta(t, 199.99, stats.TotalRevenue, 1e-9)
	assert.Positive(t, stats.TotalProducts)
}

func TestUpload(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.signIn(t, "customer@demo.com")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "photo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	result := decodeData[map[string]string](t, decodeEnvelope(t, rec))
	assert.Contains(t, result["url"], "/uploads/")
	assert.Contains(t, result["url"], ".png")

	// Anonymous uploads are rejected.
	req = httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewReader(nil))
	rec = httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
