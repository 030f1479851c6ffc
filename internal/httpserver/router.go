package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkravchenko/marketplace/internal/auth"
	"github.com/mkravchenko/marketplace/internal/cart"
	"github.com/mkravchenko/marketplace/internal/catalog"
	"github.com/mkravchenko/marketplace/internal/orders"
	"github.com/mkravchenko/marketplace/internal/reviews"
)

type Deps struct {
	Auth      *auth.Service
	Cart      *cart.Engine
	Products  catalog.ProductStore
	Orders    *orders.Store
	Reviews   *reviews.Store
	Secret    []byte
	UploadDir string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	authg := api.Group("/auth")
	authg.POST("/signin", d.SignIn)
	authg.POST("/signup", d.SignUp)
	authg.POST("/signout", d.SignOut)
	authg.GET("/me", d.Me)

	products := api.Group("/products")
	products.GET("", d.ListProducts)
	products.GET("/search", d.SearchProducts)
	products.GET("/categories", d.Categories)
	products.GET("/:id", d.GetProduct)
	products.POST("", d.CreateProduct, d.RequireSeller)
	products.PUT("/:id", d.UpdateProduct, d.RequireSeller)
	products.DELETE("/:id", d.DeleteProduct, d.RequireSeller)

	cartg := api.Group("/cart")
	cartg.GET("", d.GetCart)
	cartg.POST("", d.AddToCart)
	cartg.PUT("/:itemId", d.UpdateCartItem)
	cartg.DELETE("/:itemId", d.RemoveFromCart)
	cartg.DELETE("", d.ClearCart)

	ordersg := api.Group("/orders", d.RequireAuth)
	ordersg.GET("", d.ListOrders)
	ordersg.GET("/:id", d.GetOrder)
	ordersg.POST("", d.CreateOrder)
	ordersg.PUT("/:id/status", d.UpdateOrderStatus)

	reviewsg := api.Group("/reviews")
	reviewsg.GET("", d.ListReviews)
	reviewsg.POST("", d.CreateReview, d.RequireAuth)

	seller := api.Group("/seller", d.RequireSeller)
	seller.GET("/products", d.SellerProducts)
	seller.GET("/orders", d.SellerOrders)
	seller.GET("/stats", d.SellerStats)

	api.POST("/upload", d.Upload, d.RequireAuth)
}
