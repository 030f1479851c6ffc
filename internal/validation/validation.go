// Package validation holds the form payload rules. Every schema is a pure
// function from payload to a field→messages map, empty when the payload is
// valid; the map feeds the `errors` field of the response envelope.
package validation

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/mkravchenko/marketplace/internal/auth"
	"github.com/mkravchenko/marketplace/internal/constants"
	"github.com/mkravchenko/marketplace/internal/models"
)

type Errors map[string][]string

func (e Errors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Valid() bool { return len(e) == 0 }

func validEmail(s string) bool {
	if s == "" {
		return false
	}
	_, err := mail.ParseAddress(s)
	return err == nil
}

type SignInData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func SignIn(d SignInData) Errors {
	errs := Errors{}
	if !validEmail(d.Email) {
		errs.add("email", "Invalid email address")
	}
	if len(d.Password) < 6 {
		errs.add("password", "Password must be at least 6 characters")
	}
	return errs
}

type SignUpData struct {
	auth.SignUpData
	ConfirmPassword string `json:"confirmPassword"`
}

func SignUp(d SignUpData) Errors {
	errs := Errors{}
	if len(d.Name) < 2 {
		errs.add("name", "Name must be at least 2 characters")
	}
	if !validEmail(d.Email) {
		errs.add("email", "Invalid email address")
	}
	if len(d.Password) < 6 {
		errs.add("password", "Password must be at least 6 characters")
	}
	if d.ConfirmPassword != d.Password {
		errs.add("confirmPassword", "Passwords don't match")
	}
	switch d.Role {
	case models.RoleCustomer:
	case models.RoleSeller:
		if len(d.BusinessName) < 2 {
			errs.add("businessName", "Business name is required for sellers")
		}
	default:
		errs.add("role", "Please select a role")
	}
	return errs
}

func Product(p models.Product) Errors {
	errs := Errors{}
	if len(p.Name) < 2 {
		errs.add("name", "Product name must be at least 2 characters")
	}
	if len(p.Description) < 10 {
		errs.add("description", "Description must be at least 10 characters")
	}
	if p.Price <= 0 {
		errs.add("price", "Price must be greater than 0")
	}
	if p.CategoryID == "" {
		errs.add("categoryId", "Please select a category")
	}
	if p.Brand == "" {
		errs.add("brand", "Brand is required")
	}
	if p.StockQuantity < 0 {
		errs.add("stockQuantity", "Stock quantity must be 0 or greater")
	}
	return errs
}

func Address(a models.ShippingAddress) Errors {
	errs := Errors{}
	if len(a.FullName) < 2 {
		errs.add("fullName", "Full name is required")
	}
	if len(a.StreetAddress) < 5 {
		errs.add("streetAddress", "Street address is required")
	}
	if len(a.City) < 2 {
		errs.add("city", "City is required")
	}
	if len(a.State) < 2 {
		errs.add("state", "State is required")
	}
	if len(a.ZipCode) < 5 {
		errs.add("zipCode", "Valid zip code is required")
	}
	if len(a.Country) < 2 {
		errs.add("country", "Country is required")
	}
	if len(a.Phone) < 10 {
		errs.add("phone", "Valid phone number is required")
	}
	return errs
}

var paymentTypes = map[string]bool{
	"credit_card": true,
	"debit_card":  true,
	"paypal":      true,
	"apple_pay":   true,
	"google_pay":  true,
}

type CheckoutData struct {
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	BillingAddress  models.ShippingAddress `json:"billingAddress"`
	SameAsBilling   bool                   `json:"sameAsBilling"`
	PaymentMethod   models.PaymentMethod   `json:"paymentMethod"`
}

func Checkout(d CheckoutData) Errors {
	errs := Errors{}
	for field, msgs := range Address(d.ShippingAddress) {
		errs["shippingAddress."+field] = msgs
	}
	if !d.SameAsBilling {
		for field, msgs := range Address(d.BillingAddress) {
			errs["billingAddress."+field] = msgs
		}
	}
	if !paymentTypes[d.PaymentMethod.Type] {
		errs.add("paymentMethod.type", "Unsupported payment method")
	}
	if d.PaymentMethod.ExpiryYear != 0 && d.PaymentMethod.ExpiryYear < time.Now().Year() {
		errs.add("paymentMethod.expiryYear", "Card is expired")
	}
	if m := d.PaymentMethod.ExpiryMonth; m != 0 && (m < 1 || m > 12) {
		errs.add("paymentMethod.expiryMonth", "Invalid expiry month")
	}
	return errs
}

func Review(r models.Review) Errors {
	errs := Errors{}
	if r.Rating < 1 || r.Rating > 5 {
		errs.add("rating", "Rating must be between 1 and 5")
	}
	if len(r.Title) < 5 {
		errs.add("title", "Title must be at least 5 characters")
	}
	if len(r.Comment) < 10 {
		errs.add("comment", "Comment must be at least 10 characters")
	}
	if r.ProductID == "" {
		errs.add("productId", "Product ID is required")
	}
	return errs
}

type ProductFilters struct {
	Category string  `json:"category,omitempty"`
	MinPrice float64 `json:"minPrice,omitempty"`
	MaxPrice float64 `json:"maxPrice,omitempty"`
	InStock  bool    `json:"inStock,omitempty"`
	SortBy   string  `json:"sortBy,omitempty"`
	Page     int     `json:"page"`
	Limit    int     `json:"limit"`
}

var sortOptions = map[string]bool{
	"price-low": true, "price-high": true, "rating": true,
	"newest": true, "best-selling": true,
}

func Filters(f ProductFilters) Errors {
	errs := Errors{}
	if f.MinPrice < 0 {
		errs.add("minPrice", "Minimum price must be 0 or greater")
	}
	if f.MaxPrice < 0 {
		errs.add("maxPrice", "Maximum price must be 0 or greater")
	}
	if f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
		errs.add("maxPrice", "Maximum price must not be below minimum price")
	}
	if f.SortBy != "" && !sortOptions[f.SortBy] {
		errs.add("sortBy", "Unknown sort option")
	}
	if f.Page < 0 {
		errs.add("page", "Page must be 1 or greater")
	}
	if f.Limit < 0 || f.Limit > constants.MaxPageSize {
		errs.add("limit", fmt.Sprintf("Limit must be between 1 and %d", constants.MaxPageSize))
	}
	return errs
}

type AddToCartData struct {
	ProductID       string `json:"productId"`
	Quantity        int    `json:"quantity"`
	SelectedVariant string `json:"selectedVariant,omitempty"`
}

func AddToCart(d AddToCartData) Errors {
	errs := Errors{}
	if d.ProductID == "" {
		errs.add("productId", "Product ID is required")
	}
	if d.Quantity < 1 {
		errs.add("quantity", "Quantity must be at least 1")
	}
	if d.Quantity > constants.MaxItemQuantity {
		errs.add("quantity", fmt.Sprintf("Quantity must not exceed %d", constants.MaxItemQuantity))
	}
	return errs
}

type UpdateCartItemData struct {
	Quantity int `json:"quantity"`
}

func UpdateCartItem(d UpdateCartItemData) Errors {
	errs := Errors{}
	if d.Quantity < 1 || d.Quantity > constants.MaxItemQuantity {
		errs.add("quantity", fmt.Sprintf("Quantity must be between 1 and %d", constants.MaxItemQuantity))
	}
	return errs
}
