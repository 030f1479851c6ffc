package models

import (
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID        string    `gorm:"primaryKey"      json:"id"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Name      string    `gorm:"not null"        json:"name"`
	Role      Role      `gorm:"not null"        json:"role"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ProductImage struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

type Product struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Price         float64        `json:"price"`
	OriginalPrice float64        `json:"originalPrice,omitempty"`
	CategoryID    string         `json:"categoryId"`
	Subcategory   string         `json:"subcategory,omitempty"`
	Brand         string         `json:"brand"`
	Images        []ProductImage `json:"images"`
	InStock       bool           `json:"inStock"`
	StockQuantity int            `json:"stockQuantity"`
	SellerID      string         `json:"sellerId"`
	SellerName    string         `json:"sellerName"`
	Rating        float64        `json:"rating"`
	ReviewCount   int            `json:"reviewCount"`
	Tags          []string       `json:"tags,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// ProductSnapshot is the denormalized view of a product captured inside a
// cart item at add time. Price is frozen there and never live-updated.
type ProductSnapshot struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Price      float64        `json:"price"`
	Images     []ProductImage `json:"images"`
	InStock    bool           `json:"inStock"`
	SellerID   string         `json:"sellerId"`
	SellerName string         `json:"sellerName"`
}

func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price,
		Images:     p.Images,
		InStock:    p.InStock,
		SellerID:   p.SellerID,
		SellerName: p.SellerName,
	}
}

type CartItem struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"productId"`
	Product         ProductSnapshot `json:"product"`
	Quantity        int             `json:"quantity"`
	SelectedVariant string          `json:"selectedVariant,omitempty"`
	AddedAt         time.Time       `json:"addedAt"`
}

type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId,omitempty"`
	Items     []CartItem `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	Tax       float64    `json:"tax"`
	Shipping  float64    `json:"shipping"`
	Total     float64    `json:"total"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderReturned   OrderStatus = "returned"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type ShippingAddress struct {
	FullName      string `json:"fullName"`
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zipCode"`
	Country       string `json:"country"`
	Phone         string `json:"phone"`
}

type PaymentMethod struct {
	Type        string `json:"type"`
	Last4       string `json:"last4,omitempty"`
	Brand       string `json:"brand,omitempty"`
	ExpiryMonth int    `json:"expiryMonth,omitempty"`
	ExpiryYear  int    `json:"expiryYear,omitempty"`
}

type OrderItem struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"productId"`
	Product         ProductSnapshot `json:"product"`
	SellerID        string          `json:"sellerId"`
	SellerName      string          `json:"sellerName"`
	Quantity        int             `json:"quantity"`
	Price           float64         `json:"price"`
	Total           float64         `json:"total"`
	SelectedVariant string          `json:"selectedVariant,omitempty"`
}

type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Items           []OrderItem     `json:"items"`
	Status          OrderStatus     `json:"status"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	BillingAddress  ShippingAddress `json:"billingAddress"`
	Subtotal        float64         `json:"subtotal"`
	Tax             float64         `json:"tax"`
	Shipping        float64         `json:"shipping"`
	Total           float64         `json:"total"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	TrackingNumber  string          `json:"trackingNumber,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Comment   string    `json:"comment"`
	Verified  bool      `json:"verified"`
	Helpful   int       `json:"helpful"`
	CreatedAt time.Time `json:"createdAt"`
}
