package constants

const (
	AppName = "MarketPlace"

	// Pricing
	TaxRate               = 0.08
	FreeShippingThreshold = 50.0
	ShippingFee           = 5.99

	// Cart limits
	MaxCartItems    = 100
	MaxItemQuantity = 999

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Uploads
	MaxFileSize = 5 * 1024 * 1024
)

// Durable storage keys. The cart lives under a marketplace-prefixed key,
// the session under two separate keys so token and user can be cleared
// independently.
const (
	StorageKeyCart  = "marketplace_cart"
	StorageKeyToken = "auth_token"
	StorageKeyUser  = "auth_user"
)

type Category struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

var ProductCategories = []Category{
	{ID: "electronics", Name: "Electronics", Subcategories: []string{
		"Smartphones & Tablets", "Laptops & Computers", "Audio & Headphones",
		"TV & Home Theater", "Gaming", "Cameras & Photography", "Smart Home", "Wearables",
	}},
	{ID: "clothing", Name: "Clothing & Fashion", Subcategories: []string{
		"Men's Clothing", "Women's Clothing", "Shoes & Footwear", "Accessories",
		"Bags & Luggage", "Jewelry & Watches", "Activewear", "Kids' Clothing",
	}},
	{ID: "home", Name: "Home & Garden", Subcategories: []string{
		"Furniture", "Home Decor", "Kitchen & Dining", "Bedding & Bath",
		"Garden & Outdoor", "Tools & Hardware", "Lighting", "Storage & Organization",
	}},
	{ID: "health", Name: "Health & Beauty", Subcategories: []string{
		"Skincare", "Makeup & Cosmetics", "Hair Care", "Health & Wellness",
		"Vitamins & Supplements", "Personal Care", "Fitness Equipment", "Medical Supplies",
	}},
	{ID: "sports", Name: "Sports & Outdoors", Subcategories: []string{
		"Exercise & Fitness", "Outdoor Recreation", "Sports Equipment", "Athletic Clothing",
		"Camping & Hiking", "Cycling", "Water Sports", "Winter Sports",
	}},
	{ID: "books", Name: "Books & Media", Subcategories: []string{
		"Books", "E-books", "Movies & TV Shows", "Music", "Video Games",
		"Magazines", "Educational Materials", "Art & Crafts",
	}},
}
