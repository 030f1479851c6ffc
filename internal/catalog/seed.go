package catalog

import (
	"time"

	"github.com/mkravchenko/marketplace/internal/models"
)

// SeedProducts is the demo catalog used when no external product source is
// configured.
func SeedProducts() []models.Product {
	now := time.Now().UTC()
	return []models.Product{
		{
			ID:          "1",
			Name:        "Premium Wireless Headphones",
			Description: "Over-ear wireless headphones with active noise cancelling and 30h battery life.",
			Price:       199.99,
			CategoryID:  "electronics",
			Subcategory: "Audio & Headphones",
			Brand:       "SoundCore",
			Images: []models.ProductImage{
				{URL: "https://placehold.co/400x400?text=Premium+Wireless+Headphones", Alt: "Premium Wireless Headphones"},
			},
			InStock:       true,
			StockQuantity: 42,
			SellerID:      "2",
			SellerName:    "TechStore Pro",
			Rating:        4.6,
			ReviewCount:   128,
			Tags:          []string{"audio", "wireless", "headphones"},
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:          "2",
			Name:        "Smart Fitness Watch",
			Description: "Water-resistant fitness watch with heart-rate tracking and GPS.",
			Price:       299.99,
			CategoryID:  "electronics",
			Subcategory: "Wearables",
			Brand:       "FitTech",
			Images: []models.ProductImage{
				{URL: "https://placehold.co/400x400?text=Smart+Fitness+Watch", Alt: "Smart Fitness Watch"},
			},
			InStock:       true,
			StockQuantity: 17,
			SellerID:      "2",
			SellerName:    "TechStore Pro",
			Rating:        4.3,
			ReviewCount:   64,
			Tags:          []string{"fitness", "watch", "wearable"},
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:          "3",
			Name:        "Yoga Mat",
			Description: "Non-slip 6mm yoga mat with carrying strap.",
			Price:       29.99,
			CategoryID:  "sports",
			Subcategory: "Exercise & Fitness",
			Brand:       "ZenFlex",
			Images: []models.ProductImage{
				{URL: "https://placehold.co/400x400?text=Yoga+Mat", Alt: "Yoga Mat"},
			},
			InStock:       true,
			StockQuantity: 120,
			SellerID:      "2",
			SellerName:    "TechStore Pro",
			Rating:        4.8,
			ReviewCount:   301,
			Tags:          []string{"yoga", "fitness"},
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:          "4",
			Name:        "Ceramic Coffee Mug Set",
			Description: "Set of four 350ml stoneware mugs, dishwasher safe.",
			Price:       39.99,
			CategoryID:  "home",
			Subcategory: "Kitchen & Dining",
			Brand:       "Hearthware",
			Images: []models.ProductImage{
				{URL: "https://placehold.co/400x400?text=Coffee+Mug+Set", Alt: "Ceramic Coffee Mug Set"},
			},
			InStock:       false,
			StockQuantity: 0,
			SellerID:      "2",
			SellerName:    "TechStore Pro",
			Rating:        4.1,
			ReviewCount:   23,
			Tags:          []string{"kitchen", "coffee"},
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}
}
