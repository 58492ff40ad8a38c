package catalog

import (
	"github.com/google/uuid"
	"github.com/oakmart/storefront-backend/pkg/db/models"
)

// Fixed identities so repeated refreshes against an empty or unreachable
// store always produce the same fallback catalog.
var (
	seedSeller1 = uuid.MustParse("9d1b7f62-0001-4a8e-8c21-5b3f9a6d1e01")
	seedSeller2 = uuid.MustParse("9d1b7f62-0002-4a8e-8c21-5b3f9a6d1e02")
	seedSeller3 = uuid.MustParse("9d1b7f62-0003-4a8e-8c21-5b3f9a6d1e03")
	seedSeller4 = uuid.MustParse("9d1b7f62-0004-4a8e-8c21-5b3f9a6d1e04")
	seedSeller5 = uuid.MustParse("9d1b7f62-0005-4a8e-8c21-5b3f9a6d1e05")
)

// SeedProducts returns the built-in sample catalog used when the remote
// store cannot be read or holds no rows.
func SeedProducts() []models.Product {
	return []models.Product{
		{
			ID:           uuid.MustParse("4c7e2b10-0001-4f5a-9b6d-8e3a1c2f5d01"),
			Name:         "Wireless Bluetooth Headphones",
			Category:     "Electronics",
			Price:        450,
			Rating:       4.8,
			ReviewsCount: 234,
			ImageURL:     "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400&h=300&fit=crop",
			Badge:        "Best Seller",
			SellerID:     seedSeller1,
		},
		{
			ID:           uuid.MustParse("4c7e2b10-0002-4f5a-9b6d-8e3a1c2f5d02"),
			Name:         "Smart Watch Series 5",
			Category:     "Electronics",
			Price:        890,
			Rating:       4.9,
			ReviewsCount: 189,
			ImageURL:     "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=400&h=300&fit=crop",
			Badge:        "New",
			SellerID:     seedSeller1,
		},
		{
			ID:           uuid.MustParse("4c7e2b10-0003-4f5a-9b6d-8e3a1c2f5d03"),
			Name:         "Premium Leather Jacket",
			Category:     "Fashion",
			Price:        1200,
			Rating:       4.7,
			ReviewsCount: 156,
			ImageURL:     "https://images.unsplash.com/photo-1551028719-00167b16eac5?w=400&h=300&fit=crop",
			Badge:        "Hot Deal",
			SellerID:     seedSeller2,
		},
		{
			ID:           uuid.MustParse("4c7e2b10-0004-4f5a-9b6d-8e3a1c2f5d04"),
			Name:         "iPhone 14 Pro Max",
			Category:     "Phones",
			Price:        15500,
			Rating:       4.9,
			ReviewsCount: 423,
			ImageURL:     "https://images.unsplash.com/photo-1678685888221-cda773a3dcdb?w=400&h=300&fit=crop",
			Badge:        "Popular",
			SellerID:     seedSeller3,
		},
		{
			ID:           uuid.MustParse("4c7e2b10-0005-4f5a-9b6d-8e3a1c2f5d05"),
			Name:         "Modern Sofa Set",
			Category:     "Home & Furniture",
			Price:        3500,
			Rating:       4.6,
			ReviewsCount: 98,
			ImageURL:     "https://images.unsplash.com/photo-1555041469-a586c61ea9bc?w=400&h=300&fit=crop",
			Badge:        "",
			SellerID:     seedSeller4,
		},
		{
			ID:           uuid.MustParse("4c7e2b10-0006-4f5a-9b6d-8e3a1c2f5d06"),
			Name:         "Professional DSLR Camera",
			Category:     "Electronics",
			Price:        4200,
			Rating:       4.8,
			ReviewsCount: 167,
			ImageURL:     "https://images.unsplash.com/photo-1516035069371-29a1b244cc32?w=400&h=300&fit=crop",
			Badge:        "Premium",
			SellerID:     seedSeller5,
		},
		{
			ID:           uuid.MustParse("4c7e2b10-0007-4f5a-9b6d-8e3a1c2f5d07"),
			Name:         "Designer Handbag",
			Category:     "Fashion",
			Price:        780,
			Rating:       4.7,
			ReviewsCount: 201,
			ImageURL:     "https://images.unsplash.com/photo-1584917865442-de89df76afd3?w=400&h=300&fit=crop",
			Badge:        "Trending",
			SellerID:     seedSeller2,
		},
		{
			ID:           uuid.MustParse("4c7e2b10-0008-4f5a-9b6d-8e3a1c2f5d08"),
			Name:         "Samsung Galaxy S23",
			Category:     "Phones",
			Price:        12800,
			Rating:       4.8,
			ReviewsCount: 312,
			ImageURL:     "https://images.unsplash.com/photo-1610945415295-d9bbf067e59c?w=400&h=300&fit=crop",
			Badge:        "",
			SellerID:     seedSeller3,
		},
	}
}
