package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog listing owned by a seller.
type Product struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Category     string    `gorm:"column:category;not null" json:"category"`
	Price        int       `gorm:"column:price;not null" json:"price"`
	Rating       float64   `gorm:"column:rating;not null;default:0" json:"rating"`
	ReviewsCount int       `gorm:"column:reviews_count;not null;default:0" json:"reviews_count"`
	ImageURL     string    `gorm:"column:image_url" json:"image_url"`
	Badge        string    `gorm:"column:badge" json:"badge"`
	SellerID     uuid.UUID `gorm:"column:seller_id;type:uuid;not null" json:"seller_id"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
