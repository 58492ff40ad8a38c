package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem holds one user's quantity for one product. The unique index keeps
// at most one row per (user, product) pair.
type CartItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_cart_items_user_product" json:"user_id"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_items_user_product" json:"product_id"`
	Quantity  int       `gorm:"column:quantity;not null" json:"quantity"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
