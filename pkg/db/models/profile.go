package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile represents the canonical identity entity.
type Profile struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Email        string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	FullName     string     `gorm:"column:full_name;not null;default:''"`
	IsSeller     bool       `gorm:"column:is_seller;not null;default:false"`
	SellerName   *string    `gorm:"column:seller_name"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
