package profiles

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/oakmart/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes persistence operations for user profiles.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profile repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new profile row.
func (r *Repository) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// FindByID loads a profile by its identifier.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var row models.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByEmail loads a profile by its lowercased email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var row models.Profile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateLastLogin stamps the login time on the profile.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}

// UpdateSellerStatus flips the seller flag and optional storefront name, then
// returns the refreshed row.
func (r *Repository) UpdateSellerStatus(ctx context.Context, id uuid.UUID, isSeller bool, sellerName *string) (*models.Profile, error) {
	tx := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_seller":   isSeller,
			"seller_name": sellerName,
		})
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}
