package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/oakmart/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes persistence operations for cart rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByUser returns every cart row owned by the user.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Insert persists a new cart row and returns the stored record.
func (r *Repository) Insert(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateQuantity sets the quantity on a cart row and returns the refreshed record.
func (r *Repository) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	tx := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var row models.CartItem
	if err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Delete removes a single cart row. Deleting a row that no longer exists is
// not an error.
func (r *Repository) Delete(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&models.CartItem{}).Error
}

// DeleteByUser removes every cart row owned by the user.
func (r *Repository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}
