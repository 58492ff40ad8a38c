package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/oakmart/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes persistence operations for the product catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListNewestFirst returns every product ordered by creation time, newest first.
func (r *Repository) ListNewestFirst(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListBySeller returns the seller's products, newest first.
func (r *Repository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Insert persists a new product and returns the stored row.
func (r *Repository) Insert(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies the provided column changes and returns the refreshed row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, changes map[string]any) (*models.Product, error) {
	tx := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(changes)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var row models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Delete removes the product row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Product{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
