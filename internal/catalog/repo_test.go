package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oakmart/storefront-backend/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  price INTEGER NOT NULL,
  rating REAL NOT NULL DEFAULT 0,
  reviews_count INTEGER NOT NULL DEFAULT 0,
  image_url TEXT,
  badge TEXT,
  seller_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	return db
}

func newProduct(t *testing.T, db *gorm.DB, name string, sellerID uuid.UUID, created time.Time) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:        uuid.New(),
		Name:      name,
		Category:  "Electronics",
		Price:     450,
		SellerID:  sellerID,
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryListNewestFirst(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	sellerID := uuid.New()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	oldest := newProduct(t, db, "Oldest", sellerID, base)
	middle := newProduct(t, db, "Middle", sellerID, base.Add(time.Hour))
	newest := newProduct(t, db, "Newest", sellerID, base.Add(2*time.Hour))

	rows, err := repo.ListNewestFirst(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, newest.ID, rows[0].ID)
	assert.Equal(t, middle.ID, rows[1].ID)
	assert.Equal(t, oldest.ID, rows[2].ID)
}

func TestRepositoryListBySeller(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	sellerA := uuid.New()
	sellerB := uuid.New()
	now := time.Now().UTC()
	mine := newProduct(t, db, "Mine", sellerA, now)
	newProduct(t, db, "Theirs", sellerB, now)

	rows, err := repo.ListBySeller(context.Background(), sellerA)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, mine.ID, rows[0].ID)
}

func TestRepositoryInsertAssignsID(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	stored, err := repo.Insert(context.Background(), &models.Product{
		Name:     "Espresso Machine",
		Category: "Home & Furniture",
		Price:    950,
		SellerID: uuid.New(),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, stored.ID)

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepositoryUpdateAppliesChanges(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	product := newProduct(t, db, "Old Name", uuid.New(), time.Now().UTC())

	updated, err := repo.Update(context.Background(), product.ID, map[string]any{
		"name":  "New Name",
		"price": 600,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, 600, updated.Price)
	assert.Equal(t, product.Category, updated.Category)
}

func TestRepositoryUpdateMissingRow(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	_, err := repo.Update(context.Background(), uuid.New(), map[string]any{"name": "New Name"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDelete(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	product := newProduct(t, db, "Doomed", uuid.New(), time.Now().UTC())

	require.NoError(t, repo.Delete(context.Background(), product.ID))
	assert.ErrorIs(t, repo.Delete(context.Background(), product.ID), gorm.ErrRecordNotFound)
}
