package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/oakmart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/oakmart/storefront-backend/pkg/errors"
	"github.com/oakmart/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// Store is the remote persistence surface the cache mirrors.
type Store interface {
	ListNewestFirst(ctx context.Context) ([]models.Product, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error)
	Insert(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, changes map[string]any) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes the catalog read cache and its write-through operations.
type Service interface {
	Refresh(ctx context.Context) []models.Product
	All() []models.Product
	ByCategory(category string) []models.Product
	Search(query string) []models.Product
	Resolve(id uuid.UUID) (*models.Product, bool)
	Add(ctx context.Context, input AddProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	Remove(ctx context.Context, id uuid.UUID) error
	SellerProducts(ctx context.Context, sellerID uuid.UUID) []models.Product
}

type service struct {
	store Store
	logg  *logger.Logger

	mu     sync.RWMutex
	mirror []models.Product
}

// NewService builds the catalog cache. The mirror starts empty; callers run
// Refresh before serving reads.
func NewService(store Store, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		store: store,
		logg:  logg,
	}, nil
}

// AddProductInput captures the payload for a new listing.
type AddProductInput struct {
	Name         string
	Category     string
	Price        int
	Rating       float64
	ReviewsCount int
	ImageURL     string
	Badge        string
	SellerID     uuid.UUID
}

// UpdateProductInput carries partial column changes. Nil fields are untouched.
type UpdateProductInput struct {
	Name         *string
	Category     *string
	Price        *int
	Rating       *float64
	ReviewsCount *int
	ImageURL     *string
	Badge        *string
}

// Refresh replaces the mirror from the remote store. A failed or empty read
// falls back to the built-in sample catalog; the error never surfaces.
func (s *service) Refresh(ctx context.Context) []models.Product {
	rows, err := s.store.ListNewestFirst(ctx)
	switch {
	case err != nil:
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog refresh failed, serving sample products")
		rows = SeedProducts()
	case len(rows) == 0:
		rows = SeedProducts()
	}

	s.mu.Lock()
	s.mirror = rows
	s.mu.Unlock()

	return cloneProducts(rows)
}

// All returns a snapshot of the mirrored catalog.
func (s *service) All() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProducts(s.mirror)
}

// ByCategory returns mirrored products whose category matches, ignoring case.
func (s *service) ByCategory(category string) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Product
	for _, p := range s.mirror {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// Search returns mirrored products whose name or category contains the
// query, ignoring case.
func (s *service) Search(query string) []models.Product {
	q := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Product
	for _, p := range s.mirror {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}

// Resolve looks a product up in the mirror by ID.
func (s *service) Resolve(id uuid.UUID) (*models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.mirror {
		if p.ID == id {
			copy := p
			return &copy, true
		}
	}
	return nil, false
}

// Add persists a new listing remotely, then appends the stored row to the
// mirror. A remote failure leaves the mirror untouched.
func (s *service) Add(ctx context.Context, input AddProductInput) (*models.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product category is required")
	}
	if input.Price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price cannot be negative")
	}
	if input.SellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id is required")
	}

	row := &models.Product{
		Name:         strings.TrimSpace(input.Name),
		Category:     strings.TrimSpace(input.Category),
		Price:        input.Price,
		Rating:       input.Rating,
		ReviewsCount: input.ReviewsCount,
		ImageURL:     input.ImageURL,
		Badge:        input.Badge,
		SellerID:     input.SellerID,
	}

	stored, err := s.store.Insert(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert product")
	}

	s.mu.Lock()
	s.mirror = append(s.mirror, *stored)
	s.mu.Unlock()

	copy := *stored
	return &copy, nil
}

// Update applies the changes remotely, then swaps the stored row into the
// mirror when present.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	changes := input.changes()
	if len(changes) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no changes provided")
	}
	if price, ok := changes["price"].(int); ok && price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price cannot be negative")
	}

	stored, err := s.store.Update(ctx, id, changes)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	s.mu.Lock()
	for i := range s.mirror {
		if s.mirror[i].ID == id {
			s.mirror[i] = *stored
			break
		}
	}
	s.mu.Unlock()

	copy := *stored
	return &copy, nil
}

// Remove deletes the listing remotely, then drops it from the mirror.
func (s *service) Remove(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}

	s.mu.Lock()
	kept := s.mirror[:0]
	for _, p := range s.mirror {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.mirror = kept
	s.mu.Unlock()

	return nil
}

// SellerProducts reads the seller's listings straight from the remote store.
// A failed read degrades to an empty slice.
func (s *service) SellerProducts(ctx context.Context, sellerID uuid.UUID) []models.Product {
	if sellerID == uuid.Nil {
		return nil
	}
	rows, err := s.store.ListBySeller(ctx, sellerID)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "seller products read failed")
		return nil
	}
	return rows
}

func (u UpdateProductInput) changes() map[string]any {
	changes := map[string]any{}
	if u.Name != nil {
		changes["name"] = strings.TrimSpace(*u.Name)
	}
	if u.Category != nil {
		changes["category"] = strings.TrimSpace(*u.Category)
	}
	if u.Price != nil {
		changes["price"] = *u.Price
	}
	if u.Rating != nil {
		changes["rating"] = *u.Rating
	}
	if u.ReviewsCount != nil {
		changes["reviews_count"] = *u.ReviewsCount
	}
	if u.ImageURL != nil {
		changes["image_url"] = *u.ImageURL
	}
	if u.Badge != nil {
		changes["badge"] = *u.Badge
	}
	return changes
}

func cloneProducts(rows []models.Product) []models.Product {
	if rows == nil {
		return nil
	}
	out := make([]models.Product, len(rows))
	copy(out, rows)
	return out
}
