package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/oakmart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/oakmart/storefront-backend/pkg/errors"
	"github.com/oakmart/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// Store is the remote persistence surface the reconciler mirrors.
type Store interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	Insert(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (*models.CartItem, error)
	Delete(ctx context.Context, itemID uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// ProductResolver looks up products for totals and enriched listings.
type ProductResolver interface {
	Resolve(id uuid.UUID) (*models.Product, bool)
}

// ItemWithProduct pairs a cart row with the resolved product, when known.
type ItemWithProduct struct {
	models.CartItem
	Product *models.Product `json:"product,omitempty"`
}

// Reconciler keeps one user's cart mirror in sync with the remote store.
// Writes go remote first; the mirror only changes after the remote accepts.
type Reconciler struct {
	userID   uuid.UUID
	store    Store
	resolver ProductResolver
	logg     *logger.Logger

	mu     sync.RWMutex
	mirror []models.CartItem
	loaded bool
}

// NewReconciler builds a reconciler for the given user. A nil user ID makes
// an anonymous reconciler whose mutating operations reject with unauthorized.
func NewReconciler(userID uuid.UUID, store Store, resolver ProductResolver, logg *logger.Logger) (*Reconciler, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("product resolver required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Reconciler{
		userID:   userID,
		store:    store,
		resolver: resolver,
		logg:     logg,
	}, nil
}

// Load replaces the mirror from the remote store. Anonymous users and failed
// reads both leave an empty mirror; the error never surfaces.
func (r *Reconciler) Load(ctx context.Context) []models.CartItem {
	if r.userID == uuid.Nil {
		r.mu.Lock()
		r.mirror = nil
		r.loaded = true
		r.mu.Unlock()
		return nil
	}

	rows, err := r.store.ListByUser(ctx, r.userID)
	if err != nil {
		r.logg.Warn(r.logg.WithField(ctx, "error", err.Error()), "cart load failed, serving empty cart")
		rows = nil
	}

	r.mu.Lock()
	r.mirror = rows
	// A failed read leaves the mirror unloaded so the next mutating
	// operation fetches the remote rows before deciding insert vs merge.
	r.loaded = err == nil
	r.mu.Unlock()

	return cloneItems(rows)
}

// ensureLoaded primes the mirror from the remote store before the first
// mutating operation on a fresh reconciler.
func (r *Reconciler) ensureLoaded(ctx context.Context) {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()
	if loaded {
		return
	}
	r.Load(ctx)
}

// Add merges the quantity into an existing row for the product, or inserts a
// new row. One row per product per user.
func (r *Reconciler) Add(ctx context.Context, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if r.userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to add items to cart")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	r.ensureLoaded(ctx)

	if existing := r.findByProduct(productID); existing != nil {
		return r.Update(ctx, existing.ID, existing.Quantity+quantity)
	}

	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	stored, err := r.store.Insert(ctx, &models.CartItem{
		UserID:    r.userID,
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cart item")
	}

	r.mu.Lock()
	r.mirror = append(r.mirror, *stored)
	r.mu.Unlock()

	copy := *stored
	return &copy, nil
}

// Update sets a row's quantity. A non-positive quantity removes the row and
// returns nil.
func (r *Reconciler) Update(ctx context.Context, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	if r.userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to manage your cart")
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")
	}

	r.ensureLoaded(ctx)

	if quantity <= 0 {
		if err := r.Remove(ctx, itemID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	stored, err := r.store.UpdateQuantity(ctx, itemID, quantity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}

	r.mu.Lock()
	for i := range r.mirror {
		if r.mirror[i].ID == itemID {
			r.mirror[i] = *stored
			break
		}
	}
	r.mu.Unlock()

	copy := *stored
	return &copy, nil
}

// Increment raises the row's quantity by one, resolved against the mirror.
func (r *Reconciler) Increment(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error) {
	r.ensureLoaded(ctx)
	current, err := r.currentQuantity(itemID)
	if err != nil {
		return nil, err
	}
	return r.Update(ctx, itemID, current+1)
}

// Decrement lowers the row's quantity by one; reaching zero removes the row.
func (r *Reconciler) Decrement(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error) {
	r.ensureLoaded(ctx)
	current, err := r.currentQuantity(itemID)
	if err != nil {
		return nil, err
	}
	return r.Update(ctx, itemID, current-1)
}

// Remove deletes the row remotely, then drops it from the mirror. Removing a
// row that is already gone succeeds.
func (r *Reconciler) Remove(ctx context.Context, itemID uuid.UUID) error {
	if r.userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to manage your cart")
	}
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")
	}

	r.ensureLoaded(ctx)

	if err := r.store.Delete(ctx, itemID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
	}

	r.mu.Lock()
	kept := r.mirror[:0]
	for _, item := range r.mirror {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	r.mirror = kept
	r.mu.Unlock()

	return nil
}

// Clear removes every row for the user. A no-op for anonymous reconcilers.
func (r *Reconciler) Clear(ctx context.Context) error {
	if r.userID == uuid.Nil {
		return nil
	}

	if err := r.store.DeleteByUser(ctx, r.userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}

	r.mu.Lock()
	r.mirror = nil
	r.loaded = true
	r.mu.Unlock()

	return nil
}

// Total sums price*quantity over the mirror. A product missing from the
// catalog contributes zero.
func (r *Reconciler) Total() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, item := range r.mirror {
		if product, ok := r.resolver.Resolve(item.ProductID); ok {
			total += product.Price * item.Quantity
		}
	}
	return total
}

// Count returns the number of distinct rows in the mirror.
func (r *Reconciler) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.mirror)
}

// Items returns a snapshot of the mirror.
func (r *Reconciler) Items() []models.CartItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneItems(r.mirror)
}

// ItemsWithProducts pairs each mirrored row with the resolved product.
// Unresolvable products leave the field nil; the row still appears.
func (r *Reconciler) ItemsWithProducts() []ItemWithProduct {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ItemWithProduct, 0, len(r.mirror))
	for _, item := range r.mirror {
		entry := ItemWithProduct{CartItem: item}
		if product, ok := r.resolver.Resolve(item.ProductID); ok {
			entry.Product = product
		}
		out = append(out, entry)
	}
	return out
}

func (r *Reconciler) findByProduct(productID uuid.UUID) *models.CartItem {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.mirror {
		if item.ProductID == productID {
			copy := item
			return &copy
		}
	}
	return nil
}

func (r *Reconciler) currentQuantity(itemID uuid.UUID) (int, error) {
	if itemID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.mirror {
		if item.ID == itemID {
			return item.Quantity, nil
		}
	}
	return 0, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
}

func cloneItems(rows []models.CartItem) []models.CartItem {
	if rows == nil {
		return nil
	}
	out := make([]models.CartItem, len(rows))
	copy(out, rows)
	return out
}
