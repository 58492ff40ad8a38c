package catalog

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/oakmart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/oakmart/storefront-backend/pkg/errors"
	"github.com/oakmart/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type stubStore struct {
	rows       []models.Product
	sellerRows []models.Product
	listErr    error
	sellerErr  error
	insertErr  error
	updateErr  error
	deleteErr  error

	inserted []models.Product
	updated  map[string]any
	deleted  []uuid.UUID
}

func (s *stubStore) ListNewestFirst(ctx context.Context) ([]models.Product, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.rows, nil
}

func (s *stubStore) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error) {
	if s.sellerErr != nil {
		return nil, s.sellerErr
	}
	return s.sellerRows, nil
}

func (s *stubStore) Insert(ctx context.Context, product *models.Product) (*models.Product, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.inserted = append(s.inserted, *product)
	return product, nil
}

func (s *stubStore) Update(ctx context.Context, id uuid.UUID, changes map[string]any) (*models.Product, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	s.updated = changes
	for _, row := range s.rows {
		if row.ID == id {
			if name, ok := changes["name"].(string); ok {
				row.Name = name
			}
			if price, ok := changes["price"].(int); ok {
				row.Price = price
			}
			return &row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStore) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestService(t *testing.T, store *stubStore) Service {
	t.Helper()
	svc, err := NewService(store, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNewServiceRequiresStore(t *testing.T) {
	if _, err := NewService(nil, testLogger()); err == nil {
		t.Fatal("expected error creating service without store")
	}
}

func TestRefreshUsesRemoteRows(t *testing.T) {
	rows := []models.Product{
		{ID: uuid.New(), Name: "Mechanical Keyboard", Category: "Electronics", Price: 300},
	}
	svc := newTestService(t, &stubStore{rows: rows})

	got := svc.Refresh(context.Background())
	if len(got) != 1 || got[0].Name != "Mechanical Keyboard" {
		t.Fatalf("expected remote rows, got %+v", got)
	}
	if len(svc.All()) != 1 {
		t.Fatalf("expected mirror of 1 product, got %d", len(svc.All()))
	}
}

func TestRefreshIsIdempotent(t *testing.T) {
	rows := []models.Product{
		{ID: uuid.New(), Name: "Mechanical Keyboard", Category: "Electronics", Price: 300},
		{ID: uuid.New(), Name: "Desk Lamp", Category: "Home & Furniture", Price: 120},
	}
	svc := newTestService(t, &stubStore{rows: rows})

	first := svc.Refresh(context.Background())
	second := svc.Refresh(context.Background())

	if len(first) != len(second) {
		t.Fatalf("expected identical snapshots, got %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("snapshot diverged at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRefreshFallsBackToSeedOnError(t *testing.T) {
	svc := newTestService(t, &stubStore{listErr: errors.New("connection refused")})

	got := svc.Refresh(context.Background())
	if len(got) != len(SeedProducts()) {
		t.Fatalf("expected %d seed products, got %d", len(SeedProducts()), len(got))
	}
}

func TestRefreshFallsBackToSeedWhenEmpty(t *testing.T) {
	svc := newTestService(t, &stubStore{})

	got := svc.Refresh(context.Background())
	if len(got) != len(SeedProducts()) {
		t.Fatalf("expected seed catalog for empty store, got %d products", len(got))
	}
}

func TestByCategoryIgnoresCase(t *testing.T) {
	svc := newTestService(t, &stubStore{listErr: errors.New("down")})
	svc.Refresh(context.Background())

	electronics := svc.ByCategory("ELECTRONICS")
	if len(electronics) != 3 {
		t.Fatalf("expected 3 electronics products, got %d", len(electronics))
	}
	for _, p := range electronics {
		if p.Category != "Electronics" {
			t.Fatalf("unexpected category %q", p.Category)
		}
	}
}

func TestSearchMatchesNameAndCategory(t *testing.T) {
	svc := newTestService(t, &stubStore{listErr: errors.New("down")})
	svc.Refresh(context.Background())

	byName := svc.Search("headphones")
	if len(byName) != 1 || byName[0].Name != "Wireless Bluetooth Headphones" {
		t.Fatalf("expected headphones match, got %+v", byName)
	}

	byCategory := svc.Search("fash")
	if len(byCategory) != 2 {
		t.Fatalf("expected 2 fashion matches, got %d", len(byCategory))
	}

	if got := svc.Search("no such product"); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}

func TestResolveFindsMirroredProduct(t *testing.T) {
	svc := newTestService(t, &stubStore{listErr: errors.New("down")})
	svc.Refresh(context.Background())

	seed := SeedProducts()[0]
	product, ok := svc.Resolve(seed.ID)
	if !ok {
		t.Fatal("expected seed product to resolve")
	}
	if product.Price != seed.Price {
		t.Fatalf("expected price %d, got %d", seed.Price, product.Price)
	}

	if _, ok := svc.Resolve(uuid.New()); ok {
		t.Fatal("expected unknown id to miss")
	}
}

func TestAddWritesThroughThenMirrors(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(t, store)

	product, err := svc.Add(context.Background(), AddProductInput{
		Name:     "Espresso Machine",
		Category: "Home & Furniture",
		Price:    950,
		SellerID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("add product: %v", err)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected 1 remote insert, got %d", len(store.inserted))
	}
	if _, ok := svc.Resolve(product.ID); !ok {
		t.Fatal("expected new product in mirror")
	}
}

func TestAddRemoteFailureLeavesMirrorUntouched(t *testing.T) {
	store := &stubStore{insertErr: errors.New("write refused")}
	svc := newTestService(t, store)
	svc.Refresh(context.Background())
	before := len(svc.All())

	_, err := svc.Add(context.Background(), AddProductInput{
		Name:     "Espresso Machine",
		Category: "Home & Furniture",
		Price:    950,
		SellerID: uuid.New(),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if len(svc.All()) != before {
		t.Fatalf("mirror changed after failed write: %d -> %d", before, len(svc.All()))
	}
}

func TestAddValidatesInput(t *testing.T) {
	svc := newTestService(t, &stubStore{})

	_, err := svc.Add(context.Background(), AddProductInput{Category: "Electronics", SellerID: uuid.New()})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing name, got %v", err)
	}

	_, err = svc.Add(context.Background(), AddProductInput{Name: "X", Category: "Electronics", Price: -1, SellerID: uuid.New()})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}
}

func TestUpdateSwapsMirrorRow(t *testing.T) {
	row := models.Product{ID: uuid.New(), Name: "Old Name", Category: "Electronics", Price: 100}
	store := &stubStore{rows: []models.Product{row}}
	svc := newTestService(t, store)
	svc.Refresh(context.Background())

	name := "New Name"
	updated, err := svc.Update(context.Background(), row.ID, UpdateProductInput{Name: &name})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if updated.Name != "New Name" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}

	mirrored, ok := svc.Resolve(row.ID)
	if !ok || mirrored.Name != "New Name" {
		t.Fatalf("expected mirror to hold updated row, got %+v", mirrored)
	}
}

func TestUpdateUnknownProductNotFound(t *testing.T) {
	svc := newTestService(t, &stubStore{})

	name := "New Name"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateProductInput{Name: &name})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateRequiresChanges(t *testing.T) {
	svc := newTestService(t, &stubStore{})

	_, err := svc.Update(context.Background(), uuid.New(), UpdateProductInput{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRemoveDropsMirrorRow(t *testing.T) {
	row := models.Product{ID: uuid.New(), Name: "Doomed", Category: "Electronics", Price: 10}
	store := &stubStore{rows: []models.Product{row}}
	svc := newTestService(t, store)
	svc.Refresh(context.Background())

	if err := svc.Remove(context.Background(), row.ID); err != nil {
		t.Fatalf("remove product: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != row.ID {
		t.Fatalf("expected remote delete of %s, got %v", row.ID, store.deleted)
	}
	if _, ok := svc.Resolve(row.ID); ok {
		t.Fatal("expected product gone from mirror")
	}
}

func TestRemoveRemoteFailureKeepsMirrorRow(t *testing.T) {
	row := models.Product{ID: uuid.New(), Name: "Sticky", Category: "Electronics", Price: 10}
	store := &stubStore{rows: []models.Product{row}}
	svc := newTestService(t, store)
	svc.Refresh(context.Background())

	store.deleteErr = errors.New("write refused")
	if err := svc.Remove(context.Background(), row.ID); err == nil {
		t.Fatal("expected error")
	}
	if _, ok := svc.Resolve(row.ID); !ok {
		t.Fatal("expected mirror row preserved after failed delete")
	}
}

func TestSellerProductsDegradesToEmpty(t *testing.T) {
	svc := newTestService(t, &stubStore{sellerErr: errors.New("read refused")})

	if got := svc.SellerProducts(context.Background(), uuid.New()); len(got) != 0 {
		t.Fatalf("expected empty slice, got %d products", len(got))
	}
}

func TestSellerProductsReadsRemote(t *testing.T) {
	sellerID := uuid.New()
	store := &stubStore{sellerRows: []models.Product{
		{ID: uuid.New(), Name: "Listing", Category: "Fashion", Price: 50, SellerID: sellerID},
	}}
	svc := newTestService(t, store)

	got := svc.SellerProducts(context.Background(), sellerID)
	if len(got) != 1 || got[0].Name != "Listing" {
		t.Fatalf("expected seller listing, got %+v", got)
	}
}
