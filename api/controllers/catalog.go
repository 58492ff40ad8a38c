package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oakmart/storefront-backend/api/responses"
	"github.com/oakmart/storefront-backend/api/validators"
	catalogsvc "github.com/oakmart/storefront-backend/internal/catalog"
	pkgerrors "github.com/oakmart/storefront-backend/pkg/errors"
	"github.com/oakmart/storefront-backend/pkg/logger"
)

// CatalogList serves the mirrored catalog. Optional query params narrow the
// result: ?q= searches name and category, ?category= filters by category.
func CatalogList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
			responses.WriteSuccess(w, svc.Search(q))
			return
		}
		if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
			responses.WriteSuccess(w, svc.ByCategory(category))
			return
		}
		responses.WriteSuccess(w, svc.All())
	}
}

// CatalogDetail resolves a single product from the mirror.
func CatalogDetail(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, ok := svc.Resolve(id)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// CatalogRefresh reloads the mirror from the remote store.
func CatalogRefresh(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Refresh(r.Context()))
	}
}

// SellerListProducts returns the caller's own listings.
func SellerListProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.SellerProducts(r.Context(), uid))
	}
}

type createProductRequest struct {
	Name         string  `json:"name" validate:"required,max=200"`
	Category     string  `json:"category" validate:"required,max=100"`
	Price        int     `json:"price" validate:"min=0"`
	Rating       float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	ReviewsCount int     `json:"reviews_count" validate:"omitempty,min=0"`
	ImageURL     string  `json:"image_url" validate:"omitempty,url"`
	Badge        string  `json:"badge" validate:"omitempty,max=50"`
}

// SellerCreateProduct adds a listing owned by the caller.
func SellerCreateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Add(r.Context(), catalogsvc.AddProductInput{
			Name:         payload.Name,
			Category:     payload.Category,
			Price:        payload.Price,
			Rating:       payload.Rating,
			ReviewsCount: payload.ReviewsCount,
			ImageURL:     payload.ImageURL,
			Badge:        payload.Badge,
			SellerID:     uid,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	Name         *string  `json:"name" validate:"omitempty,max=200"`
	Category     *string  `json:"category" validate:"omitempty,max=100"`
	Price        *int     `json:"price" validate:"omitempty,min=0"`
	Rating       *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	ReviewsCount *int     `json:"reviews_count" validate:"omitempty,min=0"`
	ImageURL     *string  `json:"image_url" validate:"omitempty,url"`
	Badge        *string  `json:"badge" validate:"omitempty,max=50"`
}

// SellerUpdateProduct patches a listing owned by the caller.
func SellerUpdateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		if err := requireOwnership(svc, id, uid); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, catalogsvc.UpdateProductInput{
			Name:         payload.Name,
			Category:     payload.Category,
			Price:        payload.Price,
			Rating:       payload.Rating,
			ReviewsCount: payload.ReviewsCount,
			ImageURL:     payload.ImageURL,
			Badge:        payload.Badge,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// SellerDeleteProduct removes a listing owned by the caller.
func SellerDeleteProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		if err := requireOwnership(svc, id, uid); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Remove(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// requireOwnership checks the mirror before touching the remote store. A
// product absent from the mirror falls through; the remote decides then.
func requireOwnership(svc catalogsvc.Service, productID, sellerID uuid.UUID) error {
	product, ok := svc.Resolve(productID)
	if !ok {
		return nil
	}
	if product.SellerID != sellerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "listing belongs to another seller")
	}
	return nil
}
