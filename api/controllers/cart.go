package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oakmart/storefront-backend/api/responses"
	"github.com/oakmart/storefront-backend/api/validators"
	cartsvc "github.com/oakmart/storefront-backend/internal/cart"
	pkgerrors "github.com/oakmart/storefront-backend/pkg/errors"
	"github.com/oakmart/storefront-backend/pkg/logger"
)

type cartSnapshot struct {
	Items []cartsvc.ItemWithProduct `json:"items"`
	Total int                       `json:"total"`
	Count int                       `json:"count"`
}

// CartFetch reloads the caller's mirror from the remote store and returns
// the enriched snapshot.
func CartFetch(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rec := manager.ForUser(uid)
		rec.Load(r.Context())

		responses.WriteSuccess(w, cartSnapshot{
			Items: rec.ItemsWithProducts(),
			Total: rec.Total(),
			Count: rec.Count(),
		})
	}
}

type addCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,min=1"`
}

// CartAdd merges the quantity into the caller's cart.
func CartAdd(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Quantity == 0 {
			payload.Quantity = 1
		}

		item, err := manager.ForUser(uid).Add(r.Context(), payload.ProductID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartUpdateItem sets a row's quantity; zero or less removes it.
func CartUpdateItem(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart item id"))
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := manager.ForUser(uid).Update(r.Context(), itemID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if item == nil {
			responses.WriteSuccess(w, map[string]string{"status": "removed"})
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// CartIncrementItem raises a row's quantity by one.
func CartIncrementItem(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return cartStepHandler(manager, logg, func(rec *cartsvc.Reconciler, r *http.Request, itemID uuid.UUID) (any, error) {
		item, err := rec.Increment(r.Context(), itemID)
		if err != nil {
			return nil, err
		}
		return item, nil
	})
}

// CartDecrementItem lowers a row's quantity by one; zero removes the row.
func CartDecrementItem(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return cartStepHandler(manager, logg, func(rec *cartsvc.Reconciler, r *http.Request, itemID uuid.UUID) (any, error) {
		item, err := rec.Decrement(r.Context(), itemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return map[string]string{"status": "removed"}, nil
		}
		return item, nil
	})
}

func cartStepHandler(
	manager *cartsvc.Manager,
	logg *logger.Logger,
	step func(rec *cartsvc.Reconciler, r *http.Request, itemID uuid.UUID) (any, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart item id"))
			return
		}

		result, err := step(manager.ForUser(uid), r, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// CartRemoveItem deletes a row from the caller's cart.
func CartRemoveItem(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart item id"))
			return
		}

		if err := manager.ForUser(uid).Remove(r.Context(), itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

// CartClear empties the caller's cart.
func CartClear(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := manager.ForUser(uid).Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
