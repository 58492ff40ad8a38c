package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/oakmart/storefront-backend/api/middleware"
	"github.com/oakmart/storefront-backend/api/responses"
	"github.com/oakmart/storefront-backend/api/validators"
	authsvc "github.com/oakmart/storefront-backend/internal/auth"
	pkgerrors "github.com/oakmart/storefront-backend/pkg/errors"
	"github.com/oakmart/storefront-backend/pkg/logger"
)

// ProfileMe returns the caller's profile.
func ProfileMe(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Profile(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

// ProfileUpdateSellerStatus flips the caller's seller flag.
func ProfileUpdateSellerStatus(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload authsvc.UpdateSellerStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.UpdateSellerStatus(r.Context(), uid, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

func currentUserID(r *http.Request) (uuid.UUID, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return uid, nil
}
