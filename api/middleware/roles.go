package middleware

import (
	"net/http"

	"github.com/oakmart/storefront-backend/api/responses"
	pkgerrors "github.com/oakmart/storefront-backend/pkg/errors"
	"github.com/oakmart/storefront-backend/pkg/logger"
)

// RequireSeller rejects requests from accounts without the seller flag.
func RequireSeller(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsSellerFromContext(r.Context()) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "seller account required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
