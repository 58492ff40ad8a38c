package controllers

import (
	"net/http"
	"strings"

	"github.com/oakmart/storefront-backend/api/middleware"
	"github.com/oakmart/storefront-backend/api/responses"
	"github.com/oakmart/storefront-backend/api/validators"
	authsvc "github.com/oakmart/storefront-backend/internal/auth"
	pkgAuth "github.com/oakmart/storefront-backend/pkg/auth"
	"github.com/oakmart/storefront-backend/pkg/config"
	pkgerrors "github.com/oakmart/storefront-backend/pkg/errors"
	"github.com/oakmart/storefront-backend/pkg/logger"
)

// AuthSignUp handles account creation.
func AuthSignUp(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload authsvc.SignUpRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.SignUp(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

// AuthSignIn handles password login.
func AuthSignIn(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload authsvc.SignInRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.SignIn(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, resp)
	}
}

// AuthSignOut revokes the caller's session.
func AuthSignOut(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessID := middleware.AccessIDFromContext(r.Context())
		if err := svc.SignOut(r.Context(), accessID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "signed out"})
	}
}

// AuthRefresh rotates the refresh token tied to the presented access token.
// The access token may be expired; only its signature and jti are used.
func AuthRefresh(svc authsvc.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		claims, err := pkgAuth.ParseAccessTokenAllowExpired(jwtCfg, token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
			return
		}

		var payload authsvc.RefreshRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Refresh(r.Context(), claims, payload.RefreshToken)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, resp)
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
