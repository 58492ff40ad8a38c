package controllers

import (
	"net/http"

	"github.com/oakmart/storefront-backend/api/responses"
	"github.com/oakmart/storefront-backend/pkg/config"
	"github.com/oakmart/storefront-backend/pkg/db"
	"github.com/oakmart/storefront-backend/pkg/logger"
	"github.com/oakmart/storefront-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		checks := map[string]string{
			"db":    "ok",
			"redis": "ok",
		}
		healthy := true

		if dbP == nil {
			checks["db"] = "not configured"
			healthy = false
		} else if err := dbP.Ping(r.Context()); err != nil {
			checks["db"] = err.Error()
			healthy = false
		}

		if redisP == nil {
			checks["redis"] = "not configured"
			healthy = false
		} else if err := redisP.Ping(r.Context()); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}

		if !healthy {
			if logg != nil {
				ctx := logg.WithFields(r.Context(), map[string]any{"checks": checks})
				logg.Warn(ctx, "readiness check failed")
			}
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded", "checks": checks})
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
