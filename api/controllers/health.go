package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/foodsupplychain/procurement/api/responses"
	"github.com/foodsupplychain/procurement/pkg/config"
	pkgerrors "github.com/foodsupplychain/procurement/pkg/errors"
	"github.com/foodsupplychain/procurement/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is implemented by dependencies checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Procurement-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings redis when it is configured; a nil pinger is always ready.
func HealthReady(cfg *config.Config, redis Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Procurement-Env", cfg.App.Env)
		checks := map[string]string{"redis": "disabled"}
		if redis != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
			defer cancel()
			if err := redis.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable").WithDetails(map[string]string{"redis": "down"}))
				return
			}
			checks["redis"] = "ok"
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
