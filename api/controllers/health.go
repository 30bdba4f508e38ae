package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/shopstack-labs/shopstack-backend/api/responses"
	pkgerrors "github.com/shopstack-labs/shopstack-backend/pkg/errors"
	"github.com/shopstack-labs/shopstack-backend/pkg/logger"
)

type pinger interface {
	Ping(context.Context) error
}

const readinessTimeout = 2 * time.Second

// HealthLive reports process liveness.
func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, "live", map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness by pinging the datastore and cache.
func HealthReady(database, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if database != nil {
			if err := database.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db ping"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis ping"))
				return
			}
		}

		responses.WriteSuccess(w, "ready", map[string]string{"status": "ready"})
	}
}
