package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopstack-labs/shopstack-backend/api/responses"
	"github.com/shopstack-labs/shopstack-backend/internal/stats"
	pkgerrors "github.com/shopstack-labs/shopstack-backend/pkg/errors"
	"github.com/shopstack-labs/shopstack-backend/pkg/enums"
	"github.com/shopstack-labs/shopstack-backend/pkg/logger"
)

// StatsAll returns lifetime totals, or a month summary with period-over-period
// deltas when lastMonth is supplied.
func StatsAll(svc stats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stats service unavailable"))
			return
		}

		owner, err := ownerID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		raw := strings.TrimSpace(r.URL.Query().Get("lastMonth"))
		if raw == "" {
			summary, err := svc.LifetimeSummary(ctx, owner)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			responses.WriteSuccess(w, "Fetched summary", summary)
			return
		}

		periodsAgo, err := strconv.Atoi(raw)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "lastMonth must be an integer"))
			return
		}

		summary, err := svc.MonthSummary(ctx, owner, periodsAgo)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Fetched summary", summary)
	}
}

// StatsPieChart returns customer gender and payment method count maps.
func StatsPieChart(svc stats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stats service unavailable"))
			return
		}

		owner, err := ownerID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ratios, err := svc.CategoricalRatios(ctx, owner)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Fetched ratios", ratios)
	}
}

// StatsLineChart returns the time-bucketed revenue series for a date range.
func StatsLineChart(svc stats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stats service unavailable"))
			return
		}

		owner, err := ownerID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dateRange := enums.DateRangeThisWeek
		if raw := strings.TrimSpace(r.URL.Query().Get("range")); raw != "" {
			dateRange = enums.DateRange(raw)
		}

		series, err := svc.RevenueSeries(ctx, owner, dateRange)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Fetched revenue series", series)
	}
}
