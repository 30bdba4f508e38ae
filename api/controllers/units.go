package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopstack-labs/shopstack-backend/api/responses"
	"github.com/shopstack-labs/shopstack-backend/api/validators"
	"github.com/shopstack-labs/shopstack-backend/internal/units"
	pkgerrors "github.com/shopstack-labs/shopstack-backend/pkg/errors"
	"github.com/shopstack-labs/shopstack-backend/pkg/logger"
)

type unitPayload struct {
	Name string `json:"name" validate:"required,min=1,max=60"`
}

type unitUpdatePayload struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=60"`
}

// UnitsCreate records a new measurement unit for the owner.
func UnitsCreate(svc units.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "units service unavailable"))
			return
		}

		owner, err := ownerID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body unitPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Create(ctx, owner, units.CreateUnitInput{Name: body.Name})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "Unit created", dto)
	}
}

// UnitsList returns a page of the owner's units.
func UnitsList(svc units.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "units service unavailable"))
			return
		}

		owner, err := ownerID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		params, err := listParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		search := validators.ParseQueryString(r, "search", searchMaxLen)

		result, err := svc.List(ctx, owner, search, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Fetched units", result)
	}
}

// UnitsGet returns one unit by id.
func UnitsGet(svc units.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "units service unavailable"))
			return
		}

		owner, err := ownerID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		id, err := validators.ParseUUID(chi.URLParam(r, "unitId"), "unitId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Get(ctx, owner, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Fetched unit", dto)
	}
}

// UnitsUpdate mutates a unit's fields.
func UnitsUpdate(svc units.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "units service unavailable"))
			return
		}

		owner, err := ownerID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		id, err := validators.ParseUUID(chi.URLParam(r, "unitId"), "unitId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body unitUpdatePayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Update(ctx, owner, id, units.UpdateUnitInput{Name: body.Name})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Unit updated", dto)
	}
}

// UnitsDelete removes a unit and cascades to its dependent products.
func UnitsDelete(svc units.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "units service unavailable"))
			return
		}

		owner, err := ownerID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		id, err := validators.ParseUUID(chi.URLParam(r, "unitId"), "unitId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Delete(ctx, owner, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Unit deleted", result)
	}
}
