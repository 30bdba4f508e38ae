package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopstack-labs/shopstack-backend/api/responses"
	"github.com/shopstack-labs/shopstack-backend/api/validators"
	"github.com/shopstack-labs/shopstack-backend/internal/categories"
	pkgerrors "github.com/shopstack-labs/shopstack-backend/pkg/errors"
	"github.com/shopstack-labs/shopstack-backend/pkg/logger"
)

type categoryPayload struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

type categoryUpdatePayload struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=120"`
}

// CategoriesCreate records a new category for the owner.
func CategoriesCreate(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "categories service unavailable"))
			return
		}

		owner, err := ownerID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body categoryPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Create(ctx, owner, categories.CreateCategoryInput{Name: body.Name})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "Category created", dto)
	}
}

// CategoriesList returns a page of the owner's categories.
func CategoriesList(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "categories service unavailable"))
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

		responses.WriteSuccess(w, "Fetched categories", result)
	}
}

// CategoriesGet returns one category by id.
func CategoriesGet(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "categories service unavailable"))
			return
		}

		owner, err := ownerID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		id, err := validators.ParseUUID(chi.URLParam(r, "categoryId"), "categoryId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Get(ctx, owner, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Fetched category", dto)
	}
}

// CategoriesUpdate mutates a category's fields.
func CategoriesUpdate(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "categories service unavailable"))
			return
		}

		owner, err := ownerID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		id, err := validators.ParseUUID(chi.URLParam(r, "categoryId"), "categoryId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body categoryUpdatePayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Update(ctx, owner, id, categories.UpdateCategoryInput{Name: body.Name})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Category updated", dto)
	}
}

// CategoriesDelete removes a category with no product references.
func CategoriesDelete(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "categories service unavailable"))
			return
		}

		owner, err := ownerID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		id, err := validators.ParseUUID(chi.URLParam(r, "categoryId"), "categoryId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, owner, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Category deleted", nil)
	}
}
