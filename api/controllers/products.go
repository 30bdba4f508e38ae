package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/shopstack-labs/shopstack-backend/api/responses"
	"github.com/shopstack-labs/shopstack-backend/api/validators"
	"github.com/shopstack-labs/shopstack-backend/internal/products"
	pkgerrors "github.com/shopstack-labs/shopstack-backend/pkg/errors"
	"github.com/shopstack-labs/shopstack-backend/pkg/enums"
	"github.com/shopstack-labs/shopstack-backend/pkg/logger"
)

type productPayload struct {
	Name          string          `json:"name" validate:"required,min=1,max=160"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	StockStatus   string          `json:"stock_status"`
	Quantity      int             `json:"quantity"`
	UnitID        string          `json:"unit_id" validate:"required,uuid4"`
	CategoryID    string          `json:"category_id" validate:"required,uuid4"`
}

type productUpdatePayload struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=160"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	StockStatus   *string          `json:"stock_status"`
	Quantity      *int             `json:"quantity"`
	UnitID        *string          `json:"unit_id" validate:"omitempty,uuid4"`
	CategoryID    *string          `json:"category_id" validate:"omitempty,uuid4"`
}

// ProductsCreate records a new catalog product for the owner.
func ProductsCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		owner, err := ownerID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body productPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Create(ctx, owner, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "Product created", dto)
	}
}

// ProductsList returns a page of the owner's products.
func ProductsList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
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

		responses.WriteSuccess(w, "Fetched products", result)
	}
}

// ProductsGet returns one product by id.
func ProductsGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		owner, err := ownerID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		id, err := validators.ParseUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Get(ctx, owner, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Fetched product", dto)
	}
}

// ProductsUpdate mutates a product's fields.
func ProductsUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		owner, err := ownerID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		id, err := validators.ParseUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body productUpdatePayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Update(ctx, owner, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Product updated", dto)
	}
}

// ProductsDelete removes a product.
func ProductsDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		owner, err := ownerID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		id, err := validators.ParseUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, owner, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Product deleted", nil)
	}
}

func (p productPayload) toInput() (products.CreateProductInput, error) {
	unitID, err := validators.ParseUUID(p.UnitID, "unit_id")
	if err != nil {
		return products.CreateProductInput{}, err
	}
	categoryID, err := validators.ParseUUID(p.CategoryID, "category_id")
	if err != nil {
		return products.CreateProductInput{}, err
	}

	var status enums.StockStatus
	if p.StockStatus != "" {
		status, err = enums.ParseStockStatus(p.StockStatus)
		if err != nil {
			return products.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stock status")
		}
	}

	return products.CreateProductInput{
		Name:          p.Name,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		StockStatus:   status,
		Quantity:      p.Quantity,
		UnitID:        unitID,
		CategoryID:    categoryID,
	}, nil
}

func (p productUpdatePayload) toInput() (products.UpdateProductInput, error) {
	input := products.UpdateProductInput{
		Name:          p.Name,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		Quantity:      p.Quantity,
	}

	if p.StockStatus != nil {
		status, err := enums.ParseStockStatus(*p.StockStatus)
		if err != nil {
			return products.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stock status")
		}
		input.StockStatus = &status
	}
	if p.UnitID != nil {
		unitID, err := validators.ParseUUID(*p.UnitID, "unit_id")
		if err != nil {
			return products.UpdateProductInput{}, err
		}
		input.UnitID = &unitID
	}
	if p.CategoryID != nil {
		categoryID, err := validators.ParseUUID(*p.CategoryID, "category_id")
		if err != nil {
			return products.UpdateProductInput{}, err
		}
		input.CategoryID = &categoryID
	}

	return input, nil
}
