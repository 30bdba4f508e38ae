package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/shopstack-labs/shopstack-backend/api/responses"
	"github.com/shopstack-labs/shopstack-backend/api/validators"
	"github.com/shopstack-labs/shopstack-backend/internal/sales"
	pkgerrors "github.com/shopstack-labs/shopstack-backend/pkg/errors"
	"github.com/shopstack-labs/shopstack-backend/pkg/enums"
	"github.com/shopstack-labs/shopstack-backend/pkg/logger"
)

type saleItemPayload struct {
	ProductID string          `json:"product_id" validate:"required,uuid4"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	UnitID    string          `json:"unit_id" validate:"required,uuid4"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

type salePayload struct {
	CustomerName   string            `json:"customer_name" validate:"required,min=1,max=160"`
	CustomerPhone  string            `json:"customer_phone" validate:"required,min=3,max=32"`
	CustomerGender string            `json:"customer_gender" validate:"required"`
	PaymentMethod  string            `json:"payment_method" validate:"required"`
	TotalAmount    decimal.Decimal   `json:"total_amount"`
	SaleDate       time.Time         `json:"sale_date" validate:"required"`
	Items          []saleItemPayload `json:"items" validate:"required,min=1,dive"`
}

type saleUpdatePayload struct {
	CustomerName   *string            `json:"customer_name" validate:"omitempty,min=1,max=160"`
	CustomerPhone  *string            `json:"customer_phone" validate:"omitempty,min=3,max=32"`
	CustomerGender *string            `json:"customer_gender"`
	PaymentMethod  *string            `json:"payment_method"`
	TotalAmount    *decimal.Decimal   `json:"total_amount"`
	SaleDate       *time.Time         `json:"sale_date"`
	Items          *[]saleItemPayload `json:"items" validate:"omitempty,min=1,dive"`
}

// SalesCreate records a new sale with its line items.
func SalesCreate(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		owner, err := ownerID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body salePayload
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

		responses.WriteSuccessStatus(w, http.StatusCreated, "Sale recorded", dto)
	}
}

// SalesList returns a page of the owner's sales with optional filters.
func SalesList(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
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

		filters := sales.ListFilters{
			Search: validators.ParseQueryString(r, "search", searchMaxLen),
		}
		if filters.DateFrom, err = parseDateQuery(r, "date_from"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if filters.DateTo, err = parseDateQuery(r, "date_to"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.List(ctx, owner, filters, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Fetched sales", result)
	}
}

// SalesGet returns one sale with its line items.
func SalesGet(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		owner, err := ownerID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		id, err := validators.ParseUUID(chi.URLParam(r, "saleId"), "saleId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Get(ctx, owner, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Fetched sale", dto)
	}
}

// SalesUpdate mutates a sale's fields. A non-nil items array replaces the
// line items wholesale.
func SalesUpdate(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		owner, err := ownerID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		id, err := validators.ParseUUID(chi.URLParam(r, "saleId"), "saleId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body saleUpdatePayload
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

		responses.WriteSuccess(w, "Sale updated", dto)
	}
}

// SalesDelete removes a sale and its line items.
func SalesDelete(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		owner, err := ownerID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		id, err := validators.ParseUUID(chi.URLParam(r, "saleId"), "saleId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, owner, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Sale deleted", nil)
	}
}

func (p salePayload) toInput() (sales.CreateSaleInput, error) {
	gender, err := enums.ParseCustomerGender(p.CustomerGender)
	if err != nil {
		return sales.CreateSaleInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer gender")
	}
	method, err := enums.ParsePaymentMethod(p.PaymentMethod)
	if err != nil {
		return sales.CreateSaleInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
	}
	items, err := toItemInputs(p.Items)
	if err != nil {
		return sales.CreateSaleInput{}, err
	}

	return sales.CreateSaleInput{
		CustomerName:   p.CustomerName,
		CustomerPhone:  p.CustomerPhone,
		CustomerGender: gender,
		PaymentMethod:  method,
		TotalAmount:    p.TotalAmount,
		SaleDate:       p.SaleDate,
		Items:          items,
	}, nil
}

func (p saleUpdatePayload) toInput() (sales.UpdateSaleInput, error) {
	input := sales.UpdateSaleInput{
		CustomerName:  p.CustomerName,
		CustomerPhone: p.CustomerPhone,
		TotalAmount:   p.TotalAmount,
		SaleDate:      p.SaleDate,
	}

	if p.CustomerGender != nil {
		gender, err := enums.ParseCustomerGender(*p.CustomerGender)
		if err != nil {
			return sales.UpdateSaleInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer gender")
		}
		input.CustomerGender = &gender
	}
	if p.PaymentMethod != nil {
		method, err := enums.ParsePaymentMethod(*p.PaymentMethod)
		if err != nil {
			return sales.UpdateSaleInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
		}
		input.PaymentMethod = &method
	}
	if p.Items != nil {
		items, err := toItemInputs(*p.Items)
		if err != nil {
			return sales.UpdateSaleInput{}, err
		}
		input.Items = &items
	}

	return input, nil
}

func toItemInputs(payloads []saleItemPayload) ([]sales.SaleItemInput, error) {
	items := make([]sales.SaleItemInput, 0, len(payloads))
	for _, item := range payloads {
		productID, err := validators.ParseUUID(item.ProductID, "product_id")
		if err != nil {
			return nil, err
		}
		unitID, err := validators.ParseUUID(item.UnitID, "unit_id")
		if err != nil {
			return nil, err
		}
		items = append(items, sales.SaleItemInput{
			ProductID: productID,
			Quantity:  item.Quantity,
			UnitID:    unitID,
			SalePrice: item.SalePrice,
		})
	}
	return items, nil
}

func parseDateQuery(r *http.Request, key string) (*time.Time, error) {
	raw := validators.ParseQueryString(r, key, 40)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid date filter").WithDetails(map[string]any{"field": key})
}
