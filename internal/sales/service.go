package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopstack-labs/shopstack-backend/pkg/db"
	"github.com/shopstack-labs/shopstack-backend/pkg/db/models"
	pkgerrors "github.com/shopstack-labs/shopstack-backend/pkg/errors"
	"github.com/shopstack-labs/shopstack-backend/pkg/pagination"
)

// Service exposes sale recording and querying scoped to one owner.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateSaleInput) (*SaleDTO, error)
	Get(ctx context.Context, ownerID, saleID uuid.UUID) (*SaleDTO, error)
	List(ctx context.Context, ownerID uuid.UUID, filters ListFilters, params pagination.Params) (*ListResult, error)
	Update(ctx context.Context, ownerID, saleID uuid.UUID, input UpdateSaleInput) (*SaleDTO, error)
	Delete(ctx context.Context, ownerID, saleID uuid.UUID) error
}

type productFinder interface {
	FindByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]models.Product, error)
}

type unitChecker interface {
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Unit, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	products productFinder
	units    unitChecker
}

// NewService constructs a sale service instance.
func NewService(repo *Repository, dbClient *db.Client, products productFinder, units unitChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sale repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if units == nil {
		return nil, fmt.Errorf("unit repository required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		products: products,
		units:    units,
	}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateSaleInput) (*SaleDTO, error) {
	if err := s.validateCreate(ctx, ownerID, input); err != nil {
		return nil, err
	}

	items := make([]models.SaleItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, models.SaleItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitID:    item.UnitID,
			SalePrice: item.SalePrice,
		})
	}

	sale, err := s.repo.Create(ctx, &models.Sale{
		CustomerName:   input.CustomerName,
		CustomerPhone:  input.CustomerPhone,
		CustomerGender: input.CustomerGender,
		PaymentMethod:  input.PaymentMethod,
		TotalAmount:    input.TotalAmount,
		SaleDate:       input.SaleDate.UTC(),
		OwnerID:        ownerID,
		Items:          items,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert sale")
	}
	return FromModel(sale), nil
}

func (s *service) Get(ctx context.Context, ownerID, saleID uuid.UUID) (*SaleDTO, error) {
	sale, err := s.load(ctx, ownerID, saleID)
	if err != nil {
		return nil, err
	}
	return FromModel(sale), nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID, filters ListFilters, params pagination.Params) (*ListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, ownerID, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list sales")
	}

	items := make([]SaleDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return &ListResult{Items: items, NextCursor: nextCursor}, nil
}

// Update mutates the sale header and, when provided, replaces the line items
// wholesale. Header and items change in one transaction.
func (s *service) Update(ctx context.Context, ownerID, saleID uuid.UUID, input UpdateSaleInput) (*SaleDTO, error) {
	sale, err := s.load(ctx, ownerID, saleID)
	if err != nil {
		return nil, err
	}

	if input.CustomerName != nil {
		sale.CustomerName = *input.CustomerName
	}
	if input.CustomerPhone != nil {
		sale.CustomerPhone = *input.CustomerPhone
	}
	if input.CustomerGender != nil {
		if !input.CustomerGender.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid customer gender")
		}
		sale.CustomerGender = *input.CustomerGender
	}
	if input.PaymentMethod != nil {
		if !input.PaymentMethod.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
		}
		sale.PaymentMethod = *input.PaymentMethod
	}
	if input.TotalAmount != nil {
		if input.TotalAmount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "total amount cannot be negative")
		}
		sale.TotalAmount = *input.TotalAmount
	}
	if input.SaleDate != nil {
		sale.SaleDate = input.SaleDate.UTC()
	}

	var newItems []models.SaleItem
	if input.Items != nil {
		if err := s.validateItems(ctx, ownerID, *input.Items); err != nil {
			return nil, err
		}
		newItems = make([]models.SaleItem, 0, len(*input.Items))
		for _, item := range *input.Items {
			newItems = append(newItems, models.SaleItem{
				SaleID:    sale.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitID:    item.UnitID,
				SalePrice: item.SalePrice,
			})
		}
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.Update(ctx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update sale")
		}
		if input.Items != nil {
			if err := txRepo.ReplaceItems(ctx, sale.ID, newItems); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace sale items")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update sale")
	}

	updated, err := s.load(ctx, ownerID, saleID)
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, ownerID, saleID uuid.UUID) error {
	if _, err := s.load(ctx, ownerID, saleID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, ownerID, saleID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete sale")
	}
	return nil
}

func (s *service) validateCreate(ctx context.Context, ownerID uuid.UUID, input CreateSaleInput) error {
	if input.TotalAmount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "total amount cannot be negative")
	}
	if !input.CustomerGender.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid customer gender")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if input.SaleDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale date is required")
	}
	return s.validateItems(ctx, ownerID, input.Items)
}

// validateItems checks quantity, price, and that referenced products and
// units belong to the owner.
func (s *service) validateItems(ctx context.Context, ownerID uuid.UUID, items []SaleItemInput) error {
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale requires at least one line item")
	}

	productIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "line item quantity must be at least 1")
		}
		if item.SalePrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "line item price cannot be negative")
		}
		productIDs = append(productIDs, item.ProductID)
	}

	found, err := s.products.FindByIDs(ctx, ownerID, productIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load products")
	}
	owned := make(map[uuid.UUID]struct{}, len(found))
	for _, product := range found {
		owned[product.ID] = struct{}{}
	}
	for _, item := range items {
		if _, ok := owned[item.ProductID]; !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "line item product does not exist")
		}
		if _, err := s.units.FindByID(ctx, ownerID, item.UnitID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "line item unit does not exist")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load unit")
		}
	}
	return nil
}

func (s *service) load(ctx context.Context, ownerID, saleID uuid.UUID) (*models.Sale, error) {
	sale, err := s.repo.FindByID(ctx, ownerID, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load sale")
	}
	return sale, nil
}
