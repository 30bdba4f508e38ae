package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopstack-labs/shopstack-backend/pkg/db/models"
	"github.com/shopstack-labs/shopstack-backend/pkg/enums"
	pkgerrors "github.com/shopstack-labs/shopstack-backend/pkg/errors"
	"github.com/shopstack-labs/shopstack-backend/pkg/pagination"
)

// Service exposes product management operations scoped to one owner.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	Get(ctx context.Context, ownerID, productID uuid.UUID) (*ProductDTO, error)
	List(ctx context.Context, ownerID uuid.UUID, search string, params pagination.Params) (*ListResult, error)
	Update(ctx context.Context, ownerID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, ownerID, productID uuid.UUID) error
}

type unitLoader interface {
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Unit, error)
}

type categoryLoader interface {
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Category, error)
}

type service struct {
	repo       *Repository
	units      unitLoader
	categories categoryLoader
}

// NewService constructs a product service instance.
func NewService(repo *Repository, units unitLoader, categories categoryLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if units == nil {
		return nil, fmt.Errorf("unit repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo, units: units, categories: categories}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.PurchasePrice.IsNegative() || input.SalePrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices cannot be negative")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	status := input.StockStatus
	if status == "" {
		status = enums.StockStatusInStock
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid stock status")
	}

	if err := s.ensureUnit(ctx, ownerID, input.UnitID); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, ownerID, input.CategoryID); err != nil {
		return nil, err
	}

	product, err := s.repo.Create(ctx, &models.Product{
		Name:          name,
		PurchasePrice: input.PurchasePrice,
		SalePrice:     input.SalePrice,
		StockStatus:   status,
		Quantity:      input.Quantity,
		UnitID:        input.UnitID,
		CategoryID:    input.CategoryID,
		OwnerID:       ownerID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return FromModel(product), nil
}

func (s *service) Get(ctx context.Context, ownerID, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.load(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID, search string, params pagination.Params) (*ListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, ownerID, search, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	items := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return &ListResult{Items: items, NextCursor: nextCursor}, nil
}

func (s *service) Update(ctx context.Context, ownerID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.load(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = name
	}
	if input.PurchasePrice != nil {
		if input.PurchasePrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase price cannot be negative")
		}
		product.PurchasePrice = *input.PurchasePrice
	}
	if input.SalePrice != nil {
		if input.SalePrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale price cannot be negative")
		}
		product.SalePrice = *input.SalePrice
	}
	if input.StockStatus != nil {
		if !input.StockStatus.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid stock status")
		}
		product.StockStatus = *input.StockStatus
	}
	if input.Quantity != nil {
		if *input.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
		product.Quantity = *input.Quantity
	}
	if input.UnitID != nil {
		if err := s.ensureUnit(ctx, ownerID, *input.UnitID); err != nil {
			return nil, err
		}
		product.UnitID = *input.UnitID
	}
	if input.CategoryID != nil {
		if err := s.ensureCategory(ctx, ownerID, *input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *input.CategoryID
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, ownerID, productID uuid.UUID) error {
	if _, err := s.load(ctx, ownerID, productID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, ownerID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

func (s *service) load(ctx context.Context, ownerID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, ownerID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return product, nil
}

// ensureUnit verifies the referenced unit exists and belongs to the owner.
func (s *service) ensureUnit(ctx context.Context, ownerID, unitID uuid.UUID) error {
	if _, err := s.units.FindByID(ctx, ownerID, unitID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "unit does not exist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load unit")
	}
	return nil
}

func (s *service) ensureCategory(ctx context.Context, ownerID, categoryID uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, ownerID, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}
	return nil
}
