package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopstack-labs/shopstack-backend/pkg/db/models"
	pkgerrors "github.com/shopstack-labs/shopstack-backend/pkg/errors"
	"github.com/shopstack-labs/shopstack-backend/pkg/pagination"
)

// Service exposes category management operations scoped to one owner.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateCategoryInput) (*CategoryDTO, error)
	Get(ctx context.Context, ownerID, categoryID uuid.UUID) (*CategoryDTO, error)
	List(ctx context.Context, ownerID uuid.UUID, search string, params pagination.Params) (*ListResult, error)
	Update(ctx context.Context, ownerID, categoryID uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	Delete(ctx context.Context, ownerID, categoryID uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService constructs a category service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	category, err := s.repo.Create(ctx, &models.Category{
		Name:    name,
		OwnerID: ownerID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}
	return FromModel(category), nil
}

func (s *service) Get(ctx context.Context, ownerID, categoryID uuid.UUID) (*CategoryDTO, error) {
	category, err := s.load(ctx, ownerID, categoryID)
	if err != nil {
		return nil, err
	}
	return FromModel(category), nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID, search string, params pagination.Params) (*ListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, ownerID, search, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}

	items := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return &ListResult{Items: items, NextCursor: nextCursor}, nil
}

func (s *service) Update(ctx context.Context, ownerID, categoryID uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	category, err := s.load(ctx, ownerID, categoryID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		category.Name = name
	}

	updated, err := s.repo.Update(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update category")
	}
	return FromModel(updated), nil
}

// Delete refuses to remove a category that still has products so listings
// never end up pointing at a missing category.
func (s *service) Delete(ctx context.Context, ownerID, categoryID uuid.UUID) error {
	if _, err := s.load(ctx, ownerID, categoryID); err != nil {
		return err
	}

	inUse, err := s.repo.CountProducts(ctx, ownerID, categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count category products")
	}
	if inUse > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category still has products")
	}

	if err := s.repo.Delete(ctx, ownerID, categoryID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete category")
	}
	return nil
}

func (s *service) load(ctx context.Context, ownerID, categoryID uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, ownerID, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}
	return category, nil
}
