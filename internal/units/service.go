package units

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopstack-labs/shopstack-backend/pkg/db"
	"github.com/shopstack-labs/shopstack-backend/pkg/db/models"
	pkgerrors "github.com/shopstack-labs/shopstack-backend/pkg/errors"
	"github.com/shopstack-labs/shopstack-backend/pkg/pagination"
)

// Service exposes unit management operations scoped to one owner.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateUnitInput) (*UnitDTO, error)
	Get(ctx context.Context, ownerID, unitID uuid.UUID) (*UnitDTO, error)
	List(ctx context.Context, ownerID uuid.UUID, search string, params pagination.Params) (*ListResult, error)
	Update(ctx context.Context, ownerID, unitID uuid.UUID, input UpdateUnitInput) (*UnitDTO, error)
	Delete(ctx context.Context, ownerID, unitID uuid.UUID) (*DeleteResult, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a unit service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("unit repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateUnitInput) (*UnitDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	unit, err := s.repo.Create(ctx, &models.Unit{
		Name:    name,
		OwnerID: ownerID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert unit")
	}
	return FromModel(unit), nil
}

func (s *service) Get(ctx context.Context, ownerID, unitID uuid.UUID) (*UnitDTO, error) {
	unit, err := s.load(ctx, ownerID, unitID)
	if err != nil {
		return nil, err
	}
	return FromModel(unit), nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID, search string, params pagination.Params) (*ListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, ownerID, search, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list units")
	}

	items := make([]UnitDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return &ListResult{Items: items, NextCursor: nextCursor}, nil
}

func (s *service) Update(ctx context.Context, ownerID, unitID uuid.UUID, input UpdateUnitInput) (*UnitDTO, error) {
	unit, err := s.load(ctx, ownerID, unitID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		unit.Name = name
	}

	updated, err := s.repo.Update(ctx, unit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update unit")
	}
	return FromModel(updated), nil
}

// Delete removes the unit together with every product quoted in it. Both
// deletes run in one transaction so a failure leaves the catalog untouched.
func (s *service) Delete(ctx context.Context, ownerID, unitID uuid.UUID) (*DeleteResult, error) {
	if _, err := s.load(ctx, ownerID, unitID); err != nil {
		return nil, err
	}

	var deletedProducts int64
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		count, err := txRepo.DeleteDependentProducts(ctx, ownerID, unitID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete dependent products")
		}
		deletedProducts = count

		if err := txRepo.Delete(ctx, ownerID, unitID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete unit")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete unit")
	}

	return &DeleteResult{DeletedProducts: deletedProducts}, nil
}

func (s *service) load(ctx context.Context, ownerID, unitID uuid.UUID) (*models.Unit, error) {
	unit, err := s.repo.FindByID(ctx, ownerID, unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unit not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load unit")
	}
	return unit, nil
}
