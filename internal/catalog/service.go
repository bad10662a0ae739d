package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/raidhaan/pos-backend/pkg/db/models"
	pkgerrors "github.com/raidhaan/pos-backend/pkg/errors"
	"github.com/raidhaan/pos-backend/pkg/validate"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategoryInput is the create/update submission for a category.
type CategoryInput struct {
	Name string `json:"name" validate:"required"`
}

// ItemInput is the create/update submission for a catalog item.
type ItemInput struct {
	Name       string          `json:"name" validate:"required"`
	Price      decimal.Decimal `json:"price"`
	CategoryID uint            `json:"category_id" validate:"required"`
}

// Service handles catalog administration: category and item CRUD.
type Service struct {
	repo Repository
}

// NewService builds a catalog service.
func NewService(repo Repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &Service{repo: repo}, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	category := &models.Category{Name: in.Name}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id uint, in CategoryInput) error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	if _, err := s.repo.FindCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if err := s.repo.UpdateCategory(ctx, id, map[string]any{"name": in.Name}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return nil
}

// DeleteCategory refuses to remove a category that still has items; callers
// must move or delete the items first.
func (s *Service) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.repo.FindCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	count, err := s.repo.CountCategoryItems(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count category items")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "category still has items")
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func (s *Service) ListItems(ctx context.Context) ([]models.Item, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	return items, nil
}

func (s *Service) CreateItem(ctx context.Context, in ItemInput) (*models.Item, error) {
	if err := s.validateItem(ctx, in); err != nil {
		return nil, err
	}
	item := &models.Item{Name: in.Name, Price: in.Price, CategoryID: in.CategoryID}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
	}
	return item, nil
}

func (s *Service) UpdateItem(ctx context.Context, id uint, in ItemInput) error {
	if err := s.validateItem(ctx, in); err != nil {
		return err
	}
	if _, err := s.repo.FindItem(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	updates := map[string]any{
		"name":        in.Name,
		"price":       in.Price,
		"category_id": in.CategoryID,
	}
	if err := s.repo.UpdateItem(ctx, id, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
	}
	return nil
}

func (s *Service) DeleteItem(ctx context.Context, id uint) error {
	if _, err := s.repo.FindItem(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
	}
	return nil
}

func (s *Service) validateItem(ctx context.Context, in ItemInput) error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	if in.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"price": "must not be negative"})
	}
	if _, err := s.repo.FindCategory(ctx, in.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return nil
}
