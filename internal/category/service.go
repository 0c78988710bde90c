package category

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/finance-tracker/internal"
	categoryDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/category"
)

var (
	ErrCategoryNotFound  = internal.NewNotFoundError("category not found", internal.ErrCodeCategoryNotFound)
	ErrDuplicateCategory = internal.NewConflictError("category name already exists", internal.ErrCodeDuplicateCategory)
	ErrCategoryInUse     = internal.NewConflictError("category is referenced by expenses or budgets", internal.ErrCodeCategoryInUse)
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*categoryDatamodel.Category, error)
	GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error)
	GetByName(ctx context.Context, name string) (*categoryDatamodel.Category, error)
	Create(ctx context.Context, category *categoryDatamodel.Category) error
	Update(ctx context.Context, category *categoryDatamodel.Category) error
	Delete(ctx context.Context, id int64) error
	IsInUse(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAll(ctx context.Context) ([]*Category, error) {
	dataCategories, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return nil, internal.NewInternalError("failed to get categories", err)
	}

	categories := make([]*Category, 0, len(dataCategories))
	for _, dataCategory := range dataCategories {
		categories = append(categories, FromDataModel(dataCategory))
	}
	return categories, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Category, error) {
	dataCategory, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get category", err)
	}
	if dataCategory == nil {
		return nil, ErrCategoryNotFound
	}
	return FromDataModel(dataCategory), nil
}

// Exists is used by other modules to validate category references.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	dataCategory, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("lookup category %d: %w", id, err)
	}
	return dataCategory != nil, nil
}

func (s *Service) Create(ctx context.Context, dto CategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	cat := NewCategory(dto.Name)
	if err := s.ensureUniqueName(ctx, cat.Name, 0); err != nil {
		return nil, err
	}

	dataCategory := ToDataModel(cat)
	if err := s.repo.Create(ctx, dataCategory); err != nil {
		s.logger.Error("failed to create category", "name", cat.Name, "error", err)
		return nil, internal.NewInternalError("failed to create category", err)
	}

	s.logger.Info("category created", "category_id", dataCategory.ID, "name", dataCategory.Name)
	return FromDataModel(dataCategory), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto CategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = NewCategory(dto.Name).Name
	if err := s.ensureUniqueName(ctx, existing.Name, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, ToDataModel(existing)); err != nil {
		s.logger.Error("failed to update category", "category_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update category", err)
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	inUse, err := s.repo.IsInUse(ctx, id)
	if err != nil {
		return internal.NewInternalError("failed to check category usage", err)
	}
	if inUse {
		return ErrCategoryInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete category", "category_id", id, "error", err)
		return internal.NewInternalError("failed to delete category", err)
	}

	s.logger.Info("category deleted", "category_id", id)
	return nil
}

func (s *Service) ensureUniqueName(ctx context.Context, name string, selfID int64) error {
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return internal.NewInternalError("failed to check category name", err)
	}
	if existing != nil && existing.ID != selfID {
		return ErrDuplicateCategory
	}
	return nil
}
