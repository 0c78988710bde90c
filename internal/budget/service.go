package budget

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/accountstatus"
	budgetDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/budget"
	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
)

var (
	ErrBudgetNotFound  = internal.NewNotFoundError("budget not found", internal.ErrCodeBudgetNotFound)
	ErrDuplicateBudget = internal.NewConflictError("a budget for this category already exists", internal.ErrCodeDuplicateBudget)
	ErrUnknownCategory = internal.NewValidationFieldError("category_id", "category_id does not exist", internal.ErrCodeInvalidCategory)
)

type RepositoryAPI interface {
	ListByUser(ctx context.Context, userID int64) ([]*budgetDatamodel.Budget, error)
	GetByID(ctx context.Context, id int64) (*budgetDatamodel.Budget, error)
	GetByUserAndCategory(ctx context.Context, userID, categoryID int64) (*budgetDatamodel.Budget, error)
	Create(ctx context.Context, budget *budgetDatamodel.Budget) error
	Update(ctx context.Context, budget *budgetDatamodel.Budget) error
	Delete(ctx context.Context, id int64) error
}

// SpendReader sums expense-type amounts per category inside a window.
type SpendReader interface {
	SpendByCategory(ctx context.Context, userID int64, window accountstatus.Window) (map[int64]float64, error)
}

type CategoryChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo       RepositoryAPI
	spend      SpendReader
	categories CategoryChecker
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, spend SpendReader, categories CategoryChecker, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		spend:      spend,
		categories: categories,
		logger:     logger,
	}
}

func (s *Service) List(ctx context.Context, userID int64) ([]*Budget, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list budgets", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to list budgets", err)
	}

	budgets := make([]*Budget, 0, len(rows))
	for _, row := range rows {
		budgets = append(budgets, FromDataModel(row))
	}
	return budgets, nil
}

func (s *Service) GetOwned(ctx context.Context, userID, id int64) (*Budget, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get budget", err)
	}
	if row == nil || row.UserID != userID {
		return nil, ErrBudgetNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, userID int64, dto BudgetDTO) (*Budget, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, userID, dto.CategoryID, 0); err != nil {
		return nil, err
	}

	row := ToDataModel(&Budget{
		UserID:        userID,
		CategoryID:    dto.CategoryID,
		MonthlyBudget: *dto.MonthlyBudget,
	})
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create budget", "user_id", userID, "category_id", dto.CategoryID, "error", err)
		return nil, internal.NewInternalError("failed to create budget", err)
	}

	s.logger.Info("budget created", "budget_id", row.ID, "user_id", userID, "category_id", row.CategoryID)
	return s.GetOwned(ctx, userID, row.ID)
}

func (s *Service) Update(ctx context.Context, userID, id int64, dto BudgetDTO) (*Budget, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if existing.CategoryID != dto.CategoryID {
		if err := s.checkCategory(ctx, userID, dto.CategoryID, id); err != nil {
			return nil, err
		}
	}

	existing.CategoryID = dto.CategoryID
	existing.MonthlyBudget = *dto.MonthlyBudget
	if err := s.repo.Update(ctx, ToDataModel(existing)); err != nil {
		s.logger.Error("failed to update budget", "budget_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update budget", err)
	}
	return s.GetOwned(ctx, userID, id)
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.GetOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete budget", "budget_id", id, "error", err)
		return internal.NewInternalError("failed to delete budget", err)
	}
	return nil
}

// Status reports spend against every budget of the caller for one calendar month.
func (s *Service) Status(ctx context.Context, userID int64, month, year int) (*StatusResponse, error) {
	if err := validation.ValidateMonth(month); err != nil {
		return nil, err
	}

	budgets, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	spent, err := s.spend.SpendByCategory(ctx, userID, accountstatus.MonthWindow(month, year))
	if err != nil {
		s.logger.Error("failed to sum category spend", "user_id", userID, "month", month, "year", year, "error", err)
		return nil, internal.NewInternalError("failed to compute budget status", err)
	}

	response := &StatusResponse{Month: month, Year: year, Budgets: make([]CategoryStatus, 0, len(budgets))}
	for _, b := range budgets {
		used := spent[b.CategoryID]
		response.Budgets = append(response.Budgets, CategoryStatus{
			CategoryID:    b.CategoryID,
			CategoryName:  b.CategoryName,
			MonthlyBudget: b.MonthlyBudget,
			Spent:         used,
			Remaining:     b.MonthlyBudget - used,
			Percentage:    percentage(used, b.MonthlyBudget),
			Warning:       ReachesThreshold(used, b.MonthlyBudget),
		})
	}
	return response, nil
}

func (s *Service) checkCategory(ctx context.Context, userID, categoryID, selfID int64) error {
	exists, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return internal.NewInternalError("failed to check category", err)
	}
	if !exists {
		return ErrUnknownCategory
	}

	dup, err := s.repo.GetByUserAndCategory(ctx, userID, categoryID)
	if err != nil {
		return internal.NewInternalError("failed to check budget", fmt.Errorf("user %d category %d: %w", userID, categoryID, err))
	}
	if dup != nil && dup.ID != selfID {
		return ErrDuplicateBudget
	}
	return nil
}

func percentage(spent, budget float64) float64 {
	if budget <= 0 {
		if spent > 0 {
			return 100
		}
		return 0
	}
	return math.Round(spent/budget*10000) / 100
}
