package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/finance-tracker/internal/accountstatus"
	budgetDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/budget"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

type BudgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) withCategory(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&budgetDatamodel.Budget{}).
		Select("budgets.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = budgets.category_id")
}

func (r *BudgetRepository) ListByUser(ctx context.Context, userID int64) ([]*budgetDatamodel.Budget, error) {
	var budgets []*budgetDatamodel.Budget
	err := r.withCategory(ctx).Where("budgets.user_id = ?", userID).Order("budgets.id ASC").Find(&budgets).Error
	return budgets, err
}

func (r *BudgetRepository) GetByID(ctx context.Context, id int64) (*budgetDatamodel.Budget, error) {
	var b budgetDatamodel.Budget
	err := r.withCategory(ctx).Where("budgets.id = ?", id).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BudgetRepository) GetByUserAndCategory(ctx context.Context, userID, categoryID int64) (*budgetDatamodel.Budget, error) {
	var b budgetDatamodel.Budget
	err := r.withCategory(ctx).
		Where("budgets.user_id = ? AND budgets.category_id = ?", userID, categoryID).
		First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BudgetRepository) Create(ctx context.Context, b *budgetDatamodel.Budget) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BudgetRepository) Update(ctx context.Context, b *budgetDatamodel.Budget) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BudgetRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&budgetDatamodel.Budget{}, id).Error
}

const spendByCategoryQuery = `
SELECT category_id, COALESCE(SUM(amount), 0) AS spent
FROM expenses
WHERE user_id = ? AND transaction_type = 'expense' AND category_id IS NOT NULL
	AND date >= ? AND date <= ?
GROUP BY category_id`

type SpendRepository struct {
	db *sqlx.DB
}

func NewSpendRepository(db *sqlx.DB) *SpendRepository {
	return &SpendRepository{db: db}
}

func (r *SpendRepository) SpendByCategory(ctx context.Context, userID int64, window accountstatus.Window) (map[int64]float64, error) {
	var rows []struct {
		CategoryID int64   `db:"category_id"`
		Spent      float64 `db:"spent"`
	}
	query := r.db.Rebind(spendByCategoryQuery)
	if err := r.db.SelectContext(ctx, &rows, query, userID, window.From, window.To); err != nil {
		return nil, fmt.Errorf("sum spend by category: %w", err)
	}

	spent := make(map[int64]float64, len(rows))
	for _, row := range rows {
		spent[row.CategoryID] = row.Spent
	}
	return spent, nil
}
