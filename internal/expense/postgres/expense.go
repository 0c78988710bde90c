package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/accountstatus"
	budgetDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/budget"
	expenseDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/finance-tracker/internal/expense"
	"gorm.io/gorm"
)

type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) List(ctx context.Context, userID int64, filter expense.Filter) ([]*expenseDatamodel.Expense, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filter.CreditCardID != nil {
		query = query.Where("credit_card_id = ?", *filter.CreditCardID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Year != nil {
		from, to := yearWindow(*filter.Year)
		if filter.Month != nil {
			w := accountstatus.MonthWindow(*filter.Month, *filter.Year)
			from, to = w.From, w.To
		}
		query = query.Where("date >= ? AND date <= ?", from, to)
	}

	var expenses []*expenseDatamodel.Expense
	err := query.Order("date DESC").Order("id DESC").Find(&expenses).Error
	return expenses, err
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*expenseDatamodel.Expense, error) {
	var exp expenseDatamodel.Expense
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&exp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &exp, nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&expenseDatamodel.Expense{}, id).Error
}

func (r *ExpenseRepository) Transaction(ctx context.Context, fn func(tx expense.TxRepositoryAPI) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ExpenseRepository{db: tx})
	})
}

func (r *ExpenseRepository) Create(ctx context.Context, exp *expenseDatamodel.Expense) error {
	return r.db.WithContext(ctx).Create(exp).Error
}

func (r *ExpenseRepository) Update(ctx context.Context, exp *expenseDatamodel.Expense) error {
	return r.db.WithContext(ctx).Save(exp).Error
}

func (r *ExpenseRepository) CategorySpend(ctx context.Context, userID, categoryID int64, window accountstatus.Window) ([]*expenseDatamodel.Expense, error) {
	var expenses []*expenseDatamodel.Expense
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND category_id = ? AND transaction_type = ?", userID, categoryID, expense.TypeExpense).
		Where("date >= ? AND date <= ?", window.From, window.To).
		Find(&expenses).Error
	return expenses, err
}

func (r *ExpenseRepository) BudgetFor(ctx context.Context, userID, categoryID int64) (*budgetDatamodel.Budget, error) {
	var b budgetDatamodel.Budget
	err := r.db.WithContext(ctx).
		Model(&budgetDatamodel.Budget{}).
		Select("budgets.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = budgets.category_id").
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

func yearWindow(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0).Add(-time.Millisecond)
}
