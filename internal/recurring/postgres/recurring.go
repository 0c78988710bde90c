package postgres

import (
	"context"

	"github.com/frahmantamala/finance-tracker/internal/accountstatus"
	expenseDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/expense"
	"gorm.io/gorm"
)

type RecurringRepository struct {
	db *gorm.DB
}

func NewRecurringRepository(db *gorm.DB) *RecurringRepository {
	return &RecurringRepository{db: db}
}

func (r *RecurringRepository) ListRecurring(ctx context.Context, window accountstatus.Window) ([]*expenseDatamodel.Expense, error) {
	var expenses []*expenseDatamodel.Expense
	err := r.db.WithContext(ctx).
		Where("recurring = ?", true).
		Where("date >= ? AND date <= ?", window.From, window.To).
		Order("user_id ASC").Order("date ASC").Order("id ASC").
		Find(&expenses).Error
	return expenses, err
}

func (r *RecurringRepository) CountCopies(ctx context.Context, src *expenseDatamodel.Expense, window accountstatus.Window) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&expenseDatamodel.Expense{}).
		Where("user_id = ? AND description = ? AND amount = ?", src.UserID, src.Description, src.Amount).
		Where("date >= ? AND date <= ?", window.From, window.To)

	query = matchNullable(query, "category_id", src.CategoryID)
	query = matchNullable(query, "credit_card_id", src.CreditCardID)

	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *RecurringRepository) Create(ctx context.Context, exp *expenseDatamodel.Expense) error {
	return r.db.WithContext(ctx).Create(exp).Error
}

func matchNullable(query *gorm.DB, column string, value *int64) *gorm.DB {
	if value == nil {
		return query.Where(column + " IS NULL")
	}
	return query.Where(column+" = ?", *value)
}
