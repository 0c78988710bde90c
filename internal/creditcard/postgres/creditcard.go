package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	creditcardDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/creditcard"
	expenseDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/finance-tracker/internal/creditcard"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

type CreditCardRepository struct {
	db *gorm.DB
}

func NewCreditCardRepository(db *gorm.DB) *CreditCardRepository {
	return &CreditCardRepository{db: db}
}

func (r *CreditCardRepository) ListByUser(ctx context.Context, userID int64) ([]*creditcardDatamodel.CreditCard, error) {
	var cards []*creditcardDatamodel.CreditCard
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&cards).Error
	return cards, err
}

func (r *CreditCardRepository) GetByID(ctx context.Context, id int64) (*creditcardDatamodel.CreditCard, error) {
	var card creditcardDatamodel.CreditCard
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

func (r *CreditCardRepository) Create(ctx context.Context, card *creditcardDatamodel.CreditCard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *CreditCardRepository) Update(ctx context.Context, card *creditcardDatamodel.CreditCard) error {
	return r.db.WithContext(ctx).Save(card).Error
}

// Delete keeps the card's expenses and detaches them from the card.
func (r *CreditCardRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&expenseDatamodel.Expense{}).
			Where("credit_card_id = ?", id).
			Update("credit_card_id", nil).Error; err != nil {
			return fmt.Errorf("detach expenses: %w", err)
		}
		return tx.Delete(&creditcardDatamodel.CreditCard{}, id).Error
	})
}

const cycleTotalsQuery = `
SELECT
	COALESCE(SUM(CASE WHEN transaction_type = 'expense' THEN amount ELSE 0 END), 0) AS total_expenses,
	COALESCE(SUM(CASE WHEN transaction_type = 'payment' THEN amount ELSE 0 END), 0) AS total_paid
FROM expenses
WHERE user_id = ? AND credit_card_id = ? AND date >= ? AND date <= ?`

type TotalsRepository struct {
	db *sqlx.DB
}

func NewTotalsRepository(db *sqlx.DB) *TotalsRepository {
	return &TotalsRepository{db: db}
}

func (r *TotalsRepository) CycleTotals(ctx context.Context, userID, cardID int64, from, to time.Time) (creditcard.CycleTotals, error) {
	var totals creditcard.CycleTotals
	query := r.db.Rebind(cycleTotalsQuery)
	if err := r.db.GetContext(ctx, &totals, query, userID, cardID, from.UTC(), to.UTC()); err != nil {
		return creditcard.CycleTotals{}, fmt.Errorf("sum card %d cycle: %w", cardID, err)
	}
	return totals, nil
}
