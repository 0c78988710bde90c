package postgres

import (
	"context"
	"fmt"

	"github.com/frahmantamala/finance-tracker/internal/accountstatus"
	"github.com/jmoiron/sqlx"
)

const monthRowsQuery = `
SELECT e.amount, e.transaction_type, e.category_id, c.name AS category_name
FROM expenses e
LEFT JOIN categories c ON c.id = e.category_id
WHERE e.user_id = ? AND e.credit_card_id = ? AND e.date >= ? AND e.date <= ?
ORDER BY e.date ASC, e.id ASC`

type AccountStatusRepository struct {
	db *sqlx.DB
}

func NewAccountStatusRepository(db *sqlx.DB) *AccountStatusRepository {
	return &AccountStatusRepository{db: db}
}

func (r *AccountStatusRepository) MonthRows(ctx context.Context, userID, cardID int64, window accountstatus.Window) ([]accountstatus.Row, error) {
	rows := []accountstatus.Row{}
	query := r.db.Rebind(monthRowsQuery)
	if err := r.db.SelectContext(ctx, &rows, query, userID, cardID, window.From, window.To); err != nil {
		return nil, fmt.Errorf("select month rows for card %d: %w", cardID, err)
	}
	return rows, nil
}
