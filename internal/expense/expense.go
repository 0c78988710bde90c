package expense

import (
	"time"

	expenseDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/expense"
)

const (
	TypeExpense = "expense"
	TypePayment = "payment"
)

var TransactionTypes = []string{TypeExpense, TypePayment}

type Expense struct {
	ID              int64
	UserID          int64
	Date            time.Time
	Amount          float64
	Description     string
	Recurring       bool
	CategoryID      *int64
	CreditCardID    *int64
	TransactionType string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (e *Expense) IsOwnedBy(userID int64) bool {
	return e.UserID == userID
}

func (e *Expense) ToResponse() ExpenseResponse {
	return ExpenseResponse{
		ID:              e.ID,
		UserID:          e.UserID,
		Date:            e.Date.UTC().Format(DateLayout),
		Amount:          e.Amount,
		Description:     e.Description,
		Recurring:       e.Recurring,
		CategoryID:      e.CategoryID,
		CreditCardID:    e.CreditCardID,
		TransactionType: e.TransactionType,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:              e.ID,
		UserID:          e.UserID,
		Date:            e.Date,
		Amount:          e.Amount,
		Description:     e.Description,
		Recurring:       e.Recurring,
		CategoryID:      e.CategoryID,
		CreditCardID:    e.CreditCardID,
		TransactionType: e.TransactionType,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:              e.ID,
		UserID:          e.UserID,
		Date:            e.Date,
		Amount:          e.Amount,
		Description:     e.Description,
		Recurring:       e.Recurring,
		CategoryID:      e.CategoryID,
		CreditCardID:    e.CreditCardID,
		TransactionType: e.TransactionType,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}
