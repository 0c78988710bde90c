package expense

import (
	"strings"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/budget"
	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
)

const (
	// DateLayout is the calendar-date form used on the wire.
	DateLayout = "2006-01-02"

	// MaxDescriptionLength matches the width of expenses.description, in characters.
	MaxDescriptionLength = 500
)

type ExpenseResponse struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Date            string    `json:"date"`
	Amount          float64   `json:"amount"`
	Description     string    `json:"description"`
	Recurring       bool      `json:"recurring"`
	CategoryID      *int64    `json:"category_id"`
	CreditCardID    *int64    `json:"credit_card_id"`
	TransactionType string    `json:"transaction_type"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ExpensesResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
}

// ExpenseEnvelope wraps a single expense; BudgetWarning is set when the write pushed its
// category to the warning threshold.
type ExpenseEnvelope struct {
	Expense       ExpenseResponse `json:"expense"`
	BudgetWarning *budget.Warning `json:"budget_warning,omitempty"`
}

type ExpenseDTO struct {
	Amount          *float64 `json:"amount"`
	Description     string   `json:"description"`
	Date            string   `json:"date"`
	CategoryID      *int64   `json:"category_id"`
	Recurring       bool     `json:"recurring"`
	CreditCardID    *int64   `json:"credit_card_id"`
	TransactionType string   `json:"transaction_type"`
}

type parsedExpense struct {
	Amount          float64
	Description     string
	Date            time.Time
	CategoryID      *int64
	Recurring       bool
	CreditCardID    int64
	TransactionType string
}

func (d ExpenseDTO) Parse() (*parsedExpense, *internal.AppError) {
	txType := strings.TrimSpace(d.TransactionType)
	if txType == "" {
		txType = TypeExpense
	}

	var amount interface{}
	if d.Amount != nil {
		amount = *d.Amount
	}

	validator := validation.NewValidator()
	validator.Field("amount", amount).
		Required().
		NonNegative(internal.ErrCodeInvalidAmount)
	validator.Field("description", d.Description).
		Required().
		MaxLength(MaxDescriptionLength)
	validator.Field("transaction_type", txType).
		OneOf(TransactionTypes, internal.ErrCodeInvalidTxType)
	if err := validator.Validate(); err != nil {
		return nil, err
	}

	if d.CreditCardID == nil || *d.CreditCardID <= 0 {
		return nil, ErrCardRequired
	}

	date, err := validation.ParseDate("date", d.Date)
	if err != nil {
		return nil, err
	}

	var categoryID *int64
	if d.CategoryID != nil && *d.CategoryID > 0 {
		id := *d.CategoryID
		categoryID = &id
	}

	return &parsedExpense{
		Amount:          *d.Amount,
		Description:     strings.TrimSpace(d.Description),
		Date:            CalendarDate(date),
		CategoryID:      categoryID,
		Recurring:       d.Recurring,
		CreditCardID:    *d.CreditCardID,
		TransactionType: txType,
	}, nil
}

// CalendarDate drops the clock and keeps the date as written by the client, at UTC midnight.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Filter narrows a listing. Month without Year means the month of the current year.
type Filter struct {
	CreditCardID *int64
	CategoryID   *int64
	Month        *int
	Year         *int
}
