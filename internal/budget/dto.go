package budget

import (
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
)

type BudgetResponse struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	CategoryID    int64     `json:"category_id"`
	CategoryName  string    `json:"category_name"`
	MonthlyBudget float64   `json:"monthly_budget"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type BudgetsResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
}

type BudgetDTO struct {
	CategoryID    int64    `json:"category_id"`
	MonthlyBudget *float64 `json:"monthly_budget"`
}

func (d BudgetDTO) Validate() *internal.AppError {
	validator := validation.NewValidator()
	validator.Field("category_id", d.CategoryID).
		Required()

	var amount interface{}
	if d.MonthlyBudget != nil {
		amount = *d.MonthlyBudget
	}
	validator.Field("monthly_budget", amount).
		Required().
		NonNegative(internal.ErrCodeInvalidBudget)
	return validator.Validate()
}

type CategoryStatus struct {
	CategoryID    int64   `json:"category_id"`
	CategoryName  string  `json:"category_name"`
	MonthlyBudget float64 `json:"monthly_budget"`
	Spent         float64 `json:"spent"`
	Remaining     float64 `json:"remaining"`
	Percentage    float64 `json:"percentage"`
	Warning       bool    `json:"warning"`
}

type StatusResponse struct {
	Month   int              `json:"month"`
	Year    int              `json:"year"`
	Budgets []CategoryStatus `json:"budgets"`
}
