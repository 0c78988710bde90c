package budget

import (
	"time"

	budgetDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/budget"
)

type Budget struct {
	ID            int64
	UserID        int64
	CategoryID    int64
	CategoryName  string
	MonthlyBudget float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (b *Budget) ToResponse() BudgetResponse {
	return BudgetResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		CategoryID:    b.CategoryID,
		CategoryName:  b.CategoryName,
		MonthlyBudget: b.MonthlyBudget,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func ToDataModel(b *Budget) *budgetDatamodel.Budget {
	return &budgetDatamodel.Budget{
		ID:            b.ID,
		UserID:        b.UserID,
		CategoryID:    b.CategoryID,
		MonthlyBudget: b.MonthlyBudget,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func FromDataModel(b *budgetDatamodel.Budget) *Budget {
	return &Budget{
		ID:            b.ID,
		UserID:        b.UserID,
		CategoryID:    b.CategoryID,
		CategoryName:  b.CategoryName,
		MonthlyBudget: b.MonthlyBudget,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
