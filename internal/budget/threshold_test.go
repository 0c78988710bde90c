package budget_test

import (
	"testing"

	"github.com/frahmantamala/finance-tracker/internal/budget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateThreshold(t *testing.T) {
	food, rent := int64(1), int64(2)
	budgets := []*budget.Budget{
		{CategoryID: food, CategoryName: "Food", MonthlyBudget: 100},
	}

	tests := []struct {
		name     string
		expenses []budget.Spend
		category int64
		want     *budget.Warning
	}{
		{
			name:     "below threshold",
			expenses: []budget.Spend{{CategoryID: &food, Amount: 79.99, TransactionType: "expense"}},
			category: food,
		},
		{
			name: "exactly eighty percent",
			expenses: []budget.Spend{
				{CategoryID: &food, Amount: 50, TransactionType: "expense"},
				{CategoryID: &food, Amount: 30, TransactionType: "expense"},
			},
			category: food,
			want:     &budget.Warning{CategoryName: "Food", Presupuesto: 100, GastoActual: 80},
		},
		{
			name: "payments and other categories are ignored",
			expenses: []budget.Spend{
				{CategoryID: &food, Amount: 70, TransactionType: "expense"},
				{CategoryID: &food, Amount: 500, TransactionType: "payment"},
				{CategoryID: &rent, Amount: 500, TransactionType: "expense"},
				{Amount: 500, TransactionType: "expense"},
			},
			category: food,
		},
		{
			name:     "no budget for the category",
			expenses: []budget.Spend{{CategoryID: &rent, Amount: 1000, TransactionType: "expense"}},
			category: rent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := budget.EvaluateThreshold(tt.expenses, tt.category, budgets)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestReachesThresholdIffEightyPercent(t *testing.T) {
	for spent := 0.0; spent <= 200; spent += 0.5 {
		assert.Equal(t, spent >= 80, budget.ReachesThreshold(spent, 100), "spent %.2f", spent)
	}
}
