package budget

// WarningRatio is the share of the monthly budget at which spending is flagged.
const WarningRatio = 0.8

// Spend is the slice of an expense the threshold rule looks at.
type Spend struct {
	CategoryID      *int64
	Amount          float64
	TransactionType string
}

// Warning is returned to the client when a category is at or above the threshold.
type Warning struct {
	CategoryName string  `json:"categoryName"`
	Presupuesto  float64 `json:"presupuesto"`
	GastoActual  float64 `json:"gastoActual"`
}

func ReachesThreshold(spent, monthlyBudget float64) bool {
	return spent >= WarningRatio*monthlyBudget
}

// EvaluateThreshold sums the expense-type amounts of categoryID and compares them with
// that category's budget. It returns nil when the category has no budget.
func EvaluateThreshold(expenses []Spend, categoryID int64, budgets []*Budget) *Warning {
	var limit *Budget
	for _, b := range budgets {
		if b.CategoryID == categoryID {
			limit = b
			break
		}
	}
	if limit == nil {
		return nil
	}

	var spent float64
	for _, e := range expenses {
		if e.CategoryID == nil || *e.CategoryID != categoryID {
			continue
		}
		if e.TransactionType == "payment" {
			continue
		}
		spent += e.Amount
	}

	if !ReachesThreshold(spent, limit.MonthlyBudget) {
		return nil
	}
	return &Warning{
		CategoryName: limit.CategoryName,
		Presupuesto:  limit.MonthlyBudget,
		GastoActual:  spent,
	}
}
