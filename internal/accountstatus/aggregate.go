package accountstatus

const (
	TransactionExpense = "expense"
	TransactionPayment = "payment"

	UncategorizedID   int64 = 0
	UncategorizedName       = "Uncategorized"
)

// Row is one expense row as read for the summary.
type Row struct {
	Amount          float64 `db:"amount"`
	TransactionType string  `db:"transaction_type"`
	CategoryID      *int64  `db:"category_id"`
	CategoryName    *string `db:"category_name"`
}

type CategoryAmount struct {
	CategoryID   int64   `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	Amount       float64 `json:"amount"`
}

type Status struct {
	Month              int              `json:"month"`
	Year               int              `json:"year"`
	TotalExpenses      float64          `json:"totalExpenses"`
	Balance            float64          `json:"balance"`
	ExpensesByCategory []CategoryAmount `json:"expensesByCategory"`
	TotalPaid          float64          `json:"totalPaid"`
}

// Aggregate folds rows into the monthly summary. Payments only count towards TotalPaid;
// the category breakdown keeps the order in which categories first appear.
func Aggregate(month, year int, rows []Row) Status {
	status := Status{
		Month:              month,
		Year:               year,
		ExpensesByCategory: []CategoryAmount{},
	}

	index := make(map[int64]int)
	for _, row := range rows {
		if row.TransactionType == TransactionPayment {
			status.TotalPaid += row.Amount
			continue
		}

		status.TotalExpenses += row.Amount

		id, name := UncategorizedID, UncategorizedName
		if row.CategoryID != nil {
			id = *row.CategoryID
			if row.CategoryName != nil {
				name = *row.CategoryName
			}
		}

		pos, ok := index[id]
		if !ok {
			pos = len(status.ExpensesByCategory)
			index[id] = pos
			status.ExpensesByCategory = append(status.ExpensesByCategory, CategoryAmount{CategoryID: id, CategoryName: name})
		}
		status.ExpensesByCategory[pos].Amount += row.Amount
	}

	status.Balance = status.TotalPaid - status.TotalExpenses
	return status
}
