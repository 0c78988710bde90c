package expense

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/accountstatus"
	"github.com/frahmantamala/finance-tracker/internal/budget"
	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
	budgetDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/budget"
	expenseDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/frahmantamala/finance-tracker/internal/creditcard"
)

var (
	ErrExpenseNotFound = internal.NewNotFoundError("expense not found", internal.ErrCodeExpenseNotFound)
	ErrCardRequired    = internal.NewValidationError("credit_card_id is required", internal.ErrCodeCardRequired)
	ErrUnknownCategory = internal.NewValidationFieldError("category_id", "category_id does not exist", internal.ErrCodeInvalidCategory)
)

type RepositoryAPI interface {
	List(ctx context.Context, userID int64, filter Filter) ([]*expenseDatamodel.Expense, error)
	GetByID(ctx context.Context, id int64) (*expenseDatamodel.Expense, error)
	Delete(ctx context.Context, id int64) error
	// Transaction runs fn against a repository bound to one database transaction.
	Transaction(ctx context.Context, fn func(tx TxRepositoryAPI) error) error
}

// TxRepositoryAPI is the write side used inside a transaction.
type TxRepositoryAPI interface {
	Create(ctx context.Context, expense *expenseDatamodel.Expense) error
	Update(ctx context.Context, expense *expenseDatamodel.Expense) error
	CategorySpend(ctx context.Context, userID, categoryID int64, window accountstatus.Window) ([]*expenseDatamodel.Expense, error)
	BudgetFor(ctx context.Context, userID, categoryID int64) (*budgetDatamodel.Budget, error)
}

type CardLookup interface {
	GetOwned(ctx context.Context, userID, cardID int64) (*creditcard.CreditCard, error)
}

type CategoryChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo       RepositoryAPI
	cards      CardLookup
	categories CategoryChecker
	publisher  events.Publisher
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo RepositoryAPI, cards CardLookup, categories CategoryChecker, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		cards:      cards,
		categories: categories,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) List(ctx context.Context, userID int64, filter Filter) ([]*Expense, error) {
	if filter.Month != nil {
		if err := validation.ValidateMonth(*filter.Month); err != nil {
			return nil, err
		}
		if filter.Year == nil {
			year := s.now().UTC().Year()
			filter.Year = &year
		}
	}

	rows, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to list expenses", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to list expenses", err)
	}

	expenses := make([]*Expense, 0, len(rows))
	for _, row := range rows {
		expenses = append(expenses, FromDataModel(row))
	}
	return expenses, nil
}

func (s *Service) GetOwned(ctx context.Context, userID, id int64) (*Expense, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get expense", err)
	}
	if row == nil || row.UserID != userID {
		return nil, ErrExpenseNotFound
	}
	return FromDataModel(row), nil
}

// Create stores the expense and evaluates the category budget in the same transaction.
func (s *Service) Create(ctx context.Context, userID int64, dto ExpenseDTO) (*Expense, *budget.Warning, error) {
	parsed, err := s.parse(ctx, userID, dto)
	if err != nil {
		return nil, nil, err
	}

	exp := &Expense{UserID: userID}
	apply(exp, parsed)

	row := ToDataModel(exp)
	var warning *budget.Warning
	err = s.repo.Transaction(ctx, func(tx TxRepositoryAPI) error {
		if err := tx.Create(ctx, row); err != nil {
			return err
		}
		var evalErr error
		warning, evalErr = s.evaluateBudget(ctx, tx, row)
		return evalErr
	})
	if err != nil {
		s.logger.Error("failed to create expense", "user_id", userID, "error", err)
		return nil, nil, internal.NewInternalError("failed to create expense", err)
	}

	created := FromDataModel(row)
	s.logger.Info("expense created",
		"expense_id", created.ID,
		"user_id", userID,
		"amount", created.Amount,
		"transaction_type", created.TransactionType,
		"budget_warning", warning != nil)

	s.publish(ctx, events.NewExpenseCreatedEvent(created.ID, userID, created.Amount, created.TransactionType))
	s.publishWarning(ctx, userID, created.CategoryID, warning)
	return created, warning, nil
}

func (s *Service) Update(ctx context.Context, userID, id int64, dto ExpenseDTO) (*Expense, *budget.Warning, error) {
	existing, err := s.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	parsed, err := s.parse(ctx, userID, dto)
	if err != nil {
		return nil, nil, err
	}
	apply(existing, parsed)

	row := ToDataModel(existing)
	var warning *budget.Warning
	err = s.repo.Transaction(ctx, func(tx TxRepositoryAPI) error {
		if err := tx.Update(ctx, row); err != nil {
			return err
		}
		var evalErr error
		warning, evalErr = s.evaluateBudget(ctx, tx, row)
		return evalErr
	})
	if err != nil {
		s.logger.Error("failed to update expense", "expense_id", id, "error", err)
		return nil, nil, internal.NewInternalError("failed to update expense", err)
	}

	s.publishWarning(ctx, userID, row.CategoryID, warning)
	return FromDataModel(row), warning, nil
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	existing, err := s.GetOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete expense", "expense_id", id, "error", err)
		return internal.NewInternalError("failed to delete expense", err)
	}

	s.logger.Info("expense deleted", "expense_id", id, "user_id", userID)
	s.publish(ctx, events.NewExpenseDeletedEvent(id, userID, existing.Amount, existing.TransactionType))
	return nil
}

// parse validates the body and every reference it carries.
func (s *Service) parse(ctx context.Context, userID int64, dto ExpenseDTO) (*parsedExpense, error) {
	parsed, appErr := dto.Parse()
	if appErr != nil {
		return nil, appErr
	}

	if _, err := s.cards.GetOwned(ctx, userID, parsed.CreditCardID); err != nil {
		return nil, err
	}

	if parsed.CategoryID != nil {
		exists, err := s.categories.Exists(ctx, *parsed.CategoryID)
		if err != nil {
			return nil, internal.NewInternalError("failed to check category", err)
		}
		if !exists {
			return nil, ErrUnknownCategory
		}
	}
	return parsed, nil
}

// evaluateBudget reads the month's category spend through tx so the row just written is included.
func (s *Service) evaluateBudget(ctx context.Context, tx TxRepositoryAPI, row *expenseDatamodel.Expense) (*budget.Warning, error) {
	if row.TransactionType != TypeExpense || row.CategoryID == nil {
		return nil, nil
	}

	limit, err := tx.BudgetFor(ctx, row.UserID, *row.CategoryID)
	if err != nil || limit == nil {
		return nil, err
	}

	y, m, _ := row.Date.UTC().Date()
	rows, err := tx.CategorySpend(ctx, row.UserID, *row.CategoryID, accountstatus.MonthWindow(int(m), y))
	if err != nil {
		return nil, err
	}

	spend := make([]budget.Spend, 0, len(rows))
	for _, r := range rows {
		spend = append(spend, budget.Spend{CategoryID: r.CategoryID, Amount: r.Amount, TransactionType: r.TransactionType})
	}
	return budget.EvaluateThreshold(spend, *row.CategoryID, []*budget.Budget{budget.FromDataModel(limit)}), nil
}

func (s *Service) publishWarning(ctx context.Context, userID int64, categoryID *int64, warning *budget.Warning) {
	if warning == nil || categoryID == nil {
		return
	}
	s.publish(ctx, events.NewBudgetThresholdReachedEvent(userID, *categoryID, warning.CategoryName, warning.Presupuesto, warning.GastoActual))
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func apply(e *Expense, p *parsedExpense) {
	cardID := p.CreditCardID
	e.Amount = p.Amount
	e.Description = p.Description
	e.Date = p.Date
	e.CategoryID = p.CategoryID
	e.Recurring = p.Recurring
	e.CreditCardID = &cardID
	e.TransactionType = p.TransactionType
}
