// Package recurring copies last month's recurring expenses into the current month.
package recurring

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/accountstatus"
	expenseDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

type RepositoryAPI interface {
	ListRecurring(ctx context.Context, window accountstatus.Window) ([]*expenseDatamodel.Expense, error)
	// CountCopies counts rows in window matching src's user, description, amount, card and category.
	CountCopies(ctx context.Context, src *expenseDatamodel.Expense, window accountstatus.Window) (int64, error)
	Create(ctx context.Context, expense *expenseDatamodel.Expense) error
}

type Result struct {
	Users   int
	Checked int
	Created int
	Skipped int
}

type Processor struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
	workers   int
}

func NewProcessor(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger, workers int) *Processor {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Processor{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		workers:   workers,
	}
}

// CarryDate moves src into year/month keeping the day, clamped to the month length.
func CarryDate(src time.Time, year int, month time.Month) time.Time {
	day := src.Day()
	if last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day(); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Run processes the month containing now. Users are handled concurrently, each user's rows in order.
func (p *Processor) Run(ctx context.Context, now time.Time) (Result, error) {
	now = now.UTC()
	current := accountstatus.MonthWindow(int(now.Month()), now.Year())
	prev := current.From.AddDate(0, -1, 0)
	previous := accountstatus.MonthWindow(int(prev.Month()), prev.Year())

	rows, err := p.repo.ListRecurring(ctx, previous)
	if err != nil {
		return Result{}, fmt.Errorf("list recurring expenses: %w", err)
	}

	byUser := make(map[int64][]*expenseDatamodel.Expense)
	var order []int64
	for _, row := range rows {
		if _, ok := byUser[row.UserID]; !ok {
			order = append(order, row.UserID)
		}
		byUser[row.UserID] = append(byUser[row.UserID], row)
	}

	var created, skipped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, userID := range order {
		userRows := byUser[userID]
		g.Go(func() error {
			seen := make(map[copyKey]int64)
			for _, src := range userRows {
				key := keyOf(src)
				seen[key]++
				made, err := p.carry(gctx, src, current, seen[key])
				if err != nil {
					return fmt.Errorf("user %d expense %d: %w", src.UserID, src.ID, err)
				}
				if made {
					created.Add(1)
				} else {
					skipped.Add(1)
				}
			}
			return nil
		})
	}

	result := Result{Users: len(order), Checked: len(rows)}
	err = g.Wait()
	result.Created = int(created.Load())
	result.Skipped = int(skipped.Load())

	p.logger.Info("recurring expenses processed",
		"month", int(now.Month()),
		"year", now.Year(),
		"users", result.Users,
		"checked", result.Checked,
		"created", result.Created,
		"skipped", result.Skipped)
	return result, err
}

// copyKey identifies identical recurring rows of one user.
type copyKey struct {
	description string
	amount      float64
	categoryID  int64
	cardID      int64
}

func keyOf(src *expenseDatamodel.Expense) copyKey {
	key := copyKey{description: src.Description, amount: src.Amount}
	if src.CategoryID != nil {
		key.categoryID = *src.CategoryID
	}
	if src.CreditCardID != nil {
		key.cardID = *src.CreditCardID
	}
	return key
}

// carry copies src unless window already holds nth matching rows, so n identical
// sources yield n copies and a rerun yields none.
func (p *Processor) carry(ctx context.Context, src *expenseDatamodel.Expense, window accountstatus.Window, nth int64) (bool, error) {
	copies, err := p.repo.CountCopies(ctx, src, window)
	if err != nil {
		return false, err
	}
	if copies >= nth {
		return false, nil
	}

	dup := &expenseDatamodel.Expense{
		UserID:          src.UserID,
		Date:            CarryDate(src.Date.UTC(), window.From.Year(), window.From.Month()),
		Amount:          src.Amount,
		Description:     src.Description,
		Recurring:       true,
		CategoryID:      src.CategoryID,
		CreditCardID:    src.CreditCardID,
		TransactionType: src.TransactionType,
	}
	if err := p.repo.Create(ctx, dup); err != nil {
		return false, err
	}

	p.logger.Debug("recurring expense copied", "source_id", src.ID, "expense_id", dup.ID, "user_id", dup.UserID)
	if p.publisher != nil {
		event := events.NewRecurringExpenseCreatedEvent(dup.ID, dup.UserID, dup.Amount, dup.TransactionType)
		if err := p.publisher.Publish(ctx, event); err != nil {
			p.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
		}
	}
	return true, nil
}
