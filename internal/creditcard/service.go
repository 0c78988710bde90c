package creditcard

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	creditcardDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/creditcard"
)

var ErrCardNotFound = internal.NewNotFoundError("credit card not found", internal.ErrCodeCardNotFound)

// CycleTotals are the expense and payment sums of one card inside a window.
type CycleTotals struct {
	Expenses float64 `db:"total_expenses"`
	Payments float64 `db:"total_paid"`
}

type RepositoryAPI interface {
	ListByUser(ctx context.Context, userID int64) ([]*creditcardDatamodel.CreditCard, error)
	GetByID(ctx context.Context, id int64) (*creditcardDatamodel.CreditCard, error)
	Create(ctx context.Context, card *creditcardDatamodel.CreditCard) error
	Update(ctx context.Context, card *creditcardDatamodel.CreditCard) error
	Delete(ctx context.Context, id int64) error
}

// TotalsReader runs the aggregate read for the amount-due view.
type TotalsReader interface {
	CycleTotals(ctx context.Context, userID, cardID int64, from, to time.Time) (CycleTotals, error)
}

type Service struct {
	repo   RepositoryAPI
	totals TotalsReader
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, totals TotalsReader, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		totals: totals,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) List(ctx context.Context, userID int64) ([]*CreditCard, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list credit cards", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to list credit cards", err)
	}

	cards := make([]*CreditCard, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, FromDataModel(row))
	}
	return cards, nil
}

// GetOwned returns the card only when it belongs to userID; foreign cards look missing.
func (s *Service) GetOwned(ctx context.Context, userID, cardID int64) (*CreditCard, error) {
	row, err := s.repo.GetByID(ctx, cardID)
	if err != nil {
		return nil, internal.NewInternalError("failed to get credit card", err)
	}
	if row == nil || row.UserID != userID {
		return nil, ErrCardNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, userID int64, dto CreditCardDTO) (*CreditCard, error) {
	parsed, appErr := dto.Parse()
	if appErr != nil {
		return nil, appErr
	}

	card := &CreditCard{UserID: userID}
	apply(card, parsed)

	row := ToDataModel(card)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create credit card", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to create credit card", err)
	}

	s.logger.Info("credit card created", "card_id", row.ID, "user_id", userID)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, userID, cardID int64, dto CreditCardDTO) (*CreditCard, error) {
	parsed, appErr := dto.Parse()
	if appErr != nil {
		return nil, appErr
	}

	card, err := s.GetOwned(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	apply(card, parsed)

	if err := s.repo.Update(ctx, ToDataModel(card)); err != nil {
		s.logger.Error("failed to update credit card", "card_id", cardID, "error", err)
		return nil, internal.NewInternalError("failed to update credit card", err)
	}
	return card, nil
}

func (s *Service) Delete(ctx context.Context, userID, cardID int64) error {
	if _, err := s.GetOwned(ctx, userID, cardID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, cardID); err != nil {
		s.logger.Error("failed to delete credit card", "card_id", cardID, "error", err)
		return internal.NewInternalError("failed to delete credit card", err)
	}

	s.logger.Info("credit card deleted", "card_id", cardID, "user_id", userID)
	return nil
}

func (s *Service) AmountDue(ctx context.Context, userID, cardID int64) (*AmountDueResponse, error) {
	card, err := s.GetOwned(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	cycle := CurrentCycle(card.CutOffDate.Day(), s.now())
	totals, err := s.totals.CycleTotals(ctx, userID, cardID, cycle.Start, cycle.End)
	if err != nil {
		s.logger.Error("failed to sum card cycle", "card_id", cardID, "error", err)
		return nil, internal.NewInternalError("failed to compute amount due", err)
	}

	return &AmountDueResponse{
		CreditCardID:   card.ID,
		CycleStart:     cycle.Start,
		CycleEnd:       cycle.End,
		TotalExpenses:  totals.Expenses,
		TotalPaid:      totals.Payments,
		AmountDue:      math.Max(0, totals.Expenses-totals.Payments),
		PaymentDueDate: card.PaymentDueDate.Format(dateLayout),
	}, nil
}

func apply(card *CreditCard, p *parsedCard) {
	card.CardNumber = p.CardNumber
	card.CardHolderName = p.CardHolderName
	card.ExpirationDate = p.ExpirationDate
	card.Brand = p.Brand
	card.Bank = p.Bank
	card.IsActive = p.IsActive
	card.CutOffDate = p.CutOffDate
	card.PaymentDueDate = p.PaymentDueDate
}
