package accountstatus

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
	"github.com/frahmantamala/finance-tracker/internal/creditcard"
)

var (
	ErrCardRequired = internal.NewValidationError("credit_card_id is required", internal.ErrCodeCardRequired)
	ErrYearRequired = internal.NewValidationFieldError("year", "year is required", internal.ErrCodeValidationFailed)
)

type RepositoryAPI interface {
	MonthRows(ctx context.Context, userID, cardID int64, window Window) ([]Row, error)
}

type CardLookup interface {
	GetOwned(ctx context.Context, userID, cardID int64) (*creditcard.CreditCard, error)
}

type Service struct {
	repo   RepositoryAPI
	cards  CardLookup
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, cards CardLookup, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cards:  cards,
		logger: logger,
	}
}

// Monthly validates the request before touching the database: the month must be 1..12,
// the year must be set and the card must belong to the caller.
func (s *Service) Monthly(ctx context.Context, userID int64, cardID *int64, month, year int) (*Status, error) {
	if err := validation.ValidateMonth(month); err != nil {
		return nil, err
	}
	if year <= 0 {
		return nil, ErrYearRequired
	}
	if cardID == nil || *cardID <= 0 {
		return nil, ErrCardRequired
	}
	if _, err := s.cards.GetOwned(ctx, userID, *cardID); err != nil {
		return nil, err
	}

	rows, err := s.repo.MonthRows(ctx, userID, *cardID, MonthWindow(month, year))
	if err != nil {
		s.logger.Error("failed to read month rows", "user_id", userID, "card_id", *cardID, "month", month, "year", year, "error", err)
		return nil, internal.NewInternalError("failed to compute account status", err)
	}

	status := Aggregate(month, year, rows)
	return &status, nil
}
