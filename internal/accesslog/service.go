package accesslog

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	accesslogDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/accesslog"
)

type RepositoryAPI interface {
	// Append stores log, deciding FirstAccess atomically with the insert.
	Append(ctx context.Context, log *accesslogDatamodel.AccessLog) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*accesslogDatamodel.AccessLog, error)
	ListAll(ctx context.Context, limit, offset int) ([]*accesslogDatamodel.AccessLog, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Record appends an access entry. FirstAccess is set when the user has no earlier entry.
func (s *Service) Record(ctx context.Context, userID int64, action string) (*AccessLog, error) {
	entry := &AccessLog{
		UserID:     userID,
		AccessTime: s.now().UTC(),
		Action:     action,
	}

	dataLog := ToDataModel(entry)
	if err := s.repo.Append(ctx, dataLog); err != nil {
		s.logger.Error("failed to record access", "user_id", userID, "action", action, "error", err)
		return nil, internal.NewInternalError("failed to record access", err)
	}

	s.logger.Debug("access recorded", "user_id", userID, "action", action, "first_access", dataLog.FirstAccess)
	return FromDataModel(dataLog), nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64, page Page) ([]*AccessLog, error) {
	page = page.Normalize()
	rows, err := s.repo.ListByUser(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, internal.NewInternalError("failed to list access logs", err)
	}
	return fromDataModels(rows), nil
}

func (s *Service) ListAll(ctx context.Context, page Page) ([]*AccessLog, error) {
	page = page.Normalize()
	rows, err := s.repo.ListAll(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, internal.NewInternalError("failed to list access logs", err)
	}
	return fromDataModels(rows), nil
}

func fromDataModels(rows []*accesslogDatamodel.AccessLog) []*AccessLog {
	logs := make([]*AccessLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, FromDataModel(row))
	}
	return logs
}
