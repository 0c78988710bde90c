package postgres

import (
	"context"

	"github.com/frahmantamala/finance-tracker/internal/accesslog"
	accesslogDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/accesslog"
	"gorm.io/gorm"
)

type AccessLogRepository struct {
	db *gorm.DB
}

func NewAccessLogRepository(db *gorm.DB) accesslog.RepositoryAPI {
	return &AccessLogRepository{db: db}
}

// Append inserts log and sets FirstAccess when the user had no entry before it.
// On postgres a transaction-scoped advisory lock keyed by user id serializes
// concurrent first logins.
func (r *AccessLogRepository) Append(ctx context.Context, log *accesslogDatamodel.AccessLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", log.UserID).Error; err != nil {
				return err
			}
		}

		var count int64
		err := tx.Model(&accesslogDatamodel.AccessLog{}).
			Where("user_id = ?", log.UserID).
			Limit(1).
			Count(&count).Error
		if err != nil {
			return err
		}

		log.FirstAccess = count == 0
		return tx.Create(log).Error
	})
}

func (r *AccessLogRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*accesslogDatamodel.AccessLog, error) {
	var logs []*accesslogDatamodel.AccessLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("access_time DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	return logs, err
}

func (r *AccessLogRepository) ListAll(ctx context.Context, limit, offset int) ([]*accesslogDatamodel.AccessLog, error) {
	var logs []*accesslogDatamodel.AccessLog
	err := r.db.WithContext(ctx).
		Order("access_time DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	return logs, err
}
