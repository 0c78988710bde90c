package postgres

import (
	"context"
	"errors"
	"time"

	userDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type PasswordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

func (r *PasswordResetRepository) Create(ctx context.Context, reset *userDatamodel.PasswordReset) error {
	return r.db.WithContext(ctx).Create(reset).Error
}

func (r *PasswordResetRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*userDatamodel.PasswordReset, error) {
	var reset userDatamodel.PasswordReset
	err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&reset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reset, nil
}

func (r *PasswordResetRepository) MarkUsed(ctx context.Context, id int64, usedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&userDatamodel.PasswordReset{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", usedAt)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
