package telegram

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdminRepository interface {
	IsAdmin(ctx context.Context, telegramID int64) (bool, error)
	Add(ctx context.Context, telegramID int64) error
}

type adminRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) IsAdmin(ctx context.Context, telegramID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&TelegramAdmin{}).
		Where("telegram_id = ?", telegramID).
		Count(&count).Error
	return count > 0, err
}

func (r *adminRepository) Add(ctx context.Context, telegramID int64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&TelegramAdmin{TelegramID: telegramID}).Error
}
