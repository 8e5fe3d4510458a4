package telegram

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TelegramAdmin is a Telegram account allowed to issue access codes.
type TelegramAdmin struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TelegramID int64     `gorm:"uniqueIndex;not null" json:"telegram_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (a *TelegramAdmin) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func Models() []any {
	return []any{&TelegramAdmin{}}
}
