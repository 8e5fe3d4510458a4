package telegram

import (
	"github.com/saulo-duarte/natije-api/internal/accesscode"
	"gorm.io/gorm"
)

type TelegramContainer struct {
	Repository AdminRepository
	Bot        *Bot
}

func NewTelegramContainer(db *gorm.DB, sender Sender, codes accesscode.AccessCodeService, pin string) *TelegramContainer {
	repo := NewRepository(db)
	return &TelegramContainer{
		Repository: repo,
		Bot:        NewBot(sender, repo, codes, pin),
	}
}
