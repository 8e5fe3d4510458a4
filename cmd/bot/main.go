package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/saulo-duarte/natije-api/internal/config"
	"github.com/saulo-duarte/natije-api/internal/container"
	"github.com/saulo-duarte/natije-api/internal/telegram"
)

func main() {
	c := container.New()
	log := config.Logger

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	pin := os.Getenv("TELEGRAM_ADMIN_PIN")
	if token == "" || pin == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN and TELEGRAM_ADMIN_PIN must be set")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Telegram")
	}
	log.WithField("bot", api.Self.UserName).Info("Telegram bot authorized")

	tg := telegram.NewTelegramContainer(c.DB, api, c.AccessCodeContainer.Service, pin)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	if err := tg.Bot.Run(ctx, updates); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("Telegram bot stopped")
	}
	api.StopReceivingUpdates()
}
