// Package telegram runs the admin bot that hands out access codes.
package telegram

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/saulo-duarte/natije-api/internal/accesscode"
	"github.com/saulo-duarte/natije-api/internal/apperr"
	"github.com/saulo-duarte/natije-api/internal/config"
	"github.com/sirupsen/logrus"
)

const (
	msgAskPin      = "Pin code:"
	msgWrongPin    = "Wrong pin. Start again with /start"
	msgWelcome     = "Signed in. Choose an action."
	msgMenu        = "Choose an action."
	msgSignIn      = "Send /start to sign in."
	msgCourseUsage = "Usage: /course_code <course name>"
	msgTestUsage   = "Usage: /test_code <days>"
	msgNoCourse    = "Course not found."
	msgFailed      = "Something went wrong, try again later."
)

// Sender is the part of *tgbotapi.BotAPI the bot writes through.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	sender Sender
	admins AdminRepository
	codes  accesscode.AccessCodeService
	pin    []byte

	mu      sync.Mutex
	pending map[int64]struct{}
}

func NewBot(sender Sender, admins AdminRepository, codes accesscode.AccessCodeService, pin string) *Bot {
	return &Bot{
		sender:  sender,
		admins:  admins,
		codes:   codes,
		pin:     []byte(pin),
		pending: make(map[int64]struct{}),
	}
}

// Run handles updates until ctx is cancelled or the channel closes.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			b.Handle(ctx, update.Message)
		}
	}
}

func (b *Bot) Handle(ctx context.Context, msg *tgbotapi.Message) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{"chat_id": msg.Chat.ID, "telegram_id": msg.From.ID})

	var reply tgbotapi.MessageConfig
	var err error
	switch {
	case msg.IsCommand() && msg.Command() == "start":
		reply, err = b.start(ctx, msg)
	case b.awaitingPin(msg.From.ID):
		reply, err = b.checkPin(ctx, msg)
	case msg.IsCommand():
		reply, err = b.command(ctx, msg)
	default:
		return
	}
	if err != nil {
		log.WithError(err).Error("Telegram update failed")
		reply = tgbotapi.NewMessage(msg.Chat.ID, msgFailed)
	}

	if _, err := b.sender.Send(reply); err != nil {
		log.WithError(err).Warn("Failed to send telegram reply")
	}
}

func (b *Bot) start(ctx context.Context, msg *tgbotapi.Message) (tgbotapi.MessageConfig, error) {
	known, err := b.admins.IsAdmin(ctx, msg.From.ID)
	if err != nil {
		return tgbotapi.MessageConfig{}, err
	}
	if known {
		return menu(msg.Chat.ID, msgMenu), nil
	}

	b.mu.Lock()
	b.pending[msg.From.ID] = struct{}{}
	b.mu.Unlock()
	return tgbotapi.NewMessage(msg.Chat.ID, msgAskPin), nil
}

func (b *Bot) awaitingPin(telegramID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.pending[telegramID]
	return ok
}

func (b *Bot) checkPin(ctx context.Context, msg *tgbotapi.Message) (tgbotapi.MessageConfig, error) {
	b.mu.Lock()
	delete(b.pending, msg.From.ID)
	b.mu.Unlock()

	given := []byte(strings.TrimSpace(msg.Text))
	if len(b.pin) == 0 || subtle.ConstantTimeCompare(given, b.pin) != 1 {
		config.WithContext(ctx).WithField("telegram_id", msg.From.ID).Warn("Wrong admin pin")
		return tgbotapi.NewMessage(msg.Chat.ID, msgWrongPin), nil
	}

	if err := b.admins.Add(ctx, msg.From.ID); err != nil {
		return tgbotapi.MessageConfig{}, err
	}
	config.WithContext(ctx).WithField("telegram_id", msg.From.ID).Info("Telegram admin registered")
	return menu(msg.Chat.ID, msgWelcome), nil
}

func (b *Bot) command(ctx context.Context, msg *tgbotapi.Message) (tgbotapi.MessageConfig, error) {
	known, err := b.admins.IsAdmin(ctx, msg.From.ID)
	if err != nil {
		return tgbotapi.MessageConfig{}, err
	}
	if !known {
		return tgbotapi.NewMessage(msg.Chat.ID, msgSignIn), nil
	}

	args := strings.TrimSpace(msg.CommandArguments())
	switch msg.Command() {
	case "course_code":
		if args == "" {
			return tgbotapi.NewMessage(msg.Chat.ID, msgCourseUsage), nil
		}
		code, err := b.codes.GenerateCourseCode(ctx, args)
		if errors.Is(err, apperr.ErrNotFound) {
			return tgbotapi.NewMessage(msg.Chat.ID, msgNoCourse), nil
		}
		if err != nil {
			return tgbotapi.MessageConfig{}, err
		}
		return tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("Course code for %s: %s", args, code.Code)), nil

	case "test_code":
		days, err := strconv.Atoi(args)
		if err != nil || days <= 0 {
			return tgbotapi.NewMessage(msg.Chat.ID, msgTestUsage), nil
		}
		code, err := b.codes.GenerateTestCode(ctx, days)
		if err != nil {
			return tgbotapi.MessageConfig{}, err
		}
		return tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("Test code for %d days: %s", days, code.Code)), nil
	}
	return menu(msg.Chat.ID, msgMenu), nil
}

func menu(chatID int64, text string) tgbotapi.MessageConfig {
	reply := tgbotapi.NewMessage(chatID, text)
	reply.ReplyMarkup = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/course_code"),
			tgbotapi.NewKeyboardButton("/test_code"),
		),
	)
	return reply
}
