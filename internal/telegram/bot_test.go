package telegram_test

import (
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/saulo-duarte/natije-api/internal/accesscode"
	"github.com/saulo-duarte/natije-api/internal/course"
	"github.com/saulo-duarte/natije-api/internal/telegram"
	"github.com/saulo-duarte/natije-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pin = "12345678"

type recorder struct {
	sent []tgbotapi.MessageConfig
}

func (r *recorder) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	r.sent = append(r.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func (r *recorder) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	require.NotEmpty(t, r.sent)
	return r.sent[len(r.sent)-1]
}

type fakeCodes struct {
	courses map[string]bool
	days    []int
}

func (f *fakeCodes) GenerateCourseCode(_ context.Context, name string) (*accesscode.AccessCode, error) {
	if !f.courses[name] {
		return nil, course.ErrCourseNotFound
	}
	return &accesscode.AccessCode{Code: "CRS123", Kind: accesscode.KindCourse}, nil
}

func (f *fakeCodes) GenerateTestCode(_ context.Context, days int) (*accesscode.AccessCode, error) {
	f.days = append(f.days, days)
	return &accesscode.AccessCode{Code: "TST456", Kind: accesscode.KindTest}, nil
}

func (f *fakeCodes) Redeem(context.Context, accesscode.RedeemDTO) (*accesscode.RedeemResponse, error) {
	return nil, nil
}

func setup(t *testing.T) (*telegram.Bot, *recorder, *fakeCodes, telegram.AdminRepository) {
	t.Helper()
	db := testutil.NewDB(t, telegram.Models()...)
	repo := telegram.NewRepository(db)
	out := &recorder{}
	codes := &fakeCodes{courses: map[string]bool{"Algebra": true}}
	return telegram.NewBot(out, repo, codes, pin), out, codes, repo
}

func message(from int64, text string) *tgbotapi.Message {
	msg := &tgbotapi.Message{
		From: &tgbotapi.User{ID: from},
		Chat: &tgbotapi.Chat{ID: from},
		Text: text,
	}
	if strings.HasPrefix(text, "/") {
		name, _, _ := strings.Cut(text, " ")
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}}
	}
	return msg
}

func TestPinFlow(t *testing.T) {
	bot, out, _, admins := setup(t)
	ctx := context.Background()

	bot.Handle(ctx, message(7, "/start"))
	assert.Equal(t, "Pin code:", out.last(t).Text)

	bot.Handle(ctx, message(7, " 12345678 "))
	assert.Equal(t, "Signed in. Choose an action.", out.last(t).Text)
	assert.NotNil(t, out.last(t).ReplyMarkup)

	ok, err := admins.IsAdmin(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	bot.Handle(ctx, message(7, "/start"))
	assert.Equal(t, "Choose an action.", out.last(t).Text)
}

func TestWrongPin(t *testing.T) {
	bot, out, _, admins := setup(t)
	ctx := context.Background()

	bot.Handle(ctx, message(9, "/start"))
	bot.Handle(ctx, message(9, "0000"))
	assert.Equal(t, "Wrong pin. Start again with /start", out.last(t).Text)

	ok, err := admins.IsAdmin(ctx, 9)
	require.NoError(t, err)
	assert.False(t, ok)

	// The pin prompt is consumed by the failed attempt.
	bot.Handle(ctx, message(9, pin))
	assert.Len(t, out.sent, 2)
}

func TestCommandsRequireAdmin(t *testing.T) {
	bot, out, codes, _ := setup(t)

	bot.Handle(context.Background(), message(11, "/test_code 3"))
	assert.Equal(t, "Send /start to sign in.", out.last(t).Text)
	assert.Empty(t, codes.days)
}

func TestAdminCommands(t *testing.T) {
	bot, out, codes, admins := setup(t)
	ctx := context.Background()
	require.NoError(t, admins.Add(ctx, 5))

	bot.Handle(ctx, message(5, "/course_code Algebra"))
	assert.Equal(t, "Course code for Algebra: CRS123", out.last(t).Text)

	bot.Handle(ctx, message(5, "/course_code Geometry"))
	assert.Equal(t, "Course not found.", out.last(t).Text)

	bot.Handle(ctx, message(5, "/course_code"))
	assert.Equal(t, "Usage: /course_code <course name>", out.last(t).Text)

	bot.Handle(ctx, message(5, "/test_code 14"))
	assert.Equal(t, "Test code for 14 days: TST456", out.last(t).Text)
	assert.Equal(t, []int{14}, codes.days)

	bot.Handle(ctx, message(5, "/test_code soon"))
	assert.Equal(t, "Usage: /test_code <days>", out.last(t).Text)
}

func TestRunStopsWhenChannelCloses(t *testing.T) {
	bot, out, _, _ := setup(t)

	updates := make(chan tgbotapi.Update, 2)
	updates <- tgbotapi.Update{Message: message(3, "/start")}
	updates <- tgbotapi.Update{}
	close(updates)

	require.NoError(t, bot.Run(context.Background(), updates))
	assert.Len(t, out.sent, 1)
}
