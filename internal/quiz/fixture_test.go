package quiz_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/natije-api/internal/access"
	"github.com/saulo-duarte/natije-api/internal/auth"
	"github.com/saulo-duarte/natije-api/internal/quiz"
	"github.com/saulo-duarte/natije-api/internal/testutil"
	"github.com/saulo-duarte/natije-api/internal/user"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Wednesday.
var fixedNow = time.Date(2024, time.March, 6, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db    *gorm.DB
	svc   quiz.QuizService
	users user.UserRepository
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t, append(user.Models(), quiz.Models()...)...)

	users := user.NewRepository(db)
	require.NoError(t, users.EnsureRoles(context.Background()))

	clock := func() time.Time { return fixedNow }
	return &fixture{
		db:    db,
		svc:   quiz.NewService(db, quiz.NewRepository(db), users, clock),
		users: users,
	}
}

type account struct {
	id  uuid.UUID
	ctx context.Context
}

func (f *fixture) newUser(t *testing.T, email string, superuser bool, trial time.Duration) account {
	t.Helper()
	ctx := context.Background()

	role, err := f.users.GetRoleByName(ctx, access.RoleStudent)
	require.NoError(t, err)
	u := &user.User{Email: email, FirstName: "F", LastName: "L", RoleID: role.ID, IsSuperuser: superuser}
	require.NoError(t, f.users.Create(ctx, u))

	if trial > 0 {
		_, err := f.users.ExtendTrial(ctx, u.ID, trial, fixedNow)
		require.NoError(t, err)
	}

	claims := &auth.Claims{UserID: u.ID.String(), Role: role.Name, Type: auth.AccessToken}
	return account{id: u.ID, ctx: auth.WithClaims(ctx, claims)}
}

type builtQuestion struct {
	id       uuid.UUID
	variants map[string]uuid.UUID
}

type variantDef struct {
	title   string
	correct bool
}

func (f *fixture) newQuiz(t *testing.T, admin account, trial bool) *quiz.Quiz {
	t.Helper()
	q, err := f.svc.CreateQuiz(admin.ctx, quiz.CreateQuizDTO{Title: "Arithmetic", IsTrial: trial})
	require.NoError(t, err)
	return q
}

func (f *fixture) newQuestion(t *testing.T, admin account, quizID uuid.UUID, title string, multiple bool, variants ...variantDef) builtQuestion {
	t.Helper()
	q, err := f.svc.CreateQuestion(admin.ctx, quizID, quiz.CreateQuestionDTO{
		Title: title, HasMultipleCorrectAnswers: multiple,
	})
	require.NoError(t, err)

	built := builtQuestion{id: q.ID, variants: map[string]uuid.UUID{}}
	for _, v := range variants {
		created, err := f.svc.CreateVariant(admin.ctx, quizID, q.ID, quiz.CreateVariantDTO{Title: v.title, IsCorrect: v.correct})
		require.NoError(t, err)
		built.variants[v.title] = created.ID
	}
	return built
}

func (f *fixture) answer(t *testing.T, who account, quizID uuid.UUID, q builtQuestion, variant string) string {
	t.Helper()
	resp, err := f.svc.SubmitAnswer(who.ctx, quizID, q.id, quiz.AnswerDTO{SelectedChoice: q.variants[variant].String()})
	require.NoError(t, err)
	return resp.Status
}

func (f *fixture) pendingAnswers(t *testing.T, userID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&quiz.UserAnswer{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func (f *fixture) variant(t *testing.T, id uuid.UUID) quiz.Variant {
	t.Helper()
	var v quiz.Variant
	require.NoError(t, f.db.First(&v, "id = ?", id).Error)
	return v
}
