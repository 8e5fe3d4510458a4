package quiz_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/natije-api/internal/apperr"
	"github.com/saulo-duarte/natije-api/internal/quiz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthoringRequiresSuperuser(t *testing.T) {
	f := setup(t)
	student := f.newUser(t, "student@example.com", false, week)

	_, err := f.svc.CreateQuiz(student.ctx, quiz.CreateQuizDTO{Title: "Nope"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.svc.CreateQuiz(context.Background(), quiz.CreateQuizDTO{Title: "Nope"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	admin := f.newUser(t, "admin@example.com", true, 0)
	qz := f.newQuiz(t, admin, false)

	_, err = f.svc.CreateQuestion(student.ctx, qz.ID, quiz.CreateQuestionDTO{Title: "?"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.ErrorIs(t, f.svc.DeleteQuiz(student.ctx, qz.ID), apperr.ErrForbidden)
}

func TestAnswerToggle(t *testing.T) {
	f := setup(t)
	admin := f.newUser(t, "admin@example.com", true, 0)
	student := f.newUser(t, "student@example.com", false, week)
	qz := f.newQuiz(t, admin, false)
	q := f.newQuestion(t, admin, qz.ID, "2 + 2 = ?", false, variantDef{"4", true}, variantDef{"5", false})

	assert.Equal(t, quiz.AnswerRecorded, f.answer(t, student, qz.ID, q, "4"))
	assert.Equal(t, int64(1), f.pendingAnswers(t, student.id))

	assert.Equal(t, quiz.AnswerRemoved, f.answer(t, student, qz.ID, q, "4"))
	assert.Zero(t, f.pendingAnswers(t, student.id))

	assert.Equal(t, quiz.AnswerRecorded, f.answer(t, student, qz.ID, q, "4"))
	assert.Equal(t, quiz.AnswerRecorded, f.answer(t, student, qz.ID, q, "5"))
	assert.Equal(t, int64(2), f.pendingAnswers(t, student.id))
}

func TestAnswerIntegrity(t *testing.T) {
	f := setup(t)
	admin := f.newUser(t, "admin@example.com", true, 0)
	student := f.newUser(t, "student@example.com", false, week)

	qz := f.newQuiz(t, admin, false)
	q1 := f.newQuestion(t, admin, qz.ID, "2 + 2 = ?", false, variantDef{"4", true})
	q2 := f.newQuestion(t, admin, qz.ID, "3 + 3 = ?", false, variantDef{"6", true})

	other := f.newQuiz(t, admin, false)
	foreign := f.newQuestion(t, admin, other.ID, "1 + 1 = ?", false, variantDef{"2", true})

	_, err := f.svc.SubmitAnswer(student.ctx, qz.ID, q1.id, quiz.AnswerDTO{SelectedChoice: q2.variants["6"].String()})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "selected_choice")

	_, err = f.svc.SubmitAnswer(student.ctx, qz.ID, foreign.id, quiz.AnswerDTO{SelectedChoice: foreign.variants["2"].String()})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "question")

	_, err = f.svc.SubmitAnswer(student.ctx, qz.ID, uuid.New(), quiz.AnswerDTO{SelectedChoice: q1.variants["4"].String()})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.svc.SubmitAnswer(student.ctx, qz.ID, q1.id, quiz.AnswerDTO{SelectedChoice: "not-a-uuid"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "selected_choice")

	assert.Zero(t, f.pendingAnswers(t, student.id))
}

func TestTrialGate(t *testing.T) {
	f := setup(t)
	admin := f.newUser(t, "admin@example.com", true, 0)
	expired := f.newUser(t, "expired@example.com", false, 0)
	active := f.newUser(t, "active@example.com", false, time.Hour)

	paid := f.newQuiz(t, admin, false)
	q := f.newQuestion(t, admin, paid.ID, "2 + 2 = ?", false, variantDef{"4", true})
	free := f.newQuiz(t, admin, true)
	fq := f.newQuestion(t, admin, free.ID, "1 + 1 = ?", false, variantDef{"2", true})

	_, err := f.svc.SubmitAnswer(expired.ctx, paid.ID, q.id, quiz.AnswerDTO{SelectedChoice: q.variants["4"].String()})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.svc.Score(expired.ctx, paid.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.svc.Overview(context.Background(), paid.ID)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = f.svc.Overview(active.ctx, paid.ID)
	assert.NoError(t, err)

	assert.Equal(t, quiz.AnswerRecorded, f.answer(t, expired, free.ID, fq, "2"))

	overview, err := f.svc.Overview(context.Background(), free.ID)
	require.NoError(t, err)
	assert.Equal(t, []quiz.QuestionPage{{QuestionID: fq.id, Idx: 1}}, overview.QuestionPagination)
	assert.Empty(t, overview.UserResults)
	assert.Nil(t, overview.UserMaxResult)

	list, err := f.svc.ListQuizzes(expired.ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	access := map[uuid.UUID]bool{}
	for _, item := range list {
		access[item.ID] = item.RequestUserHasAccess
		assert.Equal(t, int64(1), item.QuestionCount)
	}
	assert.False(t, access[paid.ID])
	assert.True(t, access[free.ID])
}

func TestCorrectnessHiddenFromStudents(t *testing.T) {
	f := setup(t)
	admin := f.newUser(t, "admin@example.com", true, 0)
	student := f.newUser(t, "student@example.com", false, week)
	qz := f.newQuiz(t, admin, false)
	q := f.newQuestion(t, admin, qz.ID, "2 + 2 = ?", false, variantDef{"4", true}, variantDef{"5", false})

	got, err := f.svc.GetQuestion(student.ctx, qz.ID, q.id)
	require.NoError(t, err)
	require.Len(t, got.Variants, 2)
	for _, v := range got.Variants {
		assert.Nil(t, v.IsCorrect)
	}

	got, err = f.svc.GetQuestion(admin.ctx, qz.ID, q.id)
	require.NoError(t, err)
	require.NotNil(t, got.Variants[0].IsCorrect)
	assert.True(t, *got.Variants[0].IsCorrect)
}

func TestOverviewWeeklyResults(t *testing.T) {
	f := setup(t)
	admin := f.newUser(t, "admin@example.com", true, 0)
	student := f.newUser(t, "student@example.com", false, week)
	qz := f.newQuiz(t, admin, false)
	q1 := f.newQuestion(t, admin, qz.ID, "first", false)
	q2 := f.newQuestion(t, admin, qz.ID, "second", false)

	results := []quiz.UserResult{
		{UserID: student.id, QuizID: qz.ID, Score: 5, DateAdded: time.Date(2024, time.March, 3, 12, 0, 0, 0, time.UTC)},
		{UserID: student.id, QuizID: qz.ID, Score: 2, DateAdded: time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)},
		{UserID: student.id, QuizID: qz.ID, Score: 0, DateAdded: time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)},
		{UserID: student.id, QuizID: qz.ID, Score: 1, DateAdded: time.Date(2024, time.March, 6, 11, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, f.db.Omit("User", "Quiz").Create(&results).Error)

	overview, err := f.svc.Overview(student.ctx, qz.ID)
	require.NoError(t, err)

	assert.Equal(t, "Arithmetic", overview.Title)
	require.Len(t, overview.QuestionPagination, 2)
	assert.ElementsMatch(t, []uuid.UUID{q1.id, q2.id},
		[]uuid.UUID{overview.QuestionPagination[0].QuestionID, overview.QuestionPagination[1].QuestionID})
	assert.Equal(t, 2, overview.QuestionPagination[1].Idx)

	require.Len(t, overview.UserResults, 3)
	assert.Equal(t, []int{1, 0, 2}, []int{
		overview.UserResults[0].Score, overview.UserResults[1].Score, overview.UserResults[2].Score,
	})
	require.NotNil(t, overview.UserMaxResult)
	assert.Equal(t, 2, overview.UserMaxResult.Score)
	require.NotNil(t, overview.UserMinResult)
	assert.Equal(t, 0, overview.UserMinResult.Score)
}

func TestDeleteQuestionRemovesPendingAnswers(t *testing.T) {
	f := setup(t)
	admin := f.newUser(t, "admin@example.com", true, 0)
	student := f.newUser(t, "student@example.com", false, week)
	qz := f.newQuiz(t, admin, false)
	q := f.newQuestion(t, admin, qz.ID, "2 + 2 = ?", false, variantDef{"4", true})

	f.answer(t, student, qz.ID, q, "4")
	require.NoError(t, f.svc.DeleteQuestion(admin.ctx, qz.ID, q.id))

	assert.Zero(t, f.pendingAnswers(t, student.id))
	_, err := f.svc.GetQuestion(admin.ctx, qz.ID, q.id)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
