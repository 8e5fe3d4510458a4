package quiz_test

import (
	"errors"
	"testing"
	"time"

	"github.com/saulo-duarte/natije-api/internal/apperr"
	"github.com/saulo-duarte/natije-api/internal/quiz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const week = 7 * 24 * time.Hour

func TestScoreSingleCorrectExample(t *testing.T) {
	f := setup(t)
	admin := f.newUser(t, "admin@example.com", true, 0)
	student := f.newUser(t, "student@example.com", false, week)

	qz := f.newQuiz(t, admin, false)
	q := f.newQuestion(t, admin, qz.ID, "2 + 2 = ?", false, variantDef{"4", true}, variantDef{"5", false})

	assert.Equal(t, quiz.AnswerRecorded, f.answer(t, student, qz.ID, q, "4"))

	got, err := f.svc.Score(student.ctx, qz.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalScore)

	var results []quiz.UserResult
	require.NoError(t, f.db.Where("user_id = ? AND quiz_id = ?", student.id, qz.ID).Find(&results).Error)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Score)
	assert.Zero(t, f.pendingAnswers(t, student.id))

	var stored quiz.Quiz
	require.NoError(t, f.db.First(&stored, "id = ?", qz.ID).Error)
	assert.Equal(t, 1, stored.LastResult)
	assert.True(t, f.variant(t, q.variants["4"]).IsSelected)
}

func TestScoreSingleIncorrect(t *testing.T) {
	f := setup(t)
	admin := f.newUser(t, "admin@example.com", true, 0)
	student := f.newUser(t, "student@example.com", false, week)
	qz := f.newQuiz(t, admin, false)
	q := f.newQuestion(t, admin, qz.ID, "2 + 2 = ?", false, variantDef{"4", true}, variantDef{"5", false})

	f.answer(t, student, qz.ID, q, "5")

	got, err := f.svc.Score(student.ctx, qz.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalScore)
	assert.Zero(t, f.pendingAnswers(t, student.id))
	assert.True(t, f.variant(t, q.variants["5"]).IsSelected)
}

func TestScoreSingleLatestChoiceWins(t *testing.T) {
	f := setup(t)
	admin := f.newUser(t, "admin@example.com", true, 0)
	student := f.newUser(t, "student@example.com", false, week)
	qz := f.newQuiz(t, admin, false)
	q := f.newQuestion(t, admin, qz.ID, "2 + 2 = ?", false, variantDef{"4", true}, variantDef{"5", false})

	f.answer(t, student, qz.ID, q, "5")
	time.Sleep(2 * time.Millisecond)
	f.answer(t, student, qz.ID, q, "4")

	got, err := f.svc.Score(student.ctx, qz.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalScore)
	assert.True(t, f.variant(t, q.variants["4"]).IsSelected)
	assert.False(t, f.variant(t, q.variants["5"]).IsSelected)
}

func TestScoreMultipleCorrect(t *testing.T) {
	variants := []variantDef{{"2", true}, {"3", true}, {"4", false}}

	t.Run("AllCorrect", func(t *testing.T) {
		f := setup(t)
		admin := f.newUser(t, "admin@example.com", true, 0)
		student := f.newUser(t, "student@example.com", false, week)
		qz := f.newQuiz(t, admin, false)
		q := f.newQuestion(t, admin, qz.ID, "Primes?", true, variants...)

		f.answer(t, student, qz.ID, q, "2")
		f.answer(t, student, qz.ID, q, "3")

		got, err := f.svc.Score(student.ctx, qz.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.TotalScore)
		assert.True(t, f.variant(t, q.variants["2"]).IsSelected)
		assert.True(t, f.variant(t, q.variants["3"]).IsSelected)
		assert.Zero(t, f.pendingAnswers(t, student.id))
	})

	t.Run("OneIncorrect", func(t *testing.T) {
		f := setup(t)
		admin := f.newUser(t, "admin@example.com", true, 0)
		student := f.newUser(t, "student@example.com", false, week)
		qz := f.newQuiz(t, admin, false)
		q := f.newQuestion(t, admin, qz.ID, "Primes?", true, variants...)

		f.answer(t, student, qz.ID, q, "2")
		time.Sleep(2 * time.Millisecond)
		f.answer(t, student, qz.ID, q, "4")
		time.Sleep(2 * time.Millisecond)
		f.answer(t, student, qz.ID, q, "3")

		got, err := f.svc.Score(student.ctx, qz.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.TotalScore)
		assert.Zero(t, f.pendingAnswers(t, student.id))

		// Marks set before the incorrect choice stay; later ones are never set.
		assert.True(t, f.variant(t, q.variants["2"]).IsSelected)
		assert.False(t, f.variant(t, q.variants["4"]).IsSelected)
		assert.False(t, f.variant(t, q.variants["3"]).IsSelected)
	})
}

func TestScoreMixedQuestions(t *testing.T) {
	f := setup(t)
	admin := f.newUser(t, "admin@example.com", true, 0)
	student := f.newUser(t, "student@example.com", false, week)
	qz := f.newQuiz(t, admin, false)

	single := f.newQuestion(t, admin, qz.ID, "2 + 2 = ?", false, variantDef{"4", true}, variantDef{"5", false})
	multi := f.newQuestion(t, admin, qz.ID, "Even?", true, variantDef{"2", true}, variantDef{"6", true}, variantDef{"7", false})
	wrong := f.newQuestion(t, admin, qz.ID, "3 * 3 = ?", false, variantDef{"9", true}, variantDef{"6", false})

	f.answer(t, student, qz.ID, single, "4")
	f.answer(t, student, qz.ID, multi, "2")
	f.answer(t, student, qz.ID, multi, "6")
	f.answer(t, student, qz.ID, wrong, "6")

	got, err := f.svc.Score(student.ctx, qz.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalScore)
	assert.Zero(t, f.pendingAnswers(t, student.id))
}

func TestScoreWithoutAnswers(t *testing.T) {
	f := setup(t)
	admin := f.newUser(t, "admin@example.com", true, 0)
	student := f.newUser(t, "student@example.com", false, week)
	qz := f.newQuiz(t, admin, false)

	got, err := f.svc.Score(student.ctx, qz.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalScore)

	var n int64
	require.NoError(t, f.db.Model(&quiz.UserResult{}).Where("user_id = ?", student.id).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestLastResultKeepsBest(t *testing.T) {
	f := setup(t)
	admin := f.newUser(t, "admin@example.com", true, 0)
	student := f.newUser(t, "student@example.com", false, week)
	qz := f.newQuiz(t, admin, false)
	q := f.newQuestion(t, admin, qz.ID, "2 + 2 = ?", false, variantDef{"4", true}, variantDef{"5", false})

	f.answer(t, student, qz.ID, q, "4")
	_, err := f.svc.Score(student.ctx, qz.ID)
	require.NoError(t, err)

	f.answer(t, student, qz.ID, q, "5")
	got, err := f.svc.Score(student.ctx, qz.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalScore)

	var stored quiz.Quiz
	require.NoError(t, f.db.First(&stored, "id = ?", qz.ID).Error)
	assert.Equal(t, 1, stored.LastResult)
}

func TestScoreFailureLeavesStateUntouched(t *testing.T) {
	f := setup(t)
	admin := f.newUser(t, "admin@example.com", true, 0)
	student := f.newUser(t, "student@example.com", false, week)
	qz := f.newQuiz(t, admin, false)
	q := f.newQuestion(t, admin, qz.ID, "2 + 2 = ?", false, variantDef{"4", true}, variantDef{"5", false})

	f.answer(t, student, qz.ID, q, "4")
	_, err := f.svc.Score(student.ctx, qz.ID)
	require.NoError(t, err)

	f.answer(t, student, qz.ID, q, "5")

	errDiskFull := errors.New("disk full")
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:fail_results", func(db *gorm.DB) {
		if db.Statement.Table == "user_results" {
			db.AddError(errDiskFull)
		}
	}))

	_, err = f.svc.Score(student.ctx, qz.ID)
	assert.ErrorIs(t, err, errDiskFull)

	assert.Equal(t, int64(1), f.pendingAnswers(t, student.id))
	assert.True(t, f.variant(t, q.variants["4"]).IsSelected)
	assert.False(t, f.variant(t, q.variants["5"]).IsSelected)

	var n int64
	require.NoError(t, f.db.Model(&quiz.UserResult{}).Where("user_id = ?", student.id).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestScoreConflictWhenAnswersVanish(t *testing.T) {
	f := setup(t)
	admin := f.newUser(t, "admin@example.com", true, 0)
	student := f.newUser(t, "student@example.com", false, week)
	qz := f.newQuiz(t, admin, false)
	q1 := f.newQuestion(t, admin, qz.ID, "2 + 2 = ?", false, variantDef{"4", true}, variantDef{"5", false})
	q2 := f.newQuestion(t, admin, qz.ID, "3 + 3 = ?", false, variantDef{"6", true}, variantDef{"7", false})

	f.answer(t, student, qz.ID, q1, "4")
	f.answer(t, student, qz.ID, q2, "6")

	var taken quiz.UserAnswer
	require.NoError(t, f.db.Where("user_id = ? AND question_id = ?", student.id, q2.id).First(&taken).Error)

	// Another pass consumes one answer between our read and our delete.
	fired := false
	require.NoError(t, f.db.Callback().Delete().Before("gorm:delete").Register("test:steal_answer", func(db *gorm.DB) {
		if fired || db.Statement.Table != "user_answers" {
			return
		}
		fired = true
		_, err := db.Statement.ConnPool.ExecContext(db.Statement.Context, "DELETE FROM user_answers WHERE id = ?", taken.ID)
		db.AddError(err)
	}))

	_, err := f.svc.Score(student.ctx, qz.ID)
	require.ErrorIs(t, err, quiz.ErrScoringConflict)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.True(t, fired)

	var n int64
	require.NoError(t, f.db.Model(&quiz.UserResult{}).Where("user_id = ?", student.id).Count(&n).Error)
	assert.Zero(t, n)
	assert.Equal(t, int64(2), f.pendingAnswers(t, student.id))
	assert.False(t, f.variant(t, q1.variants["4"]).IsSelected)
}
