package quiz

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/saulo-duarte/natije-api/internal/access"
	"github.com/saulo-duarte/natije-api/internal/apperr"
	"github.com/saulo-duarte/natije-api/internal/config"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	scoringRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quiz_scoring_runs_total",
		Help: "Scoring passes by outcome.",
	}, []string{"outcome"})

	scoreObserved = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "quiz_score",
		Help:    "Scores produced by scoring passes.",
		Buckets: prometheus.LinearBuckets(0, 5, 10),
	})
)

// ErrScoringConflict is returned when the pending answers change while a
// scoring pass consumes them.
var ErrScoringConflict = apperr.Conflict("Answers changed while scoring, try again.")

// Scorer turns a user's pending answers for a quiz into a result.
type Scorer struct {
	db  *gorm.DB
	now access.Clock
}

func NewScorer(db *gorm.DB, now access.Clock) *Scorer {
	if now == nil {
		now = time.Now
	}
	return &Scorer{db: db, now: now}
}

// Score runs one scoring pass in a single transaction: it consumes every
// pending answer of the user for the quiz, stores a UserResult and raises
// the quiz's last_result when the new score is higher. A pass with no
// pending answers still stores a zero result. The pending rows are locked
// for update; a pass that cannot delete every row it read fails with
// ErrScoringConflict and changes nothing.
func (s *Scorer) Score(ctx context.Context, userID, quizID uuid.UUID) (int, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{"quiz_id": quizID})

	var score int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var answers []UserAnswer
		err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
			Preload("Question").Preload("Variant").
			Where("user_id = ? AND quiz_id = ?", userID, quizID).
			Order("created_at ASC").
			Find(&answers).Error
		if err != nil {
			return err
		}

		var order []uuid.UUID
		byQuestion := map[uuid.UUID][]UserAnswer{}
		for _, a := range answers {
			if a.Question == nil || a.Variant == nil {
				continue
			}
			if _, seen := byQuestion[a.QuestionID]; !seen {
				order = append(order, a.QuestionID)
			}
			byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a)
		}

		for _, questionID := range order {
			points, err := scoreQuestion(tx, byQuestion[questionID])
			if err != nil {
				return err
			}
			score += points
		}

		if len(answers) > 0 {
			ids := make([]uuid.UUID, len(answers))
			for i, a := range answers {
				ids[i] = a.ID
			}
			res := tx.Where("id IN ?", ids).Delete(&UserAnswer{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != int64(len(ids)) {
				return ErrScoringConflict
			}
		}

		result := &UserResult{UserID: userID, QuizID: quizID, Score: score, DateAdded: s.now().UTC()}
		if err := tx.Omit(clause.Associations).Create(result).Error; err != nil {
			return err
		}

		return tx.Model(&Quiz{}).
			Where("id = ? AND last_result < ?", quizID, score).
			Update("last_result", score).Error
	})
	if err != nil {
		scoringRuns.WithLabelValues("error").Inc()
		log.WithError(err).Error("Scoring pass failed")
		return 0, err
	}

	scoringRuns.WithLabelValues("ok").Inc()
	scoreObserved.Observe(float64(score))
	log.WithField("score", score).Info("Quiz scored")
	return score, nil
}

// scoreQuestion settles one question's answers, given in submission order.
// A single-answer question counts its latest choice. A multiple-answer
// question counts only when every chosen variant is correct; marking stops
// at the first incorrect choice and marks already set are kept.
func scoreQuestion(tx *gorm.DB, answers []UserAnswer) (int, error) {
	question := answers[0].Question

	if err := tx.Model(&Variant{}).Where("question_id = ?", question.ID).Update("is_selected", false).Error; err != nil {
		return 0, err
	}

	if !question.HasMultipleCorrectAnswers {
		choice := answers[len(answers)-1].Variant
		if err := markSelected(tx, choice.ID); err != nil {
			return 0, err
		}
		if choice.IsCorrect {
			return 1, nil
		}
		return 0, nil
	}

	for _, a := range answers {
		if !a.Variant.IsCorrect {
			return 0, nil
		}
		if err := markSelected(tx, a.Variant.ID); err != nil {
			return 0, err
		}
	}
	return 1, nil
}

func markSelected(tx *gorm.DB, variantID uuid.UUID) error {
	return tx.Model(&Variant{}).Where("id = ?", variantID).Update("is_selected", true).Error
}
