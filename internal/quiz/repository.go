package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/natije-api/internal/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrQuizNotFound     = fmt.Errorf("quiz %w", apperr.ErrNotFound)
	ErrQuestionNotFound = fmt.Errorf("question %w", apperr.ErrNotFound)
	ErrVariantNotFound  = fmt.Errorf("variant %w", apperr.ErrNotFound)
)

type QuizRepository interface {
	Create(ctx context.Context, q *Quiz) error
	List(ctx context.Context) ([]Quiz, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Quiz, error)
	Update(ctx context.Context, q *Quiz) error
	Delete(ctx context.Context, id uuid.UUID) error
	QuestionCounts(ctx context.Context) (map[uuid.UUID]int64, error)

	AddQuestions(ctx context.Context, questions []Question) error
	ListQuestionIDs(ctx context.Context, quizID uuid.UUID) ([]uuid.UUID, error)
	GetQuestion(ctx context.Context, id uuid.UUID) (*Question, error)
	UpdateQuestion(ctx context.Context, q *Question) error
	DeleteQuestion(ctx context.Context, id uuid.UUID) error

	AddVariant(ctx context.Context, v *Variant) error
	GetVariant(ctx context.Context, id uuid.UUID) (*Variant, error)
	UpdateVariant(ctx context.Context, v *Variant) error
	DeleteVariant(ctx context.Context, id uuid.UUID) error

	// ToggleAnswer removes an identical pending answer if there is one and
	// records it otherwise. It reports whether the answer was recorded.
	ToggleAnswer(ctx context.Context, a *UserAnswer) (bool, error)
	ResultsBetween(ctx context.Context, userID, quizID uuid.UUID, from, to time.Time) ([]UserResult, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func deleteByID(ctx context.Context, db *gorm.DB, model any, id uuid.UUID, sentinel error) error {
	res := db.WithContext(ctx).Delete(model, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return sentinel
	}
	return nil
}

func (r *quizRepository) Create(ctx context.Context, q *Quiz) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(q).Error
}

func (r *quizRepository) List(ctx context.Context) ([]Quiz, error) {
	var quizzes []Quiz
	err := r.db.WithContext(ctx).Order("published_at ASC").Find(&quizzes).Error
	return quizzes, err
}

func (r *quizRepository) GetByID(ctx context.Context, id uuid.UUID) (*Quiz, error) {
	var q Quiz
	if err := r.db.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrQuizNotFound)
	}
	return &q, nil
}

func (r *quizRepository) Update(ctx context.Context, q *Quiz) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(q).Error
}

func (r *quizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &Quiz{}, id, ErrQuizNotFound)
}

func (r *quizRepository) QuestionCounts(ctx context.Context) (map[uuid.UUID]int64, error) {
	var rows []struct {
		QuizID uuid.UUID
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&Question{}).
		Select("quiz_id, COUNT(*) AS count").
		Group("quiz_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.QuizID] = row.Count
	}
	return counts, nil
}

// AddQuestions inserts questions together with their variants.
func (r *quizRepository) AddQuestions(ctx context.Context, questions []Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&questions).Error
}

func (r *quizRepository) ListQuestionIDs(ctx context.Context, quizID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&Question{}).
		Where("quiz_id = ?", quizID).
		Order("created_at ASC, title ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *quizRepository) GetQuestion(ctx context.Context, id uuid.UUID) (*Question, error) {
	var q Question
	err := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("title ASC") }).
		First(&q, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, ErrQuestionNotFound)
	}
	return &q, nil
}

func (r *quizRepository) UpdateQuestion(ctx context.Context, q *Question) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(q).Error
}

func (r *quizRepository) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &Question{}, id, ErrQuestionNotFound)
}

func (r *quizRepository) AddVariant(ctx context.Context, v *Variant) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *quizRepository) GetVariant(ctx context.Context, id uuid.UUID) (*Variant, error) {
	var v Variant
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrVariantNotFound)
	}
	return &v, nil
}

func (r *quizRepository) UpdateVariant(ctx context.Context, v *Variant) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *quizRepository) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &Variant{}, id, ErrVariantNotFound)
}

func (r *quizRepository) ToggleAnswer(ctx context.Context, a *UserAnswer) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ? AND question_id = ? AND variant_id = ?",
			a.UserID, a.QuizID, a.QuestionID, a.VariantID).
		Delete(&UserAnswer{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *quizRepository) ResultsBetween(ctx context.Context, userID, quizID uuid.UUID, from, to time.Time) ([]UserResult, error) {
	var results []UserResult
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ? AND date_added >= ? AND date_added < ?", userID, quizID, from.UTC(), to.UTC()).
		Order("date_added DESC").
		Find(&results).Error
	return results, err
}
