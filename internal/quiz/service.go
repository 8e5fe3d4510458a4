package quiz

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/saulo-duarte/natije-api/internal/access"
	"github.com/saulo-duarte/natije-api/internal/apperr"
	"github.com/saulo-duarte/natije-api/internal/config"
	util "github.com/saulo-duarte/natije-api/internal/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const weeklyResultsLimit = 10

var answersToggled = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "quiz_answers_total",
	Help: "Answer submissions by resulting status.",
}, []string{"status"})

type QuizService interface {
	ListQuizzes(ctx context.Context) ([]QuizResponse, error)
	CreateQuiz(ctx context.Context, dto CreateQuizDTO) (*Quiz, error)
	UpdateQuiz(ctx context.Context, quizID uuid.UUID, dto UpdateQuizDTO) (*Quiz, error)
	DeleteQuiz(ctx context.Context, quizID uuid.UUID) error
	Overview(ctx context.Context, quizID uuid.UUID) (*QuizOverview, error)

	CreateQuestion(ctx context.Context, quizID uuid.UUID, dto CreateQuestionDTO) (*QuestionResponse, error)
	GetQuestion(ctx context.Context, quizID, questionID uuid.UUID) (*QuestionResponse, error)
	UpdateQuestion(ctx context.Context, quizID, questionID uuid.UUID, dto UpdateQuestionDTO) (*QuestionResponse, error)
	DeleteQuestion(ctx context.Context, quizID, questionID uuid.UUID) error

	CreateVariant(ctx context.Context, quizID, questionID uuid.UUID, dto CreateVariantDTO) (*Variant, error)
	UpdateVariant(ctx context.Context, variantID uuid.UUID, dto UpdateVariantDTO) (*Variant, error)
	DeleteVariant(ctx context.Context, variantID uuid.UUID) error

	SubmitAnswer(ctx context.Context, quizID, questionID uuid.UUID, dto AnswerDTO) (*AnswerResponse, error)
	Score(ctx context.Context, quizID uuid.UUID) (*ScoreResponse, error)
}

type quizService struct {
	db     *gorm.DB
	repo   QuizRepository
	actors access.ActorSource
	policy *access.Policy
	scorer *Scorer
}

func NewService(db *gorm.DB, repo QuizRepository, actors access.ActorSource, now access.Clock) QuizService {
	return &quizService{
		db:     db,
		repo:   repo,
		actors: actors,
		policy: access.NewPolicy(nil, now),
		scorer: NewScorer(db, now),
	}
}

func (s *quizService) superuser(ctx context.Context) (*access.Actor, error) {
	actor, err := access.Require(ctx, s.actors)
	if err != nil {
		return nil, err
	}
	if err := s.policy.RequireSuperuser(actor); err != nil {
		return nil, err
	}
	return actor, nil
}

// viewable loads a quiz and applies the trial gate for the current actor.
func (s *quizService) viewable(ctx context.Context, quizID uuid.UUID, mustLogin bool) (*Quiz, *access.Actor, error) {
	resolve := access.Resolve
	if mustLogin {
		resolve = access.Require
	}
	actor, err := resolve(ctx, s.actors)
	if err != nil {
		return nil, nil, err
	}

	q, err := s.repo.GetByID(ctx, quizID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.policy.CanViewQuiz(actor, q); err != nil {
		return nil, nil, err
	}
	return q, actor, nil
}

func (s *quizService) questionOf(ctx context.Context, quizID, questionID uuid.UUID) (*Question, error) {
	q, err := s.repo.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if q.QuizID != quizID {
		return nil, ErrQuestionNotFound
	}
	return q, nil
}

// ListQuizzes reports max_score as the running maximum of last_result over
// the listing order.
func (s *quizService) ListQuizzes(ctx context.Context) ([]QuizResponse, error) {
	actor, err := access.Resolve(ctx, s.actors)
	if err != nil {
		return nil, err
	}

	quizzes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.QuestionCounts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]QuizResponse, 0, len(quizzes))
	maxScore := 0
	for i := range quizzes {
		q := &quizzes[i]
		maxScore = max(maxScore, q.LastResult)
		out = append(out, QuizResponse{
			ID:                   q.ID,
			Title:                q.Title,
			Description:          q.Description,
			Completed:            q.Completed,
			DatePublished:        q.PublishedAt,
			QuestionCount:        counts[q.ID],
			LastResult:           q.LastResult,
			IsTrial:              q.IsTrial,
			RequestUserHasAccess: s.policy.HasQuizAccess(actor, q),
			MaxScore:             maxScore,
		})
	}
	return out, nil
}

func (s *quizService) CreateQuiz(ctx context.Context, dto CreateQuizDTO) (*Quiz, error) {
	if _, err := s.superuser(ctx); err != nil {
		return nil, err
	}
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	q := &Quiz{Title: dto.Title, Description: dto.Description, Completed: dto.Completed, IsTrial: dto.IsTrial}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}

	config.WithContext(ctx).WithField("quiz_id", q.ID).Info("Quiz created")
	return q, nil
}

func (s *quizService) UpdateQuiz(ctx context.Context, quizID uuid.UUID, dto UpdateQuizDTO) (*Quiz, error) {
	if _, err := s.superuser(ctx); err != nil {
		return nil, err
	}
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	q, err := s.repo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if dto.Title != nil {
		q.Title = *dto.Title
	}
	if dto.Description != nil {
		q.Description = *dto.Description
	}
	if dto.Completed != nil {
		q.Completed = *dto.Completed
	}
	if dto.IsTrial != nil {
		q.IsTrial = *dto.IsTrial
	}
	if err := s.repo.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *quizService) DeleteQuiz(ctx context.Context, quizID uuid.UUID) error {
	if _, err := s.superuser(ctx); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, quizID); err != nil {
		return err
	}

	config.WithContext(ctx).WithField("quiz_id", quizID).Info("Quiz deleted")
	return nil
}

func (s *quizService) Overview(ctx context.Context, quizID uuid.UUID) (*QuizOverview, error) {
	q, actor, err := s.viewable(ctx, quizID, false)
	if err != nil {
		return nil, err
	}

	ids, err := s.repo.ListQuestionIDs(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	out := &QuizOverview{
		Title:              q.Title,
		QuestionPagination: make([]QuestionPage, 0, len(ids)),
		UserResults:        []ResultEntry{},
	}
	for i, id := range ids {
		out.QuestionPagination = append(out.QuestionPagination, QuestionPage{QuestionID: id, Idx: i + 1})
	}
	if actor == nil {
		return out, nil
	}

	from, to := util.WeekBounds(s.policy.Now())
	results, err := s.repo.ResultsBetween(ctx, actor.UserID, q.ID, from, to)
	if err != nil {
		return nil, err
	}

	for i, r := range results {
		entry := ResultEntry{Score: r.Score, Date: r.DateAdded}
		if out.UserMaxResult == nil || entry.Score > out.UserMaxResult.Score {
			e := entry
			out.UserMaxResult = &e
		}
		if out.UserMinResult == nil || entry.Score < out.UserMinResult.Score {
			e := entry
			out.UserMinResult = &e
		}
		if i < weeklyResultsLimit {
			out.UserResults = append(out.UserResults, entry)
		}
	}
	return out, nil
}

func (s *quizService) CreateQuestion(ctx context.Context, quizID uuid.UUID, dto CreateQuestionDTO) (*QuestionResponse, error) {
	if _, err := s.superuser(ctx); err != nil {
		return nil, err
	}
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, quizID); err != nil {
		return nil, err
	}

	questions := []Question{{Title: dto.Title, HasMultipleCorrectAnswers: dto.HasMultipleCorrectAnswers, QuizID: quizID}}
	if err := s.repo.AddQuestions(ctx, questions); err != nil {
		return nil, err
	}
	return s.questionResponse(ctx, quizID, questions[0].ID, true)
}

func (s *quizService) questionResponse(ctx context.Context, quizID, questionID uuid.UUID, reveal bool) (*QuestionResponse, error) {
	q, err := s.questionOf(ctx, quizID, questionID)
	if err != nil {
		return nil, err
	}
	return toQuestionResponse(q, reveal), nil
}

func (s *quizService) GetQuestion(ctx context.Context, quizID, questionID uuid.UUID) (*QuestionResponse, error) {
	_, actor, err := s.viewable(ctx, quizID, false)
	if err != nil {
		return nil, err
	}
	return s.questionResponse(ctx, quizID, questionID, actor != nil && actor.Superuser)
}

func (s *quizService) UpdateQuestion(ctx context.Context, quizID, questionID uuid.UUID, dto UpdateQuestionDTO) (*QuestionResponse, error) {
	if _, err := s.superuser(ctx); err != nil {
		return nil, err
	}
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	q, err := s.questionOf(ctx, quizID, questionID)
	if err != nil {
		return nil, err
	}
	if dto.Title != nil {
		q.Title = *dto.Title
	}
	if dto.HasMultipleCorrectAnswers != nil {
		q.HasMultipleCorrectAnswers = *dto.HasMultipleCorrectAnswers
	}
	if err := s.repo.UpdateQuestion(ctx, q); err != nil {
		return nil, err
	}
	return toQuestionResponse(q, true), nil
}

func (s *quizService) DeleteQuestion(ctx context.Context, quizID, questionID uuid.UUID) error {
	if _, err := s.superuser(ctx); err != nil {
		return err
	}
	q, err := s.questionOf(ctx, quizID, questionID)
	if err != nil {
		return err
	}
	return s.repo.DeleteQuestion(ctx, q.ID)
}

func (s *quizService) CreateVariant(ctx context.Context, quizID, questionID uuid.UUID, dto CreateVariantDTO) (*Variant, error) {
	if _, err := s.superuser(ctx); err != nil {
		return nil, err
	}
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}
	q, err := s.questionOf(ctx, quizID, questionID)
	if err != nil {
		return nil, err
	}

	v := &Variant{Title: dto.Title, IsCorrect: dto.IsCorrect, QuestionID: q.ID}
	if err := s.repo.AddVariant(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *quizService) UpdateVariant(ctx context.Context, variantID uuid.UUID, dto UpdateVariantDTO) (*Variant, error) {
	if _, err := s.superuser(ctx); err != nil {
		return nil, err
	}
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	v, err := s.repo.GetVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if dto.Title != nil {
		v.Title = *dto.Title
	}
	if dto.IsCorrect != nil {
		v.IsCorrect = *dto.IsCorrect
	}
	if err := s.repo.UpdateVariant(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *quizService) DeleteVariant(ctx context.Context, variantID uuid.UUID) error {
	if _, err := s.superuser(ctx); err != nil {
		return err
	}
	return s.repo.DeleteVariant(ctx, variantID)
}

// SubmitAnswer toggles a pending answer: resubmitting the same choice
// retracts it.
func (s *quizService) SubmitAnswer(ctx context.Context, quizID, questionID uuid.UUID, dto AnswerDTO) (*AnswerResponse, error) {
	log := config.WithContext(ctx)

	q, actor, err := s.viewable(ctx, quizID, true)
	if err != nil {
		return nil, err
	}
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}
	variantID, err := uuid.Parse(dto.SelectedChoice)
	if err != nil {
		return nil, apperr.Invalid("selected_choice", "Must be a valid UUID.")
	}

	resp := &AnswerResponse{SelectedChoice: variantID, Question: questionID, Quiz: q.ID}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		question, err := repo.GetQuestion(ctx, questionID)
		if err != nil {
			return err
		}
		if question.QuizID != q.ID {
			return apperr.Invalid("question", "This question does not belong to the quiz.")
		}

		belongs := false
		for _, v := range question.Variants {
			if v.ID == variantID {
				belongs = true
				break
			}
		}
		if !belongs {
			return apperr.Invalid("selected_choice", "This variant does not belong to the question.")
		}

		recorded, err := repo.ToggleAnswer(ctx, &UserAnswer{
			UserID:     actor.UserID,
			QuizID:     q.ID,
			QuestionID: question.ID,
			VariantID:  variantID,
		})
		if err != nil {
			return err
		}
		resp.Status = AnswerRemoved
		if recorded {
			resp.Status = AnswerRecorded
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	answersToggled.WithLabelValues(resp.Status).Inc()
	log.WithFields(logrus.Fields{"quiz_id": q.ID, "question_id": questionID, "status": resp.Status}).Debug("Answer toggled")
	return resp, nil
}

func (s *quizService) Score(ctx context.Context, quizID uuid.UUID) (*ScoreResponse, error) {
	q, actor, err := s.viewable(ctx, quizID, true)
	if err != nil {
		return nil, err
	}

	score, err := s.scorer.Score(ctx, actor.UserID, q.ID)
	if err != nil {
		return nil, err
	}
	return &ScoreResponse{TotalScore: score}, nil
}
