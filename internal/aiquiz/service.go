package aiquiz

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/saulo-duarte/natije-api/internal/access"
	"github.com/saulo-duarte/natije-api/internal/apperr"
	"github.com/saulo-duarte/natije-api/internal/config"
	"github.com/saulo-duarte/natije-api/internal/quiz"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	maxQuestionTitle = 512
	maxVariantTitle  = 155
)

var (
	ErrDraftingDisabled = apperr.Invalid("quiz", "AI drafting is not configured.")
	ErrNothingDrafted   = apperr.Invalid("topic", "No usable questions were drafted for this topic.")
)

type Service interface {
	DraftQuestions(ctx context.Context, quizID uuid.UUID, req DraftRequest) (*DraftResponse, error)
}

type service struct {
	db       *gorm.DB
	provider Provider
	actors   access.ActorSource
	policy   *access.Policy
}

func NewService(db *gorm.DB, provider Provider, actors access.ActorSource, now access.Clock) Service {
	return &service{
		db:       db,
		provider: provider,
		actors:   actors,
		policy:   access.NewPolicy(nil, now),
	}
}

// DraftQuestions asks the model for questions on a topic and appends the
// usable ones to the quiz in one transaction.
func (s *service) DraftQuestions(ctx context.Context, quizID uuid.UUID, req DraftRequest) (*DraftResponse, error) {
	log := config.WithContext(ctx)

	actor, err := access.Require(ctx, s.actors)
	if err != nil {
		return nil, err
	}
	if err := s.policy.RequireSuperuser(actor); err != nil {
		return nil, err
	}
	if err := apperr.Validate(req); err != nil {
		return nil, err
	}
	if s.provider == nil {
		return nil, ErrDraftingDisabled
	}

	q, err := quiz.NewRepository(s.db).GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}

	drafts, err := s.provider.SendPrompt(ctx, systemPrompt, BuildUserPrompt(req))
	if err != nil {
		return nil, err
	}

	questions := make([]quiz.Question, 0, len(drafts))
	for _, d := range drafts {
		question, ok := toQuestion(q.ID, d)
		if !ok {
			log.WithField("question", d.Question).Warn("Skipping malformed drafted question")
			continue
		}
		questions = append(questions, question)
	}
	if len(questions) == 0 {
		return nil, ErrNothingDrafted
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return quiz.NewRepository(tx).AddQuestions(ctx, questions)
	})
	if err != nil {
		log.WithError(err).Error("Failed to store drafted questions")
		return nil, err
	}

	log.WithFields(logrus.Fields{"quiz_id": q.ID, "questions": len(questions)}).Info("Drafted questions stored")
	return toResponse(q.ID, questions), nil
}

// toQuestion reports false for drafts that cannot be stored as a question.
func toQuestion(quizID uuid.UUID, d Draft) (quiz.Question, bool) {
	title := strings.TrimSpace(d.Question)
	if title == "" || utf8.RuneCountInString(title) > maxQuestionTitle || len(d.Choices) < 2 {
		return quiz.Question{}, false
	}

	correct := map[int]bool{}
	for _, letter := range d.CorrectAnswers {
		letter = strings.ToUpper(strings.TrimSpace(letter))
		if letter == "" {
			continue
		}
		idx := int(letter[0] - 'A')
		if idx < 0 || idx >= len(d.Choices) {
			return quiz.Question{}, false
		}
		correct[idx] = true
	}
	if len(correct) == 0 {
		return quiz.Question{}, false
	}

	variants := make([]quiz.Variant, 0, len(d.Choices))
	for i, choice := range d.Choices {
		text := stripLabel(choice)
		if text == "" || utf8.RuneCountInString(text) > maxVariantTitle {
			return quiz.Question{}, false
		}
		variants = append(variants, quiz.Variant{Title: text, IsCorrect: correct[i]})
	}

	return quiz.Question{
		Title:                     title,
		QuizID:                    quizID,
		HasMultipleCorrectAnswers: len(correct) > 1,
		Variants:                  variants,
	}, true
}

// stripLabel drops a leading "A) " or "B. " style label.
func stripLabel(choice string) string {
	choice = strings.TrimSpace(choice)
	if len(choice) >= 2 {
		c := choice[0] | 0x20
		if c >= 'a' && c <= 'z' && (choice[1] == ')' || choice[1] == '.') {
			choice = strings.TrimSpace(choice[2:])
		}
	}
	return choice
}

func toResponse(quizID uuid.UUID, questions []quiz.Question) *DraftResponse {
	resp := &DraftResponse{Quiz: quizID, Questions: make([]DraftedQuestion, 0, len(questions))}
	for _, q := range questions {
		dq := DraftedQuestion{
			ID:                        q.ID,
			Title:                     q.Title,
			HasMultipleCorrectAnswers: q.HasMultipleCorrectAnswers,
			Variants:                  make([]DraftedVariant, 0, len(q.Variants)),
		}
		for _, v := range q.Variants {
			dq.Variants = append(dq.Variants, DraftedVariant{ID: v.ID, Title: v.Title, IsCorrect: v.IsCorrect})
		}
		resp.Questions = append(resp.Questions, dq)
	}
	return resp
}
