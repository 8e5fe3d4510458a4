package quiz

import (
	"time"

	"github.com/google/uuid"
)

type CreateQuizDTO struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	IsTrial     bool   `json:"is_trial"`
}

type UpdateQuizDTO struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	IsTrial     *bool   `json:"is_trial"`
}

type QuizResponse struct {
	ID                   uuid.UUID `json:"id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Completed            bool      `json:"completed"`
	DatePublished        time.Time `json:"date_published"`
	QuestionCount        int64     `json:"question_count"`
	LastResult           int       `json:"last_result"`
	IsTrial              bool      `json:"is_trial"`
	RequestUserHasAccess bool      `json:"request_user_has_access"`
	MaxScore             int       `json:"max_score"`
}

type CreateQuestionDTO struct {
	Title                     string `json:"title" binding:"required,max=512"`
	HasMultipleCorrectAnswers bool   `json:"has_multiple_correct_answers"`
}

type UpdateQuestionDTO struct {
	Title                     *string `json:"title" binding:"omitempty,min=1,max=512"`
	HasMultipleCorrectAnswers *bool   `json:"has_multiple_correct_answers"`
}

type CreateVariantDTO struct {
	Title     string `json:"title" binding:"required,max=155"`
	IsCorrect bool   `json:"is_correct"`
}

type UpdateVariantDTO struct {
	Title     *string `json:"title" binding:"omitempty,min=1,max=155"`
	IsCorrect *bool   `json:"is_correct"`
}

type AnswerDTO struct {
	SelectedChoice string `json:"selected_choice" binding:"required,uuid"`
}

type VariantResponse struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	IsCorrect  *bool     `json:"is_correct,omitempty"`
	IsSelected bool      `json:"is_selected"`
}

type QuestionResponse struct {
	ID                        uuid.UUID         `json:"id"`
	Title                     string            `json:"title"`
	HasMultipleCorrectAnswers bool              `json:"has_multiple_correct_answers"`
	QuizID                    uuid.UUID         `json:"quiz"`
	Variants                  []VariantResponse `json:"variants"`
}

type QuestionPage struct {
	QuestionID uuid.UUID `json:"question_id"`
	Idx        int       `json:"idx"`
}

type ResultEntry struct {
	Score int       `json:"score"`
	Date  time.Time `json:"date"`
}

type QuizOverview struct {
	Title              string         `json:"title"`
	QuestionPagination []QuestionPage `json:"question_pagination"`
	UserResults        []ResultEntry  `json:"user_results"`
	UserMaxResult      *ResultEntry   `json:"user_max_result"`
	UserMinResult      *ResultEntry   `json:"user_min_result"`
}

const (
	AnswerRecorded = "recorded"
	AnswerRemoved  = "removed"
)

type AnswerResponse struct {
	Status         string    `json:"status"`
	SelectedChoice uuid.UUID `json:"selected_choice"`
	Question       uuid.UUID `json:"question"`
	Quiz           uuid.UUID `json:"quiz"`
}

type ScoreResponse struct {
	TotalScore int `json:"total_score"`
}

func toVariantResponse(v *Variant, revealCorrect bool) VariantResponse {
	resp := VariantResponse{ID: v.ID, Title: v.Title, IsSelected: v.IsSelected}
	if revealCorrect {
		correct := v.IsCorrect
		resp.IsCorrect = &correct
	}
	return resp
}

func toQuestionResponse(q *Question, revealCorrect bool) *QuestionResponse {
	resp := &QuestionResponse{
		ID:                        q.ID,
		Title:                     q.Title,
		HasMultipleCorrectAnswers: q.HasMultipleCorrectAnswers,
		QuizID:                    q.QuizID,
		Variants:                  make([]VariantResponse, 0, len(q.Variants)),
	}
	for i := range q.Variants {
		resp.Variants = append(resp.Variants, toVariantResponse(&q.Variants[i], revealCorrect))
	}
	return resp
}
