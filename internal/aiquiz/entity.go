package aiquiz

import "github.com/google/uuid"

// Draft is one question as returned by the model.
type Draft struct {
	Topic          string   `json:"topic"`
	Difficulty     string   `json:"difficulty"`
	Question       string   `json:"question"`
	Choices        []string `json:"choices"`
	CorrectAnswers []string `json:"correct_answers"`
	Explanation    string   `json:"explanation"`
}

type DraftRequest struct {
	Topic      string `json:"topic" binding:"required,max=255"`
	Difficulty string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Count      int    `json:"count" binding:"gte=0"`
	Context    string `json:"context" binding:"max=2000"`
}

type DraftedVariant struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	IsCorrect bool      `json:"is_correct"`
}

type DraftedQuestion struct {
	ID                        uuid.UUID        `json:"id"`
	Title                     string           `json:"title"`
	HasMultipleCorrectAnswers bool             `json:"has_multiple_correct_answers"`
	Variants                  []DraftedVariant `json:"variants"`
}

type DraftResponse struct {
	Quiz      uuid.UUID         `json:"quiz"`
	Questions []DraftedQuestion `json:"questions"`
}
