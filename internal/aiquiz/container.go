package aiquiz

import (
	"github.com/saulo-duarte/natije-api/internal/access"
	"gorm.io/gorm"
)

type AIQuizContainer struct {
	Handler *Handler
}

func NewAIQuizContainer(db *gorm.DB, provider Provider, actors access.ActorSource, now access.Clock) *AIQuizContainer {
	service := NewService(db, provider, actors, now)
	handler := NewHandler(service)

	return &AIQuizContainer{
		Handler: handler,
	}
}
