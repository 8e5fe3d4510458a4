package quiz

import (
	"github.com/saulo-duarte/natije-api/internal/access"
	"gorm.io/gorm"
)

type QuizContainer struct {
	Repository QuizRepository
	Service    QuizService
	Handler    *Handler
}

func NewQuizContainer(db *gorm.DB, actors access.ActorSource, now access.Clock) *QuizContainer {
	repo := NewRepository(db)
	service := NewService(db, repo, actors, now)
	handler := NewHandler(service)

	return &QuizContainer{
		Repository: repo,
		Service:    service,
		Handler:    handler,
	}
}
