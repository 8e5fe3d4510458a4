package course

import (
	"github.com/saulo-duarte/natije-api/internal/access"
	"gorm.io/gorm"
)

type CourseContainer struct {
	Repository CourseRepository
	Handler    *Handler
}

func NewCourseContainer(db *gorm.DB, actors access.ActorSource, videos VideoResolver, now access.Clock) *CourseContainer {
	repo := NewRepository(db)
	service := NewService(repo, actors, videos, now)
	handler := NewHandler(service)

	return &CourseContainer{
		Repository: repo,
		Handler:    handler,
	}
}
