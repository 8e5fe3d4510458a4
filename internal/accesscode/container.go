package accesscode

import (
	"github.com/saulo-duarte/natije-api/internal/access"
	"gorm.io/gorm"
)

type AccessCodeContainer struct {
	Service AccessCodeService
	Handler *Handler
}

func NewAccessCodeContainer(db *gorm.DB, courses CourseLookup, actors access.ActorSource, now access.Clock) *AccessCodeContainer {
	repo := NewRepository(db)
	service := NewService(db, repo, courses, actors, now)

	return &AccessCodeContainer{
		Service: service,
		Handler: NewHandler(service),
	}
}
