package user

import (
	"github.com/saulo-duarte/natije-api/internal/access"
	"github.com/saulo-duarte/natije-api/internal/auth"
	"gorm.io/gorm"
)

type UserContainer struct {
	Repository UserRepository
	Service    UserService
	Handler    *Handler
}

func NewUserContainer(db *gorm.DB, blacklist auth.Blacklist, google GoogleAuth, now access.Clock) *UserContainer {
	repo := NewRepository(db)
	service := NewService(repo, blacklist, google, now)
	handler := NewHandler(service)

	return &UserContainer{
		Repository: repo,
		Service:    service,
		Handler:    handler,
	}
}
