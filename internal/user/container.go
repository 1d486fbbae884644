package user

import (
	"github.com/saulo-duarte/interviewace-api/internal/config"
	"gorm.io/gorm"
)

type UserContainer struct {
	Repo    UserRepository
	Service UserService
	Handler *Handler
}

func NewUserContainer(db *gorm.DB, passwords PasswordHasher, tokens config.JWTConfig, avatars AvatarStore, mailer Mailer) *UserContainer {
	repo := NewRepository(db)
	service := NewService(repo, passwords, tokens, avatars, mailer)
	handler := NewHandler(service)

	return &UserContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
