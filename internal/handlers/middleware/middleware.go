package middleware

import (
	"maidhub/config"
	"maidhub/internal/database"
	"maidhub/internal/repositories"
	"maidhub/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	DB       database.DB
	userRepo repositories.UserRepository
	tokens   *services.TokenService
	Config   config.Config
	log      logger.Logger
}

func New(
	db database.DB,
	config config.Config,
	repos repositories.Repository,
	services services.Service,
) Middleware {
	return Middleware{
		DB:       db,
		userRepo: repos.User,
		tokens:   services.Token,
		Config:   config,
		log:      logger.New("middleware"),
	}
}
