package service

import (
	"github.com/mreyes/jobtrack/internal/config"
	"github.com/mreyes/jobtrack/internal/repository"
)

type Services struct {
	Auth *AuthService
	Job  *JobService
}

func NewServices(repos *repository.Repositories, notifier Notifier, cfg *config.Config) *Services {
	return &Services{
		Auth: NewAuthService(repos.User, cfg),
		Job:  NewJobService(repos.Job, notifier),
	}
}
