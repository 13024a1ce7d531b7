package middleware

import (
	"fieldops/config"
	"fieldops/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	identity *services.IdentityService
	Config   config.Config
	log      logger.Logger
}

func New(identity *services.IdentityService, config config.Config) Middleware {
	return Middleware{
		identity: identity,
		Config:   config,
		log:      logger.New("middleware"),
	}
}
