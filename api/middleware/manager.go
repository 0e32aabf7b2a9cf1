package middleware

import (
	"lemonshop_server/services"
	"lemonshop_server/structs"

	"github.com/MonkyMars/gecho"
)

type Middleware struct {
	logger      *gecho.Logger
	cfg         *structs.Config
	authService *services.AuthService
}

func NewMiddleware(cfg *structs.Config, logger *gecho.Logger, authService *services.AuthService) *Middleware {
	return &Middleware{
		logger:      logger,
		cfg:         cfg,
		authService: authService,
	}
}
