package auth

import (
	"lemonshop_server/api/middleware"
	"lemonshop_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AuthRoutesManager struct {
	logger      *gecho.Logger
	authService *services.AuthService
	mw          *middleware.Middleware
}

func NewAuthRoutesManager(
	logger *gecho.Logger,
	authService *services.AuthService,
	mw *middleware.Middleware,
) *AuthRoutesManager {
	return &AuthRoutesManager{
		logger:      logger,
		authService: authService,
		mw:          mw,
	}
}

func (ar *AuthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		// CSRF token endpoint (must be called before protected routes)
		r.Get("/csrf", ar.HandleCSRF)

		r.Group(func(r chi.Router) {
			r.Use(ar.mw.CSRFMiddleware())
			r.Post("/login", ar.HandleLogin)
			r.Post("/logout", ar.HandleLogout)
		})

		r.Group(func(r chi.Router) {
			r.Use(ar.mw.AdminAuthMiddleware)
			r.Get("/me", ar.HandleMe)
		})
	})
}
