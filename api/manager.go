package api

import (
	"lemonshop_server/api/admin"
	"lemonshop_server/api/auth"
	"lemonshop_server/api/cart"
	"lemonshop_server/api/catalog"
	"lemonshop_server/api/health"
	"lemonshop_server/api/middleware"
	"lemonshop_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	catalogRoutes *catalog.CatalogRoutesManager
	cartRoutes    *cart.CartRoutesManager
	healthRoutes  *health.HealthRoutesManager
	authRoutes    *auth.AuthRoutesManager
	adminRoutes   *admin.AdminRoutesManager
}

func NewRouterManager(logger *gecho.Logger, sm *services.ServiceManager, mw *middleware.Middleware) *routerManager {
	return &routerManager{
		catalogRoutes: catalog.NewCatalogRoutesManager(logger, sm.CatalogService, sm.SettingsService),
		cartRoutes:    cart.NewCartRoutesManager(logger, sm.CartService, sm.OrderService),
		healthRoutes:  health.NewHealthRoutesManager(sm.HealthService, sm.StoreService),
		authRoutes:    auth.NewAuthRoutesManager(logger, sm.AuthService, mw),
		adminRoutes:   admin.NewAdminRoutesManager(logger, sm.CatalogService, sm.OrderService, sm.SettingsService, mw),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.catalogRoutes.RegisterRoutes(r)
	rm.cartRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
	rm.authRoutes.RegisterRoutes(r)
	rm.adminRoutes.RegisterRoutes(r)
}
