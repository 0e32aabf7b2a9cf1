package catalog

import (
	"lemonshop_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type CatalogRoutesManager struct {
	logger          *gecho.Logger
	catalogService  *services.CatalogService
	settingsService *services.SettingsService
}

func NewCatalogRoutesManager(
	logger *gecho.Logger,
	catalogService *services.CatalogService,
	settingsService *services.SettingsService,
) *CatalogRoutesManager {
	return &CatalogRoutesManager{
		logger:          logger,
		catalogService:  catalogService,
		settingsService: settingsService,
	}
}

func (cr *CatalogRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/catalog", func(r chi.Router) {
		r.Get("/products", cr.ListProducts)
		r.Get("/products/{id}", cr.GetProduct)
		r.Get("/categories", cr.GetCategoryTree)
		r.Get("/categories/flat", cr.GetCategoryPaths)
	})

	r.Get("/shop", cr.GetShop)
	r.Post("/visits", cr.CountVisit)
}
