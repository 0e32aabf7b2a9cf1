package admin

import (
	"lemonshop_server/api/middleware"
	"lemonshop_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AdminRoutesManager struct {
	logger          *gecho.Logger
	catalogService  *services.CatalogService
	orderService    *services.OrderService
	settingsService *services.SettingsService
	mw              *middleware.Middleware
}

func NewAdminRoutesManager(
	logger *gecho.Logger,
	catalogService *services.CatalogService,
	orderService *services.OrderService,
	settingsService *services.SettingsService,
	mw *middleware.Middleware,
) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger:          logger,
		catalogService:  catalogService,
		orderService:    orderService,
		settingsService: settingsService,
		mw:              mw,
	}
}

func (ar *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(ar.mw.AdminAuthMiddleware)
		r.Use(ar.mw.CSRFMiddleware())

		r.Route("/products", func(r chi.Router) {
			r.Get("/", ar.ListProducts)
			r.Post("/", ar.CreateProduct)
			r.Post("/barcode", ar.GenerateBarcode)
			r.Put("/{id}", ar.UpdateProduct)
			r.Delete("/{id}", ar.DeleteProduct)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", ar.ListCategories)
			r.Post("/", ar.CreateCategory)
			r.Put("/{id}", ar.RenameCategory)
			r.Post("/{id}/up", ar.MoveCategoryUp)
			r.Post("/{id}/down", ar.MoveCategoryDown)
			r.Get("/{id}/parents", ar.ListValidParents)
			r.Put("/{id}/parent", ar.ChangeCategoryParent)
			r.Delete("/{id}", ar.DeleteCategory)
		})

		// Order management routes
		r.Get("/orders", ar.ListOrders)
		r.Get("/orders/{id}", ar.GetOrderDetails)
		r.Put("/orders/{id}/client", ar.UpdateOrderClient)
		r.Delete("/orders/{id}", ar.DeleteOrder)

		r.Get("/settings", ar.GetSettings)
		r.Put("/settings", ar.UpdateSettings)
		r.Put("/theme", ar.SetTheme)

		r.Get("/users", ar.ListUsers)
		r.Post("/users", ar.CreateUser)
		r.Delete("/users/{id}", ar.DeleteUser)

		r.Get("/visits", ar.GetVisits)
	})
}
