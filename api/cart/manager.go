package cart

import (
	"net/http"

	"lemonshop_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CartRoutesManager struct {
	logger       *gecho.Logger
	cartService  *services.CartService
	orderService *services.OrderService
}

func NewCartRoutesManager(
	logger *gecho.Logger,
	cartService *services.CartService,
	orderService *services.OrderService,
) *CartRoutesManager {
	return &CartRoutesManager{
		logger:       logger,
		cartService:  cartService,
		orderService: orderService,
	}
}

func (cr *CartRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Post("/", cr.CreateCart)

		r.Route("/{cartId}", func(r chi.Router) {
			r.Get("/", cr.GetCart)
			r.Delete("/", cr.DeleteCart)
			r.Post("/items/{productId}", cr.ChangeItem)
			r.Delete("/items", cr.ClearCart)
			r.Put("/mode", cr.SetMode)
			r.Post("/checkout", cr.Checkout)
		})
	})
}

// cartID reads and checks the cart id path parameter
func (cr *CartRoutesManager) cartID(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "cartId")
	id, err := uuid.Parse(raw)
	if err != nil {
		cr.logger.Debug("Invalid cart id", gecho.Field("cart", raw))
		gecho.BadRequest(w, gecho.WithMessage("Invalid cart id"), gecho.Send())
		return "", false
	}
	return id.String(), true
}
