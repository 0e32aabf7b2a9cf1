package cart

import (
	"net/http"

	"lemonshop_server/handling"
	"lemonshop_server/lib"
	"lemonshop_server/structs"

	"github.com/MonkyMars/gecho"
)

func (cr *CartRoutesManager) Checkout(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cr.cartID(w, r)
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.OrderClient](r)
	if err != nil {
		handling.HandleBodyError(err, cr.logger, w)
		return
	}

	result, err := cr.orderService.Checkout(r.Context(), cartID, *body)
	if err != nil {
		handling.HandleServiceError(err, "Failed to place order", cr.logger, w)
		return
	}

	cr.logger.Debug("Checkout completed", gecho.Field("cart", cartID), gecho.Field("order", result.Order.ID))
	handling.Respond(w, cr.logger, result.Saved, result, "Order placed")
}
