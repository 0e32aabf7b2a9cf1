package cart

import (
	"net/http"

	"lemonshop_server/handling"
	"lemonshop_server/lib"
	"lemonshop_server/structs"

	"github.com/MonkyMars/gecho"
)

func (cr *CartRoutesManager) CreateCart(w http.ResponseWriter, r *http.Request) {
	state, err := cr.cartService.Create(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to create cart", cr.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Cart created"),
		gecho.WithData(state),
		gecho.Send(),
	)
}

func (cr *CartRoutesManager) GetCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cr.cartID(w, r)
	if !ok {
		return
	}

	state, err := cr.cartService.Get(r.Context(), cartID)
	if err != nil {
		handling.HandleServiceError(err, "Failed to get cart", cr.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(state),
		gecho.Send(),
	)
}

func (cr *CartRoutesManager) DeleteCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cr.cartID(w, r)
	if !ok {
		return
	}

	deleted, err := cr.cartService.Delete(r.Context(), cartID)
	if err != nil {
		handling.HandleServiceError(err, "Failed to delete cart", cr.logger, w)
		return
	}

	handling.Respond(w, cr.logger, deleted, map[string]string{"id": cartID}, "Cart deleted")
}

func (cr *CartRoutesManager) ChangeItem(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cr.cartID(w, r)
	if !ok {
		return
	}

	productID, err := handling.ParseInt64Param(r, "productId")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.CartItemRequest](r)
	if err != nil {
		handling.HandleBodyError(err, cr.logger, w)
		return
	}

	state, err := cr.cartService.AddItem(r.Context(), cartID, productID, body.Delta)
	if err != nil {
		handling.HandleServiceError(err, "Failed to change cart item", cr.logger, w)
		return
	}

	handling.Respond(w, cr.logger, state.Saved, state, "Cart updated")
}

func (cr *CartRoutesManager) ClearCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cr.cartID(w, r)
	if !ok {
		return
	}

	state, err := cr.cartService.Clear(r.Context(), cartID)
	if err != nil {
		handling.HandleServiceError(err, "Failed to clear cart", cr.logger, w)
		return
	}

	handling.Respond(w, cr.logger, state.Saved, state, "Cart cleared")
}

func (cr *CartRoutesManager) SetMode(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cr.cartID(w, r)
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.CartModeRequest](r)
	if err != nil {
		handling.HandleBodyError(err, cr.logger, w)
		return
	}

	state, err := cr.cartService.SetMode(r.Context(), cartID, body.Mode)
	if err != nil {
		handling.HandleServiceError(err, "Failed to set cart mode", cr.logger, w)
		return
	}

	handling.Respond(w, cr.logger, state.Saved, state, "Cart mode changed")
}
