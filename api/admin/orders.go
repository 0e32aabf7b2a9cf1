package admin

import (
	"net/http"

	"lemonshop_server/handling"
	"lemonshop_server/lib"
	"lemonshop_server/structs"

	"github.com/MonkyMars/gecho"
)

// ListOrders returns all orders, newest first
func (ar *AdminRoutesManager) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders := ar.orderService.Orders(r.Context())

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"orders": orders,
			"total":  len(orders),
		}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) GetOrderDetails(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseInt64Param(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
		return
	}

	order, err := ar.orderService.GetOrder(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, "Failed to get order", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(order), gecho.Send())
}

func (ar *AdminRoutesManager) UpdateOrderClient(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseInt64Param(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.OrderClient](r)
	if err != nil {
		handling.HandleBodyError(err, ar.logger, w)
		return
	}

	order, saved, err := ar.orderService.UpdateClient(r.Context(), id, *body)
	if err != nil {
		handling.HandleServiceError(err, "Failed to update order", ar.logger, w)
		return
	}

	handling.Respond(w, ar.logger, saved, order, "Order updated")
}

func (ar *AdminRoutesManager) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseInt64Param(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
		return
	}

	saved, err := ar.orderService.DeleteOrder(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, "Failed to delete order", ar.logger, w)
		return
	}

	handling.Respond(w, ar.logger, saved, map[string]int64{"id": id}, "Order deleted")
}
