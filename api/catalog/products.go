package catalog

import (
	"net/http"

	"lemonshop_server/handling"

	"github.com/MonkyMars/gecho"
)

func (cr *CatalogRoutesManager) ListProducts(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseProductListOptions(r)
	if err != nil {
		cr.logger.Debug("Invalid product list options", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Invalid query parameters"), gecho.Send())
		return
	}

	result := cr.catalogService.ListProducts(r.Context(), *opts)
	gecho.Success(w,
		gecho.WithData(result),
		gecho.Send(),
	)
}

func (cr *CatalogRoutesManager) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseInt64Param(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
		return
	}

	product, err := cr.catalogService.GetProduct(r.Context(), id, handling.ParseMode(r))
	if err != nil {
		handling.HandleServiceError(err, "Failed to fetch product", cr.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(product),
		gecho.Send(),
	)
}
