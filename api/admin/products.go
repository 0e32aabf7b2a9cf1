package admin

import (
	"net/http"

	"lemonshop_server/handling"
	"lemonshop_server/lib"
	"lemonshop_server/structs"

	"github.com/MonkyMars/gecho"
)

// ListProducts returns the stored products without quotes or paging
func (ar *AdminRoutesManager) ListProducts(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(ar.catalogService.Products(r.Context())),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) CreateProduct(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ProductInput](r)
	if err != nil {
		handling.HandleBodyError(err, ar.logger, w)
		return
	}

	ar.logger.Debug("CreateProduct request received",
		gecho.Field("title", body.Title),
		gecho.Field("has_image", body.ImageData != nil && *body.ImageData != ""),
	)

	product, saved, err := ar.catalogService.CreateProduct(r.Context(), *body)
	if err != nil {
		handling.HandleServiceError(err, "Failed to create product", ar.logger, w)
		return
	}

	handling.Respond(w, ar.logger, saved, product, "Product created successfully")
}

func (ar *AdminRoutesManager) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseInt64Param(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.ProductInput](r)
	if err != nil {
		handling.HandleBodyError(err, ar.logger, w)
		return
	}

	product, saved, err := ar.catalogService.UpdateProduct(r.Context(), id, *body)
	if err != nil {
		handling.HandleServiceError(err, "Failed to update product", ar.logger, w)
		return
	}

	handling.Respond(w, ar.logger, saved, product, "Product updated successfully")
}

func (ar *AdminRoutesManager) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseInt64Param(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
		return
	}

	saved, err := ar.catalogService.DeleteProduct(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, "Failed to delete product", ar.logger, w)
		return
	}

	handling.Respond(w, ar.logger, saved, map[string]int64{"id": id}, "Product deleted successfully")
}

// GenerateBarcode hands out a fresh in-store barcode for the product form
func (ar *AdminRoutesManager) GenerateBarcode(w http.ResponseWriter, r *http.Request) {
	code, err := lib.GenerateBarcode()
	if err != nil {
		handling.HandleError(err, "Failed to generate barcode", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]string{"barcode": code}),
		gecho.Send(),
	)
}
