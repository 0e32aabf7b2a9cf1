package catalog

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (cr *CatalogRoutesManager) GetCategoryTree(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(cr.catalogService.Categories(r.Context())),
		gecho.Send(),
	)
}

func (cr *CatalogRoutesManager) GetCategoryPaths(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(cr.catalogService.CategoryPaths(r.Context())),
		gecho.Send(),
	)
}
