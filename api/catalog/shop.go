package catalog

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (cr *CatalogRoutesManager) GetShop(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(cr.settingsService.Public(r.Context())),
		gecho.Send(),
	)
}

// CountVisit is called once per storefront page load
func (cr *CatalogRoutesManager) CountVisit(w http.ResponseWriter, r *http.Request) {
	visits, saved := cr.settingsService.IncrementVisits(r.Context())
	if !saved {
		cr.logger.Warn("Visit not persisted", gecho.Field("visits", visits))
	}
	gecho.Success(w,
		gecho.WithData(map[string]int{"visits": visits}),
		gecho.Send(),
	)
}
