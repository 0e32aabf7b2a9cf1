package admin

import (
	"net/http"

	"lemonshop_server/handling"
	"lemonshop_server/lib"
	"lemonshop_server/structs"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) GetSettings(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(ar.settingsService.Settings(r.Context())),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.SettingsPatch](r)
	if err != nil {
		handling.HandleBodyError(err, ar.logger, w)
		return
	}

	settings, saved, err := ar.settingsService.Patch(r.Context(), *body)
	if err != nil {
		handling.HandleServiceError(err, "Failed to update settings", ar.logger, w)
		return
	}

	handling.Respond(w, ar.logger, saved, settings, "Settings saved")
}

func (ar *AdminRoutesManager) SetTheme(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ThemeRequest](r)
	if err != nil {
		handling.HandleBodyError(err, ar.logger, w)
		return
	}

	saved, err := ar.settingsService.SetTheme(r.Context(), body.Theme)
	if err != nil {
		handling.HandleServiceError(err, "Failed to set theme", ar.logger, w)
		return
	}

	handling.Respond(w, ar.logger, saved, map[string]string{"theme": body.Theme}, "Theme changed")
}

func (ar *AdminRoutesManager) GetVisits(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(map[string]int{"visits": ar.settingsService.Visits(r.Context())}),
		gecho.Send(),
	)
}
