package auth

import (
	"net/http"

	"lemonshop_server/lib"

	"github.com/MonkyMars/gecho"
)

// HandleCSRF generates and sets a CSRF token
func (ar *AuthRoutesManager) HandleCSRF(w http.ResponseWriter, r *http.Request) {
	token, err := lib.GenerateCSRFToken()
	if err != nil {
		ar.logger.Error("Failed to generate CSRF token", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("Failed to generate CSRF token"),
			gecho.Send(),
		)
		return
	}

	lib.SetCSRFCookie(token, w)

	ar.logger.Debug("CSRF token issued",
		gecho.Field("origin", r.Header.Get("Origin")),
		gecho.Field("token_length", len(token)),
	)

	// Return the token in the response as well
	gecho.Success(w,
		gecho.WithData(map[string]string{
			"csrf_token": token,
		}),
		gecho.Send(),
	)
}
