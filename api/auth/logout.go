package auth

import (
	"net/http"

	"lemonshop_server/lib"

	"github.com/MonkyMars/gecho"
)

func (ar *AuthRoutesManager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	claims, err := ar.authService.Authenticate(r)
	if err != nil {
		ar.logger.Debug("Logout without a valid session", gecho.Field("error", err))
	} else {
		ar.authService.Logout(claims)
	}

	lib.ClearCookie(lib.SessionCookieName, w)

	gecho.Success(w,
		gecho.WithMessage("Logged out successfully"),
		gecho.Send(),
	)
}
