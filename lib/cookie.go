package lib

import (
	"net/http"
	"time"

	"lemonshop_server/config"
)

// cookieAttributes returns the cross-site attributes for the current environment
func cookieAttributes() (http.SameSite, bool, string) {
	if config.IsProduction() {
		return http.SameSiteNoneMode, true, config.GetConfig().Auth.CookieDomain
	}
	return http.SameSiteLaxMode, false, ""
}

// SetSessionCookie stores the admin session. It carries no Expires, so the
// browser drops it when the session ends; the token itself still expires.
func SetSessionCookie(val string, w http.ResponseWriter) {
	sameSite, secure, domain := cookieAttributes()

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    val,
		Path:     "/",
		Domain:   domain,
		Secure:   secure,
		SameSite: sameSite,
		HttpOnly: true,
	})
}

func GetCookieValue(key string, r *http.Request) (string, error) {
	cookie, err := r.Cookie(key)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// ClearCookie removes the cookie from the browser
func ClearCookie(key string, w http.ResponseWriter) {
	sameSite, secure, domain := cookieAttributes()

	http.SetCookie(w, &http.Cookie{
		Name:     key,
		Value:    "",
		Path:     "/",
		Domain:   domain,
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
		Secure:   secure,
		SameSite: sameSite,
		HttpOnly: true,
	})
}
