package lib

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
)

const (
	CSRFCookieName = "lemonshop_csrf"
	CSRFHeaderName = "X-CSRF-Token"
)

// GenerateCSRFToken generates a cryptographically secure random token
func GenerateCSRFToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate CSRF token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// SetCSRFCookie stores the token in a cookie the admin page script can read
// and echo back in the CSRF header.
func SetCSRFCookie(token string, w http.ResponseWriter) {
	sameSite, secure, domain := cookieAttributes()

	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		Domain:   domain,
		Secure:   secure,
		SameSite: sameSite,
	})
}

// ValidCSRF reports whether the CSRF header matches the CSRF cookie
func ValidCSRF(r *http.Request) bool {
	cookie, err := GetCookieValue(CSRFCookieName, r)
	if err != nil || cookie == "" {
		return false
	}
	header := r.Header.Get(CSRFHeaderName)
	return header != "" && subtle.ConstantTimeCompare([]byte(header), []byte(cookie)) == 1
}
