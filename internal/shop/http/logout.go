package http

import (
	"net/http"
	"time"

	"github.com/taxc/storefront/pkg/httpx"
)

// LogoutHandler serves POST /v1/logout. Sessions are stateless so logout is
// advisory: it expires the cookie, but a credential already copied elsewhere
// stays valid until its expiry.
func LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     httpx.SessionCookieName,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
	}
}
