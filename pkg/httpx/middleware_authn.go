package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/taxc/storefront/pkg/jwtx"
	"github.com/taxc/storefront/pkg/slogx"
)

// SessionCookieName is the cookie carrying the signed session credential.
const SessionCookieName = "session"

// SessionMiddleware resolves the caller's identity from the session cookie,
// or from an Authorization: Bearer header for delivery-only clients.
//
// All verification failures produce the same 401 body so the response leaks
// nothing about why the credential was rejected; the specific cause (expired
// vs malformed vs bad signature) is logged server-side.
func SessionMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := credentialFromRequest(r)
			if raw == "" {
				writeNotAuthenticated(w)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("session verification failed", "err", err)
				writeNotAuthenticated(w)
				return
			}

			ctx = contextWithSession(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// credentialFromRequest prefers the session cookie and falls back to a
// bearer token.
func credentialFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	authz := r.Header.Get("Authorization")
	if strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
	}

	return ""
}

func contextWithSession(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

func writeNotAuthenticated(w http.ResponseWriter) {
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "not_authenticated",
		"error_description": "a valid session is required",
	})
}
