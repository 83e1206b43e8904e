package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/taxc/storefront/internal/shop/domain"
	"github.com/taxc/storefront/internal/shop/service"
	"github.com/taxc/storefront/pkg/httpx"
	"github.com/taxc/storefront/pkg/slogx"
	"github.com/taxc/storefront/pkg/storesdk"
)

// RegisterHandler serves POST /v1/register.
type RegisterHandler struct {
	IdentityService *service.IdentityService
	SessionTTL      time.Duration
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req storesdk.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		storesdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, token, err := h.IdentityService.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateIdentity):
			storesdk.ErrDuplicateIdentity.WriteError(w)
		case errors.Is(err, domain.ErrInvalidCredential):
			storesdk.ErrInvalidRequest.WriteError(w)
		default:
			log.Error("register failed", "err", err)
			storesdk.ErrServerError.WriteError(w)
		}
		return
	}

	setSessionCookie(w, token, h.SessionTTL)
	httpx.WriteJSON(w, http.StatusCreated, sessionResponse(user, token, h.SessionTTL))
}

// setSessionCookie installs the credential as an HttpOnly cookie so browser
// scripts never see it. Secure is left to the TLS terminator config.
func setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     httpx.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionResponse(user domain.User, token string, ttl time.Duration) storesdk.SessionResponse {
	return storesdk.SessionResponse{
		Token:     token,
		ExpiresIn: int(ttl.Seconds()),
		User: storesdk.UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	}
}
