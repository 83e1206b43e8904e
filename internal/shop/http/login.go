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

// LoginHandler serves POST /v1/login.
type LoginHandler struct {
	IdentityService *service.IdentityService
	SessionTTL      time.Duration
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req storesdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		storesdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.Email == "" || req.Password == "" {
		storesdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, token, err := h.IdentityService.Login(ctx, req.Email, req.Password)
	if err != nil {
		// Unknown email and wrong password produce the same response.
		if errors.Is(err, domain.ErrBadPassword) {
			storesdk.ErrBadCredentials.WriteError(w)
			return
		}
		log.Error("login failed", "err", err)
		storesdk.ErrServerError.WriteError(w)
		return
	}

	setSessionCookie(w, token, h.SessionTTL)
	httpx.WriteJSON(w, http.StatusOK, sessionResponse(user, token, h.SessionTTL))
}
