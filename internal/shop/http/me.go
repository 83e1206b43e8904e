package http

import (
	"errors"
	"net/http"

	"github.com/taxc/storefront/internal/shop/service"
	"github.com/taxc/storefront/internal/shop/store"
	"github.com/taxc/storefront/pkg/httpx"
	"github.com/taxc/storefront/pkg/slogx"
	"github.com/taxc/storefront/pkg/storesdk"
)

// MeHandler serves GET /v1/me.
type MeHandler struct {
	IdentityService *service.IdentityService
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		storesdk.ErrNotAuthenticated.WriteError(w)
		return
	}

	user, err := h.IdentityService.GetUserByID(ctx, userID)
	if err != nil {
		// A valid credential for a deleted identity still fails closed.
		if errors.Is(err, store.ErrNotFound) {
			storesdk.ErrNotAuthenticated.WriteError(w)
			return
		}
		slogx.FromContext(ctx).Error("me lookup failed", "err", err)
		storesdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, storesdk.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	})
}
