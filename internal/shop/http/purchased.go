package http

import (
	"net/http"

	"github.com/taxc/storefront/internal/shop/service"
	"github.com/taxc/storefront/pkg/httpx"
	"github.com/taxc/storefront/pkg/slogx"
	"github.com/taxc/storefront/pkg/storesdk"
)

// PurchasedHandler serves GET /v1/purchased?item={id}, an ownership query
// for a single item.
type PurchasedHandler struct {
	EntitlementService *service.EntitlementService
}

func (h *PurchasedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		storesdk.ErrNotAuthenticated.WriteError(w)
		return
	}

	itemID := r.URL.Query().Get("item")
	if itemID == "" {
		storesdk.ErrInvalidRequest.WriteError(w)
		return
	}

	// An unknown item id simply reports not-owned; the query does not reveal
	// whether the item exists.
	owned, err := h.EntitlementService.Has(ctx, userID, itemID)
	if err != nil {
		slogx.FromContext(ctx).Error("ownership query failed", "err", err)
		storesdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, storesdk.PurchasedResponse{
		ItemID:    itemID,
		Purchased: owned,
	})
}
