package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/taxc/storefront/internal/shop/domain"
	"github.com/taxc/storefront/internal/shop/service"
	"github.com/taxc/storefront/internal/shop/store"
	"github.com/taxc/storefront/pkg/httpx"
	"github.com/taxc/storefront/pkg/slogx"
	"github.com/taxc/storefront/pkg/storesdk"
)

// DownloadHandler serves POST /v1/download. Ownership is re-checked on every
// call and the response is a short-lived signed URL, so the file store never
// needs to be reachable directly.
type DownloadHandler struct {
	DeliveryService *service.DeliveryService
}

func (h *DownloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		storesdk.ErrNotAuthenticated.WriteError(w)
		return
	}

	var req storesdk.DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		storesdk.ErrInvalidRequest.WriteError(w)
		return
	}
	req.ItemID = strings.TrimSpace(req.ItemID)
	if req.ItemID == "" {
		storesdk.ErrInvalidRequest.WriteError(w)
		return
	}

	link, err := h.DeliveryService.MintLink(ctx, userID, req.ItemID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotEntitled):
			storesdk.ErrNotEntitled.WriteError(w)
		case errors.Is(err, store.ErrNotFound):
			// Entitled but the catalog row is gone; treat as not entitled
			// rather than leaking catalog state.
			storesdk.ErrNotEntitled.WriteError(w)
		case errors.Is(err, domain.ErrStorageUnavailable):
			log.Error("presign failed", "err", err)
			storesdk.ErrStorageUnavailable.WriteError(w)
		default:
			log.Error("download mint failed", "err", err)
			storesdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, storesdk.DownloadResponse{
		URL:       link.URL,
		ExpiresAt: link.ExpiresAt,
	})
}
