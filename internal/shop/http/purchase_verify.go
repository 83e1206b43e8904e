package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/taxc/storefront/internal/shop/domain"
	"github.com/taxc/storefront/internal/shop/service"
	"github.com/taxc/storefront/internal/shop/store"
	"github.com/taxc/storefront/pkg/httpx"
	"github.com/taxc/storefront/pkg/slogx"
	"github.com/taxc/storefront/pkg/storesdk"
)

// PurchaseVerifyHandler serves POST /v1/purchase/verify. It confirms a
// payment reference with the processor and records the entitlement. The
// expected price comes from the catalog, never from the request body, so a
// tampered client cannot buy below list price.
type PurchaseVerifyHandler struct {
	PurchaseService *service.PurchaseService
}

func (h *PurchaseVerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		storesdk.ErrNotAuthenticated.WriteError(w)
		return
	}

	var req storesdk.PurchaseVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		storesdk.ErrInvalidRequest.WriteError(w)
		return
	}
	req.ItemID = strings.TrimSpace(req.ItemID)
	req.Reference = strings.TrimSpace(req.Reference)
	if req.ItemID == "" || req.Reference == "" {
		storesdk.ErrInvalidRequest.WriteError(w)
		return
	}

	ent, err := h.PurchaseService.VerifyAndGrant(ctx, userID, req.ItemID, req.Reference)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			storesdk.ErrItemNotFound.WriteError(w)
		case errors.Is(err, domain.ErrPaymentNotFound):
			storesdk.ErrPaymentNotFound.WriteError(w)
		case errors.Is(err, domain.ErrPaymentNotSuccessful):
			storesdk.ErrPaymentNotSuccessful.WriteError(w)
		case errors.Is(err, domain.ErrAmountMismatch):
			storesdk.ErrAmountMismatch.WriteError(w)
		case errors.Is(err, domain.ErrCurrencyMismatch):
			storesdk.ErrCurrencyMismatch.WriteError(w)
		case errors.Is(err, domain.ErrGatewayTimeout):
			storesdk.ErrGatewayTimeout.WriteError(w)
		case errors.Is(err, domain.ErrDuplicateReference):
			storesdk.ErrDuplicateReference.WriteError(w)
		default:
			log.Error("purchase verification failed", "err", err)
			storesdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, storesdk.PurchaseVerifyResponse{
		ItemID:    ent.ItemID,
		TxnRef:    ent.TxnRef,
		GrantedAt: ent.GrantedAt.UTC().Format(time.RFC3339),
	})
}
