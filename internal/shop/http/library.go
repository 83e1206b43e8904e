package http

import (
	"net/http"
	"time"

	"github.com/taxc/storefront/internal/shop/service"
	"github.com/taxc/storefront/internal/shop/store"
	"github.com/taxc/storefront/pkg/httpx"
	"github.com/taxc/storefront/pkg/slogx"
	"github.com/taxc/storefront/pkg/storesdk"
)

// LibraryHandler serves GET /v1/library, listing everything the identity
// owns with catalog titles joined in.
type LibraryHandler struct {
	EntitlementService *service.EntitlementService
	Store              store.Store
}

func (h *LibraryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		storesdk.ErrNotAuthenticated.WriteError(w)
		return
	}

	ents, err := h.EntitlementService.List(ctx, userID)
	if err != nil {
		log.Error("library list failed", "err", err)
		storesdk.ErrServerError.WriteError(w)
		return
	}

	resp := storesdk.LibraryResponse{Items: make([]storesdk.LibraryEntry, 0, len(ents))}
	for _, e := range ents {
		entry := storesdk.LibraryEntry{
			ItemID:    e.ItemID,
			Price:     e.Price,
			Currency:  e.Currency,
			TxnRef:    e.TxnRef,
			GrantedAt: e.GrantedAt.UTC().Format(time.RFC3339),
		}
		// Title comes from the catalog; a withdrawn item keeps its ledger
		// row and just renders without one.
		if item, err := h.Store.Catalog().GetItemByID(ctx, e.ItemID); err == nil {
			entry.Title = item.Title
		}
		resp.Items = append(resp.Items, entry)
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
