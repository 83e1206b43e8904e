package http

import (
	"net/http"

	"github.com/taxc/storefront/internal/shop/store"
	"github.com/taxc/storefront/pkg/httpx"
	"github.com/taxc/storefront/pkg/slogx"
	"github.com/taxc/storefront/pkg/storesdk"
)

// ItemsHandler serves GET /v1/items, the public catalog. File keys are never
// part of the response.
type ItemsHandler struct {
	Store store.Store
}

func (h *ItemsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.Store.Catalog().ListItems(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("catalog list failed", "err", err)
		storesdk.ErrServerError.WriteError(w)
		return
	}

	resp := storesdk.ItemsResponse{Items: make([]storesdk.ItemResponse, 0, len(items))}
	for _, it := range items {
		resp.Items = append(resp.Items, storesdk.ItemResponse{
			ID:       it.ID,
			Title:    it.Title,
			Price:    it.Price,
			Currency: it.Currency,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
