package http

import (
	"net/http"
	"time"

	"github.com/taxc/storefront/pkg/httpx"
	"github.com/taxc/storefront/pkg/storesdk"
)

// LivezHandler returns the liveness probe. Always 200 while the process is up.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := storesdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		}
		httpx.WriteJSON(w, http.StatusOK, response)
	}
}
