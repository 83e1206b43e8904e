package storesdk

// ErrorResponse is the wire error shape. Used internally for parsing HTTP
// error responses; client code should use the APIError type instead.
type ErrorResponse struct {
	// Error is the machine-readable error code
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// RegisterRequest creates a new identity.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest authenticates an existing identity.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned by register and login. The same credential is
// also set as an HttpOnly cookie so browser clients never touch it.
type SessionResponse struct {
	// Token is the signed session credential
	Token string `json:"token"`

	// ExpiresIn is the credential lifetime in seconds
	ExpiresIn int `json:"expires_in"`

	// User is the authenticated identity
	User UserResponse `json:"user"`
}

// UserResponse is the public view of an identity.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ItemResponse is one catalog entry. Price is in minor currency units.
type ItemResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Price    int64  `json:"price"`
	Currency string `json:"currency"`
}

// ItemsResponse is the full catalog.
type ItemsResponse struct {
	Items []ItemResponse `json:"items"`
}

// PurchasedResponse answers an ownership query for one item.
type PurchasedResponse struct {
	ItemID    string `json:"item_id"`
	Purchased bool   `json:"purchased"`
}

// LibraryEntry is one owned item in the library view.
type LibraryEntry struct {
	ItemID    string `json:"item_id"`
	Title     string `json:"title"`
	Price     int64  `json:"price"`
	Currency  string `json:"currency"`
	TxnRef    string `json:"txn_ref"`
	GrantedAt string `json:"granted_at"`
}

// LibraryResponse lists everything the identity owns, most recent first.
type LibraryResponse struct {
	Items []LibraryEntry `json:"items"`
}

// PurchaseVerifyRequest asks the server to confirm a payment reference with
// the processor and record the entitlement. The price is never part of the
// request; the server takes it from the catalog.
type PurchaseVerifyRequest struct {
	ItemID    string `json:"item_id"`
	Reference string `json:"reference"`
}

// PurchaseVerifyResponse confirms a recorded entitlement.
type PurchaseVerifyResponse struct {
	ItemID    string `json:"item_id"`
	TxnRef    string `json:"txn_ref"`
	GrantedAt string `json:"granted_at"`
}

// DownloadRequest asks for a fresh signed download link.
type DownloadRequest struct {
	ItemID string `json:"item_id"`
}

// DownloadResponse carries a time-limited signed URL. The link works without
// further authentication until ExpiresAt (unix seconds); after that the file
// store refuses it.
type DownloadResponse struct {
	URL       string `json:"url"`
	ExpiresAt int64  `json:"expires_at"`
}

// HealthResponse is returned by the health probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
}
