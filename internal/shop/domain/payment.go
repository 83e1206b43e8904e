package domain

// VerifiedTransaction is the evidence returned by the payment gateway after
// a successful verification. It is evidence only, not a grant: an
// entitlement exists only once the ledger's idempotent insert succeeds.
type VerifiedTransaction struct {
	Reference string
	Amount    int64  // settled amount in minor currency units
	Currency  string // settled ISO 4217 code
	Status    string // processor transaction state, "success" when terminal
}

// SignedLink is an ephemeral, presigned retrieval URL scoped to exactly one
// object key. It is regenerated per request and never persisted; the object
// store rejects it after expiry regardless of possession.
type SignedLink struct {
	URL       string
	ExpiresAt int64 // unix seconds
}
