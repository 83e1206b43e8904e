package domain

import "time"

// Entitlement is the durable record that an identity paid for and may access
// one item. Rows are append-only: created after successful payment
// verification, never mutated, never deleted.
//
// TxnRef is the external payment reference and the idempotency key: the
// ledger carries a UNIQUE constraint on it so a single payment can fund at
// most one entitlement no matter how many times it is verified.
type Entitlement struct {
	ID        string
	UserID    string
	ItemID    string
	FileKey   string
	Price     int64 // minor currency units at time of purchase
	Currency  string
	TxnRef    string
	GrantedAt time.Time
}
