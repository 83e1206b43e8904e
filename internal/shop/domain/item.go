package domain

import "time"

// Item is one sellable ebook in the catalog. Price and currency are
// server-authoritative: payment verification compares the processor's
// settled amount against these fields, never against client input.
type Item struct {
	ID       string
	Title    string
	FileKey  string // object-store key of the protected file
	Price    int64  // minor currency units (kobo for NGN)
	Currency string // ISO 4217 code

	CreatedAt time.Time
}
