package domain

import "time"

// User is a registered identity. The id is a server-assigned ULID; the email
// is the unique login handle. Users are never deleted.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // argon2id encoded
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
