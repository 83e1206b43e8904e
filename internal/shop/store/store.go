package store

import (
	"context"
	"errors"

	"github.com/taxc/storefront/internal/shop/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Catalog() Catalog
	Entitlements() Entitlements

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to handle multi-step operations that must be atomic
	// (e.g. the grant insert plus its duplicate-reference read-back).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is already registered.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	// Everything else about an identity is immutable.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error
}

type Catalog interface {
	// GetItemByID fetches one catalog item.
	GetItemByID(ctx context.Context, id string) (domain.Item, error)

	// ListItems returns the full catalog ordered by title.
	ListItems(ctx context.Context) ([]domain.Item, error)
}

type Entitlements interface {
	// CreateEntitlement inserts an append-only ledger row. The UNIQUE
	// constraint on txn_ref makes this the atomic conditional insert that
	// closes the concurrent double-fulfillment race: the second insert for
	// the same reference fails with ErrAlreadyExists.
	CreateEntitlement(ctx context.Context, e domain.Entitlement) error

	// GetByTxnRef returns the ledger row funding a payment reference.
	GetByTxnRef(ctx context.Context, txnRef string) (domain.Entitlement, error)

	// Exists reports whether the identity owns the item (EXISTS query).
	Exists(ctx context.Context, userID, itemID string) (bool, error)

	// ListByUser returns all entitlements owned by an identity, most
	// recent first. Used to render a library view.
	ListByUser(ctx context.Context, userID string) ([]domain.Entitlement, error)
}
