package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taxc/storefront/internal/shop/domain"
	"github.com/taxc/storefront/internal/shop/store"
	"github.com/taxc/storefront/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore("file::memory:?cache=shared&_busy_timeout=5000")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestUser(t *testing.T, s *Store, email string) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.New().String(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func TestUsersCreateAndLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "ada@example.com")

	byID, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, byID.Email)
	require.False(t, byID.CreatedAt.IsZero())

	byEmail, err := s.Users().GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = s.Users().GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	newTestUser(t, s, "dup@example.com")

	err := s.Users().CreateUser(ctx, domain.User{
		ID:           idx.New().String(),
		Name:         "Second",
		Email:        "dup@example.com",
		PasswordHash: "x",
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsersUpdatePasswordHash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "rotate@example.com")
	require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "new-hash"))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)
}

func TestCatalogSeededItems(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item, err := s.Catalog().GetItemByID(ctx, "tax-guide.pdf")
	require.NoError(t, err)
	require.Equal(t, int64(90000), item.Price)
	require.Equal(t, "NGN", item.Currency)
	require.Equal(t, "ebooks/tax-guide.pdf", item.FileKey)

	items, err := s.Catalog().ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	_, err = s.Catalog().GetItemByID(ctx, "no-such-item")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntitlementsUniqueReference(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "buyer@example.com")
	other := newTestUser(t, s, "other@example.com")

	first := domain.Entitlement{
		ID:       idx.New().String(),
		UserID:   u.ID,
		ItemID:   "tax-guide.pdf",
		FileKey:  "ebooks/tax-guide.pdf",
		Price:    90000,
		Currency: "NGN",
		TxnRef:   "ref123",
	}
	require.NoError(t, s.Entitlements().CreateEntitlement(ctx, first))

	// Same reference again, even for a different user, must hit the
	// UNIQUE constraint.
	second := first
	second.ID = idx.New().String()
	second.UserID = other.ID
	require.ErrorIs(t, s.Entitlements().CreateEntitlement(ctx, second), store.ErrAlreadyExists)

	got, err := s.Entitlements().GetByTxnRef(ctx, "ref123")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)
	require.False(t, got.GrantedAt.IsZero())
}

func TestEntitlementsExistsAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "reader@example.com")

	ok, err := s.Entitlements().Exists(ctx, u.ID, "tax-guide.pdf")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Entitlements().CreateEntitlement(ctx, domain.Entitlement{
		ID:       idx.New().String(),
		UserID:   u.ID,
		ItemID:   "tax-guide.pdf",
		FileKey:  "ebooks/tax-guide.pdf",
		Price:    90000,
		Currency: "NGN",
		TxnRef:   "ref-list-1",
	}))

	ok, err = s.Entitlements().Exists(ctx, u.ID, "tax-guide.pdf")
	require.NoError(t, err)
	require.True(t, ok)

	list, err := s.Entitlements().ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "ref-list-1", list[0].TxnRef)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "txuser@example.com")

	wantErr := domain.ErrDuplicateReference
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Entitlements().CreateEntitlement(ctx, domain.Entitlement{
			ID:       idx.New().String(),
			UserID:   u.ID,
			ItemID:   "tax-guide.pdf",
			FileKey:  "ebooks/tax-guide.pdf",
			Price:    90000,
			Currency: "NGN",
			TxnRef:   "ref-tx-1",
		}); err != nil {
			return err
		}
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)

	// Insert must have been rolled back.
	_, err = s.Entitlements().GetByTxnRef(ctx, "ref-tx-1")
	require.ErrorIs(t, err, store.ErrNotFound)
}
