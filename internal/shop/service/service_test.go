package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/taxc/storefront/internal/shop/domain"
	"github.com/taxc/storefront/internal/shop/store"
	"github.com/taxc/storefront/internal/shop/store/drivers/sqlite"
	"github.com/taxc/storefront/pkg/cryptox"
	"github.com/taxc/storefront/pkg/jwtx"
)

// Each test gets its own named in-memory database so ledger state cannot
// leak between tests.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000",
		strings.ReplaceAll(t.Name(), "/", "_"))
	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newIdentityService(t *testing.T, s store.Store) *IdentityService {
	t.Helper()

	cryptox.SetPepperPath(t.TempDir() + "/pepper")
	signer, err := jwtx.NewHS256([]byte("test-signing-secret"), "storefront-test")
	require.NoError(t, err)
	return &IdentityService{Store: s, Credential: signer, Issuer: "storefront-test", SessionTTL: time.Hour}
}

// fakeGateway replays a canned verdict per reference.
type fakeGateway struct {
	verdicts map[string]error
	calls    int
}

func (g *fakeGateway) Verify(_ context.Context, reference string, _ int64, expectedCurrency string) (domain.VerifiedTransaction, error) {
	g.calls++
	if err, ok := g.verdicts[reference]; ok && err != nil {
		return domain.VerifiedTransaction{}, err
	}
	return domain.VerifiedTransaction{Reference: reference, Currency: expectedCurrency, Status: "success"}, nil
}

// fakePresigner mints deterministic URLs, or fails when broken.
type fakePresigner struct {
	broken  bool
	lastTTL time.Duration
}

func (p *fakePresigner) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	if p.broken {
		return "", fmt.Errorf("presign: connection refused")
	}
	p.lastTTL = ttl
	return "https://files.example.com/" + key + "?sig=abc", nil
}

func TestIdentityRegisterAndLogin(t *testing.T) {
	s := newTestStore(t)
	ids := newIdentityService(t, s)
	ctx := context.Background()

	user, token, err := ids.Register(ctx, "Ada Lovelace", "Ada@Example.com", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "ada@example.com", user.Email, "email is normalized before storage")
	require.NotEmpty(t, token)

	claims, err := ids.Credential.Verify(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
	require.Equal(t, "ada@example.com", claims.Email)

	t.Run("login with correct password", func(t *testing.T) {
		got, token, err := ids.Login(ctx, "ada@example.com", "correct horse")
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
		require.NotEmpty(t, token)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		_, _, errWrong := ids.Login(ctx, "ada@example.com", "wrong")
		require.ErrorIs(t, errWrong, domain.ErrBadPassword)

		_, _, errUnknown := ids.Login(ctx, "nobody@example.com", "whatever")
		require.ErrorIs(t, errUnknown, domain.ErrBadPassword)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, _, err := ids.Register(ctx, "Imposter", "ada@example.com", "hunter2")
		require.ErrorIs(t, err, domain.ErrDuplicateIdentity)
	})

	t.Run("blank fields rejected", func(t *testing.T) {
		_, _, err := ids.Register(ctx, "", "x@example.com", "pw")
		require.ErrorIs(t, err, domain.ErrInvalidCredential)

		_, _, err = ids.Register(ctx, "X", "not-an-email", "pw")
		require.ErrorIs(t, err, domain.ErrInvalidCredential)
	})
}

func TestIdentityPasswordNeverStoredPlain(t *testing.T) {
	s := newTestStore(t)
	ids := newIdentityService(t, s)
	ctx := context.Background()

	user, _, err := ids.Register(ctx, "Grace", "grace@example.com", "s3cret-passphrase")
	require.NoError(t, err)

	stored, err := s.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotContains(t, stored.PasswordHash, "s3cret-passphrase")
	require.True(t, strings.HasPrefix(stored.PasswordHash, "$argon2id$"))
}

func seededItem(t *testing.T, s store.Store) domain.Item {
	t.Helper()

	item, err := s.Catalog().GetItemByID(context.Background(), "tax-guide.pdf")
	require.NoError(t, err)
	return item
}

func TestEntitlementGrantIsIdempotentPerReference(t *testing.T) {
	s := newTestStore(t)
	ids := newIdentityService(t, s)
	ledger := &EntitlementService{Store: s}
	ctx := context.Background()

	alice, _, err := ids.Register(ctx, "Alice", "alice@example.com", "pw-alice")
	require.NoError(t, err)
	bob, _, err := ids.Register(ctx, "Bob", "bob@example.com", "pw-bob")
	require.NoError(t, err)

	item := seededItem(t, s)

	first, err := ledger.Grant(ctx, alice.ID, item, "ref_100")
	require.NoError(t, err)
	require.Equal(t, alice.ID, first.UserID)

	t.Run("replay by same identity returns original row", func(t *testing.T) {
		again, err := ledger.Grant(ctx, alice.ID, item, "ref_100")
		require.NoError(t, err)
		require.Equal(t, first.ID, again.ID)

		owned, err := ledger.List(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, owned, 1, "replay must not append a second ledger row")
	})

	t.Run("spent reference rejected for another identity", func(t *testing.T) {
		_, err := ledger.Grant(ctx, bob.ID, item, "ref_100")
		require.ErrorIs(t, err, domain.ErrDuplicateReference)

		owned, err := ledger.Has(ctx, bob.ID, item.ID)
		require.NoError(t, err)
		require.False(t, owned)
	})
}

func TestPurchaseVerifyAndGrant(t *testing.T) {
	s := newTestStore(t)
	ids := newIdentityService(t, s)
	ledger := &EntitlementService{Store: s}
	ctx := context.Background()

	user, _, err := ids.Register(ctx, "Carol", "carol@example.com", "pw-carol")
	require.NoError(t, err)
	item := seededItem(t, s)

	t.Run("successful verification grants ownership", func(t *testing.T) {
		gw := &fakeGateway{}
		purchases := &PurchaseService{Store: s, Gateway: gw, Ledger: ledger}

		ent, err := purchases.VerifyAndGrant(ctx, user.ID, item.ID, "ref_ok")
		require.NoError(t, err)
		require.Equal(t, item.Price, ent.Price)
		require.Equal(t, item.Currency, ent.Currency)

		owned, err := ledger.Has(ctx, user.ID, item.ID)
		require.NoError(t, err)
		require.True(t, owned)
	})

	t.Run("failed verification grants nothing", func(t *testing.T) {
		gw := &fakeGateway{verdicts: map[string]error{
			"ref_short": &domain.PaymentError{Kind: domain.PaymentAmountMismatch, Reference: "ref_short"},
		}}
		purchases := &PurchaseService{Store: s, Gateway: gw, Ledger: ledger}

		_, err := purchases.VerifyAndGrant(ctx, user.ID, item.ID, "ref_short")
		require.ErrorIs(t, err, domain.ErrAmountMismatch)

		_, err = s.Entitlements().GetByTxnRef(ctx, "ref_short")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("unknown item never reaches the gateway", func(t *testing.T) {
		gw := &fakeGateway{}
		purchases := &PurchaseService{Store: s, Gateway: gw, Ledger: ledger}

		_, err := purchases.VerifyAndGrant(ctx, user.ID, "no-such-item", "ref_x")
		require.ErrorIs(t, err, store.ErrNotFound)
		require.Zero(t, gw.calls)
	})
}

func TestDeliveryMintLink(t *testing.T) {
	s := newTestStore(t)
	ids := newIdentityService(t, s)
	ledger := &EntitlementService{Store: s}
	ctx := context.Background()

	owner, _, err := ids.Register(ctx, "Dan", "dan@example.com", "pw-dan")
	require.NoError(t, err)
	stranger, _, err := ids.Register(ctx, "Eve", "eve@example.com", "pw-eve")
	require.NoError(t, err)

	item := seededItem(t, s)
	_, err = ledger.Grant(ctx, owner.ID, item, "ref_dl")
	require.NoError(t, err)

	t.Run("owner gets a time-limited link", func(t *testing.T) {
		p := &fakePresigner{}
		delivery := &DeliveryService{Store: s, Presigner: p, LinkTTL: 30 * time.Minute}

		link, err := delivery.MintLink(ctx, owner.ID, item.ID)
		require.NoError(t, err)
		require.Contains(t, link.URL, item.FileKey)
		require.Equal(t, 30*time.Minute, p.lastTTL)

		remaining := time.Until(time.Unix(link.ExpiresAt, 0))
		require.InDelta(t, (30 * time.Minute).Seconds(), remaining.Seconds(), 5)
	})

	t.Run("non-owner is refused before any presign", func(t *testing.T) {
		p := &fakePresigner{broken: true}
		delivery := &DeliveryService{Store: s, Presigner: p}

		_, err := delivery.MintLink(ctx, stranger.ID, item.ID)
		require.ErrorIs(t, err, domain.ErrNotEntitled)
	})

	t.Run("file store outage surfaces as storage unavailable", func(t *testing.T) {
		p := &fakePresigner{broken: true}
		delivery := &DeliveryService{Store: s, Presigner: p}

		_, err := delivery.MintLink(ctx, owner.ID, item.ID)
		require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	})
}
