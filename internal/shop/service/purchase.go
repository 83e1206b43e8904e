package service

import (
	"context"
	"fmt"

	"github.com/taxc/storefront/internal/shop/domain"
	"github.com/taxc/storefront/internal/shop/store"
	"github.com/taxc/storefront/pkg/slogx"
)

// PaymentGateway verifies a payment reference against the processor's
// records. The expected amount and currency come from the catalog, never
// from the client.
type PaymentGateway interface {
	Verify(ctx context.Context, reference string, expectedAmount int64, expectedCurrency string) (domain.VerifiedTransaction, error)
}

// PurchaseService composes payment verification with the entitlement ledger:
// a grant happens only after the processor confirms the reference paid the
// catalog price in full.
type PurchaseService struct {
	Store   store.Store
	Gateway PaymentGateway
	Ledger  *EntitlementService
}

// VerifyAndGrant confirms that txnRef is a successful payment for itemID and
// records the entitlement. The catalog row is the sole source of the expected
// price and currency. Safe to retry: a replayed reference for the same
// identity and item returns the original grant.
func (s *PurchaseService) VerifyAndGrant(ctx context.Context, userID, itemID, txnRef string) (domain.Entitlement, error) {
	item, err := s.Store.Catalog().GetItemByID(ctx, itemID)
	if err != nil {
		return domain.Entitlement{}, fmt.Errorf("resolve item: %w", err)
	}

	txn, err := s.Gateway.Verify(ctx, txnRef, item.Price, item.Currency)
	if err != nil {
		slogx.FromContext(ctx).Warn("payment verification failed",
			"user_id", userID, "item_id", itemID, "txn_ref", txnRef, "error", err)
		return domain.Entitlement{}, err
	}

	ent, err := s.Ledger.Grant(ctx, userID, item, txn.Reference)
	if err != nil {
		return domain.Entitlement{}, err
	}

	return ent, nil
}
