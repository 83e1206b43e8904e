package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taxc/storefront/internal/shop/domain"
	"github.com/taxc/storefront/internal/shop/store"
	"github.com/taxc/storefront/pkg/idx"
	"github.com/taxc/storefront/pkg/slogx"
)

// EntitlementService owns the append-only ownership ledger. A grant records
// that a payment reference funded an item for an identity; once written it is
// never updated or removed.
type EntitlementService struct {
	Store store.Store
}

// Grant records an entitlement funded by txnRef. Grants are idempotent per
// reference: replaying the same (user, item, reference) returns the original
// ledger row with no new write, while a reference already spent on a
// different identity or item is rejected with a duplicate-reference conflict.
//
// The insert and the duplicate read-back run in one transaction so two
// concurrent grants for the same reference resolve to exactly one row.
func (s *EntitlementService) Grant(ctx context.Context, userID string, item domain.Item, txnRef string) (domain.Entitlement, error) {
	ent := domain.Entitlement{
		ID:        idx.New().String(),
		UserID:    userID,
		ItemID:    item.ID,
		FileKey:   item.FileKey,
		Price:     item.Price,
		Currency:  item.Currency,
		TxnRef:    txnRef,
		GrantedAt: time.Now().UTC(),
	}

	var granted domain.Entitlement
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		err := tx.Entitlements().CreateEntitlement(ctx, ent)
		if err == nil {
			granted = ent
			return nil
		}
		if !errors.Is(err, store.ErrAlreadyExists) {
			return fmt.Errorf("insert entitlement: %w", err)
		}

		// The reference is already in the ledger. A retry by the same
		// identity for the same item is a replay and succeeds with the
		// original row; anything else is a spent reference.
		existing, getErr := tx.Entitlements().GetByTxnRef(ctx, txnRef)
		if getErr != nil {
			return fmt.Errorf("read back duplicate reference: %w", getErr)
		}
		if existing.UserID == userID && existing.ItemID == item.ID {
			granted = existing
			return nil
		}
		return &domain.LedgerError{Kind: domain.LedgerDuplicateReference, TxnRef: txnRef, Err: err}
	})
	if err != nil {
		return domain.Entitlement{}, err
	}

	if granted.ID == ent.ID {
		slogx.FromContext(ctx).Info("entitlement granted",
			"user_id", userID, "item_id", item.ID, "txn_ref", txnRef)
	}
	return granted, nil
}

// Has reports whether the identity currently owns the item.
func (s *EntitlementService) Has(ctx context.Context, userID, itemID string) (bool, error) {
	return s.Store.Entitlements().Exists(ctx, userID, itemID)
}

// List returns everything the identity owns, most recent first.
func (s *EntitlementService) List(ctx context.Context, userID string) ([]domain.Entitlement, error) {
	return s.Store.Entitlements().ListByUser(ctx, userID)
}
